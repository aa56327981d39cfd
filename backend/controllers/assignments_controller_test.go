package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"minilms/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAssignment(t *testing.T, app *fiber.App, token string, courseID uint, title string) uint {
	t.Helper()

	status, body := doRequest(t, app, http.MethodPost, "/api/assignments", token, map[string]interface{}{
		"course_id":   courseID,
		"title":       title,
		"description": "Do the thing",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assignment := body["assignment"].(map[string]interface{})
	return uint(assignment["id"].(float64))
}

func TestCreateAssignmentOwnership(t *testing.T) {
	app, _ := setupApp(t)
	_, ownerToken := registerUser(t, app, "owner@x.com", "secret1", "Olive Owner", "instructor")
	_, otherToken := registerUser(t, app, "other@x.com", "secret1", "Oscar Other", "instructor")
	courseID := createCourse(t, app, ownerToken, "Intro", "desc")

	status, _ := doRequest(t, app, http.MethodPost, "/api/assignments", otherToken, map[string]interface{}{
		"course_id": courseID,
		"title":     "Not Yours",
	})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doRequest(t, app, http.MethodPost, "/api/assignments", ownerToken, map[string]interface{}{
		"course_id": courseID,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	createAssignment(t, app, ownerToken, courseID, "Homework 1")
}

func TestSubmitAssignment(t *testing.T) {
	app, db := setupApp(t)
	_, instructorToken := registerUser(t, app, "i@x.com", "secret1", "Ivy Instructor", "instructor")
	_, studentToken := registerUser(t, app, "s@x.com", "secret1", "Sam Student", "student")

	courseID := createCourse(t, app, instructorToken, "Intro", "desc")
	assignmentID := createAssignment(t, app, instructorToken, courseID, "Homework 1")
	path := fmt.Sprintf("/api/assignments/%d/submissions", assignmentID)

	// Submission requires enrollment.
	status, _ := doRequest(t, app, http.MethodPost, path, studentToken, map[string]string{"content": "my answer"})
	assert.Equal(t, fiber.StatusForbidden, status)

	doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), studentToken, nil)

	status, _ = doRequest(t, app, http.MethodPost, path, studentToken, map[string]string{"content": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := doRequest(t, app, http.MethodPost, path, studentToken, map[string]string{"content": "my answer"})
	require.Equal(t, fiber.StatusCreated, status)
	submission := body["submission"].(map[string]interface{})
	assert.Nil(t, submission["grade"])

	// Re-submission is a conflict and leaves a single row.
	status, body = doRequest(t, app, http.MethodPost, path, studentToken, map[string]string{"content": "second try"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "Assignment already submitted", body["error"])

	var count int64
	db.Model(&models.Submission{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGradeSubmissionFlow(t *testing.T) {
	app, _ := setupApp(t)
	_, instructorToken := registerUser(t, app, "i@x.com", "secret1", "Ivy Instructor", "instructor")
	_, otherToken := registerUser(t, app, "other@x.com", "secret1", "Oscar Other", "instructor")
	_, studentToken := registerUser(t, app, "s@x.com", "secret1", "Sam Student", "student")

	courseID := createCourse(t, app, instructorToken, "Intro", "desc")
	assignmentID := createAssignment(t, app, instructorToken, courseID, "Homework 1")
	doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), studentToken, nil)

	status, _ := doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/assignments/%d/submissions", assignmentID),
		studentToken, map[string]string{"content": "my answer"})
	require.Equal(t, fiber.StatusCreated, status)

	// Owning instructor lists submissions with student names.
	listPath := fmt.Sprintf("/api/assignments/%d/submissions", assignmentID)
	status, body := doRequest(t, app, http.MethodGet, listPath, instructorToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	submissions := body["submissions"].([]interface{})
	require.Len(t, submissions, 1)
	submission := submissions[0].(map[string]interface{})
	assert.Equal(t, "Sam Student", submission["student_name"])
	assert.Nil(t, submission["grade"])
	submissionID := uint(submission["id"].(float64))

	status, _ = doRequest(t, app, http.MethodGet, listPath, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	gradePath := fmt.Sprintf("/api/submissions/%d/grade", submissionID)
	status, _ = doRequest(t, app, http.MethodPut, gradePath, otherToken, map[string]int{"grade": 10})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doRequest(t, app, http.MethodPut, gradePath, instructorToken, map[string]int{"grade": 101})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = doRequest(t, app, http.MethodPut, gradePath, instructorToken, map[string]int{"grade": 95})
	require.Equal(t, fiber.StatusOK, status)
	graded := body["submission"].(map[string]interface{})
	assert.Equal(t, float64(95), graded["grade"])

	// The student sees the grade through the course assignment listing.
	status, body = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/courses/%d/assignments", courseID), studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assignments := body["assignments"].([]interface{})
	require.Len(t, assignments, 1)
	assignment := assignments[0].(map[string]interface{})
	assert.Equal(t, true, assignment["submitted"])
	assert.Equal(t, float64(95), assignment["grade"])
}

func TestCourseAssignmentsAccess(t *testing.T) {
	app, _ := setupApp(t)
	_, instructorToken := registerUser(t, app, "i@x.com", "secret1", "Ivy Instructor", "instructor")
	_, otherToken := registerUser(t, app, "other@x.com", "secret1", "Oscar Other", "instructor")
	_, studentToken := registerUser(t, app, "s@x.com", "secret1", "Sam Student", "student")

	courseID := createCourse(t, app, instructorToken, "Intro", "desc")
	createAssignment(t, app, instructorToken, courseID, "Homework 1")
	path := fmt.Sprintf("/api/courses/%d/assignments", courseID)

	status, _ := doRequest(t, app, http.MethodGet, path, studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = doRequest(t, app, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), studentToken, nil)
	status, body := doRequest(t, app, http.MethodGet, path, studentToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assignment := body["assignments"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, false, assignment["submitted"])
}
