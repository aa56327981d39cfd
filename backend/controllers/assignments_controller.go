package controllers

import (
	"errors"
	"strings"

	"minilms/backend/config"
	"minilms/backend/models"
	"minilms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssignmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAssignmentsController(db *gorm.DB, cfg *config.Config) *AssignmentsController {
	return &AssignmentsController{DB: db, Cfg: cfg}
}

// CreateAssignment adds an assignment to a course the caller owns.
func (sc *AssignmentsController) CreateAssignment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		CourseID    *uint  `json:"course_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.CourseID == nil {
		return utils.BadRequest(c, "course_id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return utils.BadRequest(c, "title is required")
	}

	var course models.Course
	if err := sc.DB.First(&course, *input.CourseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}
	if course.InstructorID != userID {
		return utils.Forbidden(c, "You can only add assignments to your own courses")
	}

	assignment := models.Assignment{
		CourseID:    course.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
	}
	if err := sc.DB.Create(&assignment).Error; err != nil {
		return utils.InternalServerError(c, "Could not create assignment")
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message":    "Assignment created successfully",
		"assignment": assignment,
	})
}

// GetCourseAssignments lists a course's assignments. Students must be
// enrolled and see their own submission state per assignment; the owning
// instructor sees the raw list.
func (sc *AssignmentsController) GetCourseAssignments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := sc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	if role == models.RoleStudent {
		var count int64
		sc.DB.Model(&models.Enrollment{}).
			Where("student_id = ? AND course_id = ?", userID, course.ID).
			Count(&count)
		if count == 0 {
			return utils.Forbidden(c, "You must be enrolled in this course")
		}
	} else if course.InstructorID != userID {
		return utils.Forbidden(c, "Access denied")
	}

	var assignments []models.Assignment
	if err := sc.DB.Where("course_id = ?", course.ID).Order("created_at asc").Find(&assignments).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch assignments")
	}

	assignmentsData := make([]fiber.Map, 0, len(assignments))
	for _, assignment := range assignments {
		data := fiber.Map{
			"id":          assignment.ID,
			"course_id":   assignment.CourseID,
			"title":       assignment.Title,
			"description": assignment.Description,
			"created_at":  assignment.CreatedAt,
		}

		if role == models.RoleStudent {
			var submission models.Submission
			err := sc.DB.Where("assignment_id = ? AND student_id = ?", assignment.ID, userID).
				First(&submission).Error
			if err == nil {
				data["submitted"] = true
				data["grade"] = submission.Grade
			} else {
				data["submitted"] = false
			}
		}

		assignmentsData = append(assignmentsData, data)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"assignments": assignmentsData})
}

// SubmitAssignment records the calling student's answer. One submission per
// student per assignment; a second attempt is a 409.
func (sc *AssignmentsController) SubmitAssignment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return utils.BadRequest(c, "Invalid assignment ID")
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if strings.TrimSpace(input.Content) == "" {
		return utils.BadRequest(c, "content is required")
	}

	var assignment models.Assignment
	if err := sc.DB.First(&assignment, assignmentID).Error; err != nil {
		return utils.NotFound(c, "Assignment not found")
	}

	var count int64
	sc.DB.Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", userID, assignment.CourseID).
		Count(&count)
	if count == 0 {
		return utils.Forbidden(c, "You must be enrolled in this course")
	}

	var existing models.Submission
	if err := sc.DB.Where("assignment_id = ? AND student_id = ?", assignment.ID, userID).
		First(&existing).Error; err == nil {
		return utils.Conflict(c, "Assignment already submitted")
	}

	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    userID,
		Content:      input.Content,
	}
	if err := sc.DB.Create(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Conflict(c, "Assignment already submitted")
		}
		return utils.InternalServerError(c, "Could not submit assignment")
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message":    "Assignment submitted successfully",
		"submission": submission,
	})
}

// GetSubmissions lists submissions for an assignment the caller owns,
// annotated with each student's name.
func (sc *AssignmentsController) GetSubmissions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	assignmentID, err := c.ParamsInt("id")
	if err != nil || assignmentID <= 0 {
		return utils.BadRequest(c, "Invalid assignment ID")
	}

	var assignment models.Assignment
	if err := sc.DB.First(&assignment, assignmentID).Error; err != nil {
		return utils.NotFound(c, "Assignment not found")
	}

	var course models.Course
	if err := sc.DB.First(&course, assignment.CourseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch course")
	}
	if course.InstructorID != userID {
		return utils.Forbidden(c, "You can only view submissions for your own courses")
	}

	var submissions []models.Submission
	if err := sc.DB.Where("assignment_id = ?", assignment.ID).Order("submitted_at asc").Find(&submissions).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch submissions")
	}

	submissionsData := make([]fiber.Map, 0, len(submissions))
	for _, submission := range submissions {
		studentName := "Unknown"
		var student models.User
		if err := sc.DB.First(&student, submission.StudentID).Error; err == nil {
			studentName = student.FullName
		}
		submissionsData = append(submissionsData, fiber.Map{
			"id":            submission.ID,
			"assignment_id": submission.AssignmentID,
			"student_id":    submission.StudentID,
			"student_name":  studentName,
			"content":       submission.Content,
			"submitted_at":  submission.SubmittedAt,
			"grade":         submission.Grade,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"submissions": submissionsData})
}

// GradeSubmission sets the grade on a submission under a course the caller
// owns.
func (sc *AssignmentsController) GradeSubmission(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	submissionID, err := c.ParamsInt("id")
	if err != nil || submissionID <= 0 {
		return utils.BadRequest(c, "Invalid submission ID")
	}

	var input struct {
		Grade *int `json:"grade"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Grade == nil {
		return utils.BadRequest(c, "grade is required")
	}
	if *input.Grade < 0 || *input.Grade > 100 {
		return utils.BadRequest(c, "Grade must be between 0 and 100")
	}

	var submission models.Submission
	if err := sc.DB.First(&submission, submissionID).Error; err != nil {
		return utils.NotFound(c, "Submission not found")
	}

	var assignment models.Assignment
	if err := sc.DB.First(&assignment, submission.AssignmentID).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch assignment")
	}
	var course models.Course
	if err := sc.DB.First(&course, assignment.CourseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch course")
	}
	if course.InstructorID != userID {
		return utils.Forbidden(c, "You can only grade submissions for your own courses")
	}

	submission.Grade = input.Grade
	if err := sc.DB.Save(&submission).Error; err != nil {
		return utils.InternalServerError(c, "Could not grade submission")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":    "Submission graded successfully",
		"submission": submission,
	})
}
