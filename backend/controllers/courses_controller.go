package controllers

import (
	"errors"

	"minilms/backend/config"
	"minilms/backend/models"
	"minilms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

// courseMap flattens a course for JSON responses so annotations can be
// attached next to the entity fields.
func courseMap(course *models.Course) fiber.Map {
	return fiber.Map{
		"id":            course.ID,
		"title":         course.Title,
		"description":   course.Description,
		"instructor_id": course.InstructorID,
		"created_at":    course.CreatedAt,
	}
}

func (cc *CoursesController) instructorName(instructorID uint) string {
	var instructor models.User
	if err := cc.DB.First(&instructor, instructorID).Error; err != nil {
		return "Unknown"
	}
	return instructor.FullName
}

// CreateCourse godoc
// @Summary Create a course
// @Description Creates a course owned by the calling instructor
// @Tags courses
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	course := models.Course{
		Title:        input.Title,
		Description:  input.Description,
		InstructorID: userID,
	}
	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message": "Course created successfully",
		"course":  course,
	})
}

// GetCourses lists every course, annotated with the instructor's name, the
// caller's enrollment status and the lesson count.
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var courses []models.Course
	if err := cc.DB.Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch courses")
	}

	coursesData := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		course := &courses[i]
		data := courseMap(course)
		data["instructor_name"] = cc.instructorName(course.InstructorID)

		isEnrolled := false
		if role == models.RoleStudent {
			var count int64
			cc.DB.Model(&models.Enrollment{}).
				Where("student_id = ? AND course_id = ?", userID, course.ID).
				Count(&count)
			isEnrolled = count > 0
		}
		data["is_enrolled"] = isEnrolled

		var lessonCount int64
		cc.DB.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&lessonCount)
		data["lesson_count"] = lessonCount

		coursesData = append(coursesData, data)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"courses": coursesData})
}

// GetCourse returns one course with its lessons sorted by order_index.
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
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
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	var lessons []models.Lesson
	if err := cc.DB.Where("course_id = ?", course.ID).Order("order_index asc").Find(&lessons).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch lessons")
	}

	data := courseMap(&course)
	data["instructor_name"] = cc.instructorName(course.InstructorID)
	data["lessons"] = lessons

	if role == models.RoleStudent {
		var count int64
		cc.DB.Model(&models.Enrollment{}).
			Where("student_id = ? AND course_id = ?", userID, course.ID).
			Count(&count)
		data["is_enrolled"] = count > 0
	} else {
		data["is_enrolled"] = userID == course.InstructorID
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"course": data})
}

// UpdateCourse applies partial updates to a course the caller owns.
func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}
	if course.InstructorID != userID {
		return utils.Forbidden(c, "You can only edit your own courses")
	}

	// Pointer fields keep absent keys from clearing columns.
	var input struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != nil {
		course.Title = *input.Title
	}
	if input.Description != nil {
		course.Description = *input.Description
	}

	if err := cc.DB.Save(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Course updated successfully",
		"course":  course,
	})
}

// DeleteCourse removes a course the caller owns together with its lessons,
// progress, enrollments, assignments and submissions, atomically.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}
	if course.InstructorID != userID {
		return utils.Forbidden(c, "You can only delete your own courses")
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		lessonIDs := tx.Model(&models.Lesson{}).Select("id").Where("course_id = ?", course.ID)
		if err := tx.Where("lesson_id IN (?)", lessonIDs).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		assignmentIDs := tx.Model(&models.Assignment{}).Select("id").Where("course_id = ?", course.ID)
		if err := tx.Where("assignment_id IN (?)", assignmentIDs).Delete(&models.Submission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Course deleted successfully",
	})
}

// EnrollInCourse godoc
// @Summary Enroll in a course
// @Description Enrolls the calling student; duplicate enrollment is a 409
// @Tags courses
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /courses/{id}/enroll [post]
func (cc *CoursesController) EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	courseID, err := c.ParamsInt("id")
	if err != nil || courseID <= 0 {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}

	// Early exit; the unique index on (student_id, course_id) is the real
	// guarantee under concurrent requests.
	var existing models.Enrollment
	if err := cc.DB.Where("student_id = ? AND course_id = ?", userID, course.ID).First(&existing).Error; err == nil {
		return utils.Conflict(c, "Already enrolled in this course")
	}

	enrollment := models.Enrollment{StudentID: userID, CourseID: course.ID}
	if err := cc.DB.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Conflict(c, "Already enrolled in this course")
		}
		return utils.InternalServerError(c, "Could not enroll in course")
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message":    "Successfully enrolled in course",
		"enrollment": enrollment,
	})
}

// GetMyCourses branches by role: students get the courses they are enrolled
// in, instructors the courses they own.
func (cc *CoursesController) GetMyCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	coursesData := make([]fiber.Map, 0)

	if role == models.RoleStudent {
		var enrollments []models.Enrollment
		if err := cc.DB.Where("student_id = ?", userID).Find(&enrollments).Error; err != nil {
			return utils.InternalServerError(c, "Could not fetch enrollments")
		}

		for _, enrollment := range enrollments {
			var course models.Course
			if err := cc.DB.First(&course, enrollment.CourseID).Error; err != nil {
				continue
			}

			data := courseMap(&course)
			data["instructor_name"] = cc.instructorName(course.InstructorID)
			data["enrolled_at"] = enrollment.EnrolledAt

			var lessonCount int64
			cc.DB.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&lessonCount)
			data["lesson_count"] = lessonCount

			coursesData = append(coursesData, data)
		}
	} else {
		var courses []models.Course
		if err := cc.DB.Where("instructor_id = ?", userID).Find(&courses).Error; err != nil {
			return utils.InternalServerError(c, "Could not fetch courses")
		}

		for i := range courses {
			course := &courses[i]
			data := courseMap(course)

			var lessonCount, studentCount int64
			cc.DB.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&lessonCount)
			cc.DB.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&studentCount)
			data["lesson_count"] = lessonCount
			data["student_count"] = studentCount

			coursesData = append(coursesData, data)
		}
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"courses": coursesData})
}
