package controllers

import (
	"time"

	"minilms/backend/config"
	"minilms/backend/models"
	"minilms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLessonsController(db *gorm.DB, cfg *config.Config) *LessonsController {
	return &LessonsController{DB: db, Cfg: cfg}
}

func (lc *LessonsController) isEnrolled(studentID, courseID uint) bool {
	var count int64
	lc.DB.Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count)
	return count > 0
}

// CreateLesson adds a lesson to a course the caller owns.
func (lc *LessonsController) CreateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		CourseID   *uint   `json:"course_id"`
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		OrderIndex *int    `json:"order_index"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	switch {
	case input.CourseID == nil:
		return utils.BadRequest(c, "course_id is required")
	case input.Title == nil:
		return utils.BadRequest(c, "title is required")
	case input.Content == nil:
		return utils.BadRequest(c, "content is required")
	case input.OrderIndex == nil:
		return utils.BadRequest(c, "order_index is required")
	}

	var course models.Course
	if err := lc.DB.First(&course, *input.CourseID).Error; err != nil {
		return utils.NotFound(c, "Course not found")
	}
	if course.InstructorID != userID {
		return utils.Forbidden(c, "You can only add lessons to your own courses")
	}

	lesson := models.Lesson{
		CourseID:   course.ID,
		Title:      *input.Title,
		Content:    *input.Content,
		OrderIndex: *input.OrderIndex,
	}
	if err := lc.DB.Create(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not create lesson")
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{
		"message": "Lesson created successfully",
		"lesson":  lesson,
	})
}

// GetLesson godoc
// @Summary View a lesson
// @Description Students must be enrolled, instructors must own the course.
// @Tags lessons
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /lessons/{id} [get]
func (lc *LessonsController) GetLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := c.ParamsInt("id")
	if err != nil || lessonID <= 0 {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := lc.DB.First(&lesson, lessonID).Error; err != nil {
		return utils.NotFound(c, "Lesson not found")
	}

	var course models.Course
	if err := lc.DB.First(&course, lesson.CourseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch course")
	}

	if role == models.RoleStudent {
		if !lc.isEnrolled(userID, lesson.CourseID) {
			return utils.Forbidden(c, "You must be enrolled in this course to view lessons")
		}
	} else if course.InstructorID != userID {
		return utils.Forbidden(c, "Access denied")
	}

	data := fiber.Map{
		"id":           lesson.ID,
		"course_id":    lesson.CourseID,
		"title":        lesson.Title,
		"content":      lesson.Content,
		"order_index":  lesson.OrderIndex,
		"created_at":   lesson.CreatedAt,
		"course_title": course.Title,
	}

	if role == models.RoleStudent {
		var progress models.Progress
		completed := false
		if err := lc.DB.Where("student_id = ? AND lesson_id = ?", userID, lesson.ID).
			First(&progress).Error; err == nil {
			completed = progress.Completed
		}
		data["completed"] = completed
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"lesson": data})
}

// CompleteLesson godoc
// @Summary Mark a lesson complete
// @Description Idempotent: repeat calls leave one progress row, completed=true
// @Tags lessons
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /lessons/{id}/complete [post]
func (lc *LessonsController) CompleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := c.ParamsInt("id")
	if err != nil || lessonID <= 0 {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := lc.DB.First(&lesson, lessonID).Error; err != nil {
		return utils.NotFound(c, "Lesson not found")
	}

	if !lc.isEnrolled(userID, lesson.CourseID) {
		return utils.Forbidden(c, "You must be enrolled in this course")
	}

	// Single insert-or-update keyed by the unique pair closes the race
	// between the existence check and the write.
	now := time.Now().UTC()
	progress := models.Progress{
		StudentID:   userID,
		LessonID:    lesson.ID,
		Completed:   true,
		CompletedAt: &now,
	}
	err = lc.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed":    true,
			"completed_at": now,
		}),
	}).Create(&progress).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not update progress")
	}

	if err := lc.DB.Where("student_id = ? AND lesson_id = ?", userID, lesson.ID).
		First(&progress).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch progress")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message":  "Lesson marked as complete",
		"progress": progress,
	})
}

// UpdateLesson applies partial updates to a lesson in a course the caller
// owns.
func (lc *LessonsController) UpdateLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := c.ParamsInt("id")
	if err != nil || lessonID <= 0 {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := lc.DB.First(&lesson, lessonID).Error; err != nil {
		return utils.NotFound(c, "Lesson not found")
	}

	var course models.Course
	if err := lc.DB.First(&course, lesson.CourseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch course")
	}
	if course.InstructorID != userID {
		return utils.Forbidden(c, "You can only edit lessons in your own courses")
	}

	var input struct {
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		OrderIndex *int    `json:"order_index"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title != nil {
		lesson.Title = *input.Title
	}
	if input.Content != nil {
		lesson.Content = *input.Content
	}
	if input.OrderIndex != nil {
		lesson.OrderIndex = *input.OrderIndex
	}

	if err := lc.DB.Save(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not update lesson")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Lesson updated successfully",
		"lesson":  lesson,
	})
}

// DeleteLesson removes a lesson and its progress records.
func (lc *LessonsController) DeleteLesson(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	lessonID, err := c.ParamsInt("id")
	if err != nil || lessonID <= 0 {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := lc.DB.First(&lesson, lessonID).Error; err != nil {
		return utils.NotFound(c, "Lesson not found")
	}

	var course models.Course
	if err := lc.DB.First(&course, lesson.CourseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch course")
	}
	if course.InstructorID != userID {
		return utils.Forbidden(c, "You can only delete lessons in your own courses")
	}

	err = lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&models.Progress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&lesson).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete lesson")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Lesson deleted successfully",
	})
}
