package routes

import (
	"time"

	"minilms/backend/config"
	"minilms/backend/controllers"
	"minilms/backend/middleware"
	"minilms/backend/models"
	"minilms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return utils.Success(c, fiber.StatusOK, fiber.Map{
			"message":   "Mini-LMS Backend is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   "1.0.0",
		})
	})

	authRequired := middleware.AuthMiddleware(cfg)
	instructorOnly := middleware.RequireRole(models.RoleInstructor)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	auth := app.Group("/api/auth")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Get("/me", authRequired, authController.Me)
	auth.Get("/verify", authRequired, authController.Verify)

	// Course routes
	coursesController := controllers.NewCoursesController(db, cfg)
	assignmentsController := controllers.NewAssignmentsController(db, cfg)
	courses := app.Group("/api/courses", authRequired)
	courses.Post("/", instructorOnly, coursesController.CreateCourse)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/my-courses", coursesController.GetMyCourses)
	courses.Get("/:id", coursesController.GetCourse)
	courses.Put("/:id", instructorOnly, coursesController.UpdateCourse)
	courses.Delete("/:id", instructorOnly, coursesController.DeleteCourse)
	courses.Post("/:id/enroll", studentOnly, coursesController.EnrollInCourse)
	courses.Get("/:id/assignments", assignmentsController.GetCourseAssignments)

	// Lesson routes
	lessonsController := controllers.NewLessonsController(db, cfg)
	lessons := app.Group("/api/lessons", authRequired)
	lessons.Post("/", instructorOnly, lessonsController.CreateLesson)
	lessons.Get("/:id", lessonsController.GetLesson)
	lessons.Post("/:id/complete", studentOnly, lessonsController.CompleteLesson)
	lessons.Put("/:id", instructorOnly, lessonsController.UpdateLesson)
	lessons.Delete("/:id", instructorOnly, lessonsController.DeleteLesson)

	// Assignment and submission routes
	assignments := app.Group("/api/assignments", authRequired)
	assignments.Post("/", instructorOnly, assignmentsController.CreateAssignment)
	assignments.Post("/:id/submissions", studentOnly, assignmentsController.SubmitAssignment)
	assignments.Get("/:id/submissions", instructorOnly, assignmentsController.GetSubmissions)
	app.Put("/api/submissions/:id/grade", authRequired, instructorOnly, assignmentsController.GradeSubmission)
}
