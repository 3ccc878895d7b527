package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-admin-service/internal/config"
	"github.com/SAP-F-2025/school-admin-service/internal/models"
	"github.com/SAP-F-2025/school-admin-service/internal/repositories"
	"github.com/SAP-F-2025/school-admin-service/internal/services"
	"github.com/SAP-F-2025/school-admin-service/internal/utils"
	"github.com/SAP-F-2025/school-admin-service/internal/validator"
)

type HandlerManager struct {
	scheduleHandler *ScheduleHandler
	questionHandler *QuestionHandler
	quizHandler     *QuizHandler
	taskHandler     *TaskHandler
	catalogHandler  *CatalogHandler
	userHandler     *UserHandler
	authMiddleware  *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		scheduleHandler: NewScheduleHandler(serviceManager.Schedule(), validator, logger),
		questionHandler: NewQuestionHandler(serviceManager.Question(), validator, logger),
		quizHandler:     NewQuizHandler(serviceManager.Quiz(), serviceManager.Export(), validator, logger),
		taskHandler:     NewTaskHandler(serviceManager.Task(), validator, logger),
		catalogHandler:  NewCatalogHandler(serviceManager.Catalog(), validator, logger),
		userHandler:     NewUserHandler(userRepo, logger),
		authMiddleware:  authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		adminOnly := hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin)

		// Class schedule routes
		schedules := v1.Group("/schedules")
		{
			// Create/modify schedules - Admins only
			schedules.POST("", adminOnly, hm.scheduleHandler.CreateSchedule)
			schedules.DELETE("/:id", adminOnly, hm.scheduleHandler.DeleteSchedule)

			// View schedules - All authenticated users
			schedules.GET("", hm.scheduleHandler.ListSchedules)
			schedules.GET("/:id", hm.scheduleHandler.GetSchedule)
			schedules.GET("/teacher/:teacher_id", hm.scheduleHandler.GetSchedulesByTeacher)
			schedules.GET("/teacher/:teacher_id/current", hm.scheduleHandler.GetCurrentClassForTeacher)
			schedules.GET("/division/:division_id", hm.scheduleHandler.GetSchedulesByDivision)

			// Current class for the calling student
			schedules.GET("/me/current", hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.scheduleHandler.GetCurrentClassForStudent)

			// Topic tagging - Teachers and Admins only
			schedules.POST("/:id/topics", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.scheduleHandler.SetClassTopic)
			schedules.GET("/:id/topics", hm.scheduleHandler.GetClassTopics)
		}

		// Question routes - Teachers and Admins only
		questions := v1.Group("/questions")
		questions.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin))
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/search", hm.questionHandler.SearchQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
			questions.GET("/author/:author_id", hm.questionHandler.GetQuestionsByAuthor)
		}

		// Quiz routes
		quizzes := v1.Group("/quizzes")
		{
			// Authoring - Teachers and Admins only
			quizzes.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.CreateQuiz)
			quizzes.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.DeleteQuiz)

			// Question linkage - Teachers and Admins only
			quizzes.POST("/:id/questions", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.AddQuestionsToQuiz)
			quizzes.POST("/:id/questions/:question_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.AddQuestionToQuiz)
			quizzes.GET("/:id/questions/states", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.GetQuizQuestionsByState)

			// Publication and export - Teachers and Admins only
			quizzes.POST("/:id/publish", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.PublishQuiz)
			quizzes.GET("/:id/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin), hm.quizHandler.ExportQuizQuestions)

			// View quizzes - All authenticated users
			quizzes.GET("", hm.quizHandler.ListQuizzes)
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.GET("/:id/questions", hm.quizHandler.GetQuizQuestions)
			quizzes.GET("/published/division/:division_id", hm.quizHandler.GetPublishedQuizzesByDivision)
		}

		// Task routes - Teachers and Admins only
		tasks := v1.Group("/tasks")
		tasks.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin))
		{
			tasks.POST("", hm.taskHandler.CreateTask)
			tasks.GET("", hm.taskHandler.ListTasks)
			tasks.GET("/:id", hm.taskHandler.GetTask)
			tasks.DELETE("/:id", hm.taskHandler.DeleteTask)
			tasks.GET("/teacher/:teacher_id", hm.taskHandler.GetTasksByTeacher)
			tasks.GET("/teacher/:teacher_id/stats", hm.taskHandler.GetTaskStats)
		}

		// Academic catalog routes - Admins only for writes
		schools := v1.Group("/schools")
		{
			schools.POST("", adminOnly, hm.catalogHandler.CreateSchool)
			schools.GET("", hm.catalogHandler.ListSchools)
		}

		boards := v1.Group("/boards")
		{
			boards.POST("", adminOnly, hm.catalogHandler.CreateBoard)
			boards.GET("", hm.catalogHandler.ListBoards)
		}

		grades := v1.Group("/grades")
		{
			grades.POST("", adminOnly, hm.catalogHandler.CreateGrade)
			grades.GET("", hm.catalogHandler.ListGrades)
		}

		sections := v1.Group("/sections")
		{
			sections.POST("", adminOnly, hm.catalogHandler.CreateSection)
			sections.GET("", hm.catalogHandler.ListSections)
		}

		subjects := v1.Group("/subjects")
		{
			subjects.POST("", adminOnly, hm.catalogHandler.CreateSubject)
			subjects.GET("", hm.catalogHandler.ListSubjects)
		}

		divisions := v1.Group("/divisions")
		{
			divisions.POST("", adminOnly, hm.catalogHandler.CreateDivision)
			divisions.POST("/subjects", adminOnly, hm.catalogHandler.AssignSubjectToDivision)
			divisions.GET("", hm.catalogHandler.ListDivisions)
			divisions.GET("/:id", hm.catalogHandler.GetDivision)
		}

		topics := v1.Group("/topics")
		{
			topics.POST("", adminOnly, hm.catalogHandler.CreateSubjectTopic)
			topics.GET("", hm.catalogHandler.ListSubjectTopics)
		}

		// People registration - Admins only
		teachers := v1.Group("/teachers")
		{
			teachers.POST("", adminOnly, hm.catalogHandler.RegisterTeacher)
			teachers.POST("/subjects", adminOnly, hm.catalogHandler.AssignTeacherSubject)
		}

		students := v1.Group("/students")
		{
			students.POST("", adminOnly, hm.catalogHandler.RegisterStudent)
			students.POST("/divisions", adminOnly, hm.catalogHandler.AssignStudentToDivision)
		}

		// User directory routes
		users := v1.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "school-admin-service",
		})
	})
}
