// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"classroom/internal/delivery/http/middleware"
	"classroom/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds all handlers and middleware, injected by Fx.
type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	CourseHandler     *handler.CourseHandler
	AssignmentHandler *handler.AssignmentHandler
	AnalyzerHandler   *handler.AnalyzerHandler
	ReportHandler     *handler.ReportHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application. Session
// entry points stay public; everything else sits behind the access token.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.params.AuthHandler.SignUp)
		authGroup.POST("/login", r.params.AuthHandler.LogIn)
		authGroup.POST("/refresh", r.params.AuthHandler.RefreshJWT)
	}

	api := e.Group("/api")
	api.Use(r.params.AuthMiddleware.Authenticate)
	{
		api.POST("/auth/logout", r.params.AuthHandler.LogOut)
		api.POST("/auth/change-password", r.params.AuthHandler.ChangePassword)

		api.POST("/users", r.params.UserHandler.UpsertUser)
		api.GET("/users", r.params.UserHandler.AllUsers)
		api.GET("/users/:id", r.params.UserHandler.GetUserByID)

		api.POST("/courses", r.params.CourseHandler.UpsertCourse)
		api.GET("/courses", r.params.CourseHandler.AllCourses)
		api.GET("/courses/:id", r.params.CourseHandler.GetCourseByID)
		api.POST("/courses/register", r.params.CourseHandler.RegisterCourse)
		api.POST("/courses/unregister", r.params.CourseHandler.UnregisterCourse)
		api.POST("/groups", r.params.CourseHandler.RegisterGroup)

		api.POST("/assignments", r.params.AssignmentHandler.UpsertAssignment)
		api.GET("/assignments", r.params.AssignmentHandler.AllAssignments)
		api.GET("/assignments/:id", r.params.AssignmentHandler.GetAssignmentByID)
		api.POST("/assignments/assign", r.params.AssignmentHandler.AssignAssignment)
		api.POST("/assignments/submit", r.params.AssignmentHandler.SubmitAssignment)
		api.GET("/student-assignments", r.params.AssignmentHandler.AllStudentAssignments)
		api.GET("/student-assignments/:id", r.params.AssignmentHandler.GetStudentAssignmentByID)
		api.GET("/student-assignments/:id/questions", r.params.AssignmentHandler.AllAssignmentQuestions)
		api.POST("/questions/assign", r.params.AssignmentHandler.AssignQuestion)
		api.POST("/questions/comment", r.params.AssignmentHandler.PostComment)

		api.POST("/analyzers", r.params.AnalyzerHandler.UpsertAnalyzer)
		api.GET("/analyzers", r.params.AnalyzerHandler.AllAnalyzers)
		api.GET("/analyzers/:id", r.params.AnalyzerHandler.GetAnalyzerByID)

		api.GET("/reports", r.params.ReportHandler.AllReports)
		api.GET("/reports/:id", r.params.ReportHandler.GetReportByID)
		api.GET("/student-assignments/:id/reports", r.params.ReportHandler.AllReportsByStudentAssignment)
	}
}
