package router

import (
	"time"

	"github.com/escuela-dev/escuela/internal/config"
	"github.com/escuela-dev/escuela/internal/handlers"
	"github.com/escuela-dev/escuela/internal/middleware"
	"github.com/escuela-dev/escuela/internal/realtime"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(cfg *config.Config, log *zap.Logger) *gin.Engine {
	r := gin.New()

	accessLog := middleware.AccessLogger(log)

	r.Use(ginzap.Ginzap(accessLog, time.RFC3339, true))
	r.Use(ginzap.RecoveryWithZap(accessLog, true))
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.RegisterValidators()
	handlers.StaticDir = cfg.StaticDir
	realtime.DefaultHub.AllowOrigins(cfg.AllowedOrigins)

	r.Static("/static", cfg.StaticDir)

	authenticated := middleware.AuthMiddleware()
	admin := middleware.RequireRole(types.RoleAdmin)
	staff := middleware.RequireRole(types.RoleProfessor, types.RoleAdmin)

	r.GET("/", handlers.Hello)
	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := r.Group("/users")
	{
		users.POST("/login", handlers.LoginUser)
		users.POST("/logout", authenticated, handlers.LogoutUser)
		users.GET("/me", authenticated, handlers.Me)
		users.GET("/all", authenticated, handlers.ListUsers)
		users.POST("/add", authenticated, admin, handlers.CreateUser)
		users.POST("/:user_id/careers", authenticated, admin, handlers.AssignCareerToUser)
	}

	user := r.Group("/user", authenticated)
	{
		user.GET("/:user_id", admin, handlers.GetUser)
		user.PUT("/update/:user_id", admin, handlers.UpdateUser)
		user.DELETE("/delete/:user_id", admin, handlers.DeleteUser)
		// Older clients delete with GET.
		user.GET("/delete/:user_id", admin, handlers.DeleteUser)
		user.POST("/change-password/self", handlers.ChangeOwnPassword)
		user.POST("/reset-password/:user_id", admin, handlers.ResetUserPassword)
		user.POST("/upload-photo", handlers.UploadProfilePhoto)
		user.POST("/addcareer", admin, handlers.EnrollUser)
		user.GET("/career/:username", handlers.GetUserCareers)
	}

	career := r.Group("/career")
	{
		career.GET("/all", handlers.ListCareers)
		career.POST("/add", authenticated, admin, handlers.CreateCareer)
		career.GET("/:career_id", authenticated, handlers.GetCareer)
		career.GET("/:career_id/students", authenticated, admin, handlers.GetCareerStudents)
		career.PUT("/update/:career_id", authenticated, admin, handlers.UpdateCareer)
		career.DELETE("/delete/:career_id", authenticated, admin, handlers.DeleteCareer)
	}

	professor := r.Group("/professor", authenticated, staff)
	{
		professor.GET("/dashboard-data", handlers.ProfessorCareers)
		professor.GET("/careers-data", handlers.ProfessorCareers)
	}

	payment := r.Group("/payment", authenticated)
	{
		payment.GET("/all/detailled", admin, handlers.ListPaymentsDetailed)
		payment.GET("/user", handlers.MyPayments)
		payment.GET("/user/:username", handlers.UserPayments)
		payment.POST("/add", admin, handlers.CreatePayment)
		payment.GET("/:payment_id", admin, handlers.GetPayment)
		payment.PUT("/update/:payment_id", admin, handlers.UpdatePayment)
		payment.DELETE("/delete/:payment_id", admin, handlers.DeletePayment)
	}

	messages := r.Group("/messages")
	{
		messages.GET("/ws", middleware.WebSocketAuthMiddleware(), handlers.InboxSocket)
		messages.POST("", authenticated, admin, handlers.SendMessage)
		messages.GET("", authenticated, handlers.ListMessages)
		messages.PUT("/:message_id/read", authenticated, handlers.MarkMessageRead)
	}

	return r
}
