package handler

import (
	"database/sql"

	"blog_api/internal/calendar"
	"blog_api/internal/config"
	"blog_api/internal/middleware"
	"blog_api/internal/observability"
	"blog_api/internal/post"
	"blog_api/internal/user"

	"github.com/gin-gonic/gin"
)

// SetupHandler initializes all dependencies and routes. metrics may be nil,
// in which case no instrumentation or /metrics route is installed.
func SetupHandler(db *sql.DB, cfg *config.Config, formatter *calendar.Formatter, metrics *observability.Metrics) *gin.Engine {

	r := gin.Default()

	if metrics != nil {
		r.Use(middleware.PrometheusMiddleware(metrics))
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Initialize repositories
	userRepo := user.NewUserRepository(metrics)
	postRepo := post.NewPostRepository(metrics)

	// Initialize services
	userService := user.NewUserService(userRepo, db, metrics)
	postService := post.NewPostService(postRepo, db, formatter, metrics)

	// Initialize controllers
	userController := user.NewUserController(userService, cfg.JWT.Secret)
	postController := post.NewPostController(postService)

	setupRoutes(r, userController, postController, cfg.JWT.Secret)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, userCtrl *user.UserController, postCtrl *post.PostController, jwtSecret string) {
	requireAuth := middleware.AuthMiddleware(jwtSecret)

	// Public routes
	r.POST("/login", userCtrl.Login)
	r.GET("/posts", postCtrl.GetPosts)

	// Protected routes
	r.POST("/posts", requireAuth, postCtrl.CreatePost)
	r.GET("/myposts", requireAuth, postCtrl.GetMyPosts)
}
