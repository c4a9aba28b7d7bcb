package app

import (
	"bloghub/internal/config"
	"bloghub/internal/db"
	"bloghub/internal/handlers"
	"bloghub/internal/repository"
	"bloghub/internal/routes"
	"bloghub/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	postRepo := repository.NewPostRepo(conn)
	tagRepo := repository.NewTagRepo(conn)
	commentRepo := repository.NewCommentRepo(conn)

	// Сервисы
	authService := services.NewAuthService(userRepo)
	postService := services.NewPostService(postRepo)
	tagService := services.NewTagService(tagRepo)
	commentService := services.NewCommentService(commentRepo, postRepo, cfg.AdminEmail, cfg.SiteURL)
	emailService := services.NewEmailService(cfg)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService)
	postHandler := handlers.NewPostHandler(postService)
	tagHandler := handlers.NewTagHandler(tagService)
	commentHandler := handlers.NewCommentHandler(commentService)
	adminHandler := handlers.NewAdminHandler(authService, commentService)
	siteHandler := handlers.NewSiteHandler(postService, tagService, conn)

	// Воркеры очереди писем (уведомления модератору)
	for i := 0; i < 3; i++ {
		services.StartEmailWorker(emailService)
	}

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, authHandler, postHandler, tagHandler, commentHandler, adminHandler, siteHandler)

	return router, nil
}
