package routes

import (
	"bloghub/internal/handlers"
	"bloghub/internal/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	tagHandler *handlers.TagHandler,
	commentHandler *handlers.CommentHandler,
	adminHandler *handlers.AdminHandler,
	siteHandler *handlers.SiteHandler,
) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging)

	// --- Публичная витрина ---
	router.HandleFunc("/", siteHandler.Index).Methods("GET")
	router.HandleFunc("/health", siteHandler.Health).Methods("GET")
	router.HandleFunc("/posts", siteHandler.Posts).Methods("GET")
	router.HandleFunc("/posts/{slug}", siteHandler.PostBySlug).Methods("GET")
	router.HandleFunc("/tags", siteHandler.Tags).Methods("GET")
	router.HandleFunc("/tags/{slug}", siteHandler.TagBySlug).Methods("GET")

	// --- Аутентификация ---
	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")
	auth.Handle("/me", middleware.JWTAuth(http.HandlerFunc(authHandler.Me))).Methods("GET")
	auth.Handle("/logout", middleware.JWTAuth(http.HandlerFunc(authHandler.Logout))).Methods("POST")
	auth.Handle("/change-password", middleware.JWTAuth(http.HandlerFunc(authHandler.ChangePassword))).Methods("POST")

	// --- API v1 ---
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/posts", postHandler.List).Methods("GET")
	api.Handle("/posts", middleware.JWTAuth(http.HandlerFunc(postHandler.Create))).Methods("POST")
	api.HandleFunc("/posts/{id}", postHandler.Get).Methods("GET")
	api.Handle("/posts/{id}", middleware.JWTAuth(http.HandlerFunc(postHandler.Update))).Methods("PUT")
	api.Handle("/posts/{id}", middleware.JWTAuth(http.HandlerFunc(postHandler.Delete))).Methods("DELETE")

	api.HandleFunc("/tags", tagHandler.List).Methods("GET")
	api.Handle("/tags", middleware.JWTAuth(http.HandlerFunc(tagHandler.Create))).Methods("POST")

	api.HandleFunc("/posts/{id}/comments", commentHandler.ListForPost).Methods("GET")
	// комментарии открыты всем: токен привязывает автора, его отсутствие — анонимность
	api.Handle("/posts/{id}/comments", middleware.OptionalJWT(http.HandlerFunc(commentHandler.Create))).Methods("POST")

	// --- Админка ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.JWTAuth, middleware.OnlyAdmin)
	admin.HandleFunc("/users", adminHandler.Users).Methods("GET")
	admin.HandleFunc("/users/{id}", adminHandler.GetUser).Methods("GET")
	admin.HandleFunc("/users/{id}", adminHandler.UpdateUser).Methods("PATCH")
	admin.HandleFunc("/users/{id}", adminHandler.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/comments", adminHandler.Comments).Methods("GET")
	admin.HandleFunc("/comments/{id}/approve", adminHandler.ApproveComment).Methods("POST")
}
