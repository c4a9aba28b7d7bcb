package handlers

import (
	"encoding/json"
	"net/http"

	"bloghub/internal/logger"
	"bloghub/internal/middleware"
	"bloghub/internal/models"
	"bloghub/internal/services"
	helpers "bloghub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PostHandler struct {
	svc services.PostService
}

func NewPostHandler(svc services.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// List godoc
// @Summary      Список постов
// @Description  Пагинация, фильтр по тегу и по публикации (published_only по умолчанию true)
// @Tags         posts
// @Produce      json
// @Param        page           query  int     false  "Страница (с 1)"
// @Param        per_page       query  int     false  "Размер страницы"
// @Param        published_only query  bool    false  "Только опубликованные"
// @Param        tag            query  string  false  "Slug тега"
// @Success      200  {object}  models.PostListResponse
// @Router       /api/v1/posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r, 10)

	publishedOnly := true
	if v := r.URL.Query().Get("published_only"); v != "" {
		publishedOnly = v == "true"
	}
	tag := r.URL.Query().Get("tag")

	resp, err := h.svc.GetAll(r.Context(), page, perPage, tag, publishedOnly, false)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// Create godoc
// @Summary      Создать пост
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        body  body  models.CreatePostRequest  true  "Данные поста"
// @Success      201  {object}  models.Post
// @Failure      400  {object}  helpers.ErrorResponse
// @Failure      401  {object}  helpers.ErrorResponse
// @Router       /api/v1/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)

	var req models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON при создании поста", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	post, err := h.svc.Create(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, post)
}

// Get godoc
// @Summary      Пост по ID
// @Tags         posts
// @Produce      json
// @Param        id  path  string  true  "ID поста"
// @Success      200  {object}  models.Post
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/v1/posts/{id} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	post, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, post)
}

// Update godoc
// @Summary      Обновить пост
// @Description  Разрешено владельцу или администратору
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path  string                    true  "ID поста"
// @Param        body  body  models.UpdatePostRequest  true  "Изменяемые поля"
// @Success      200  {object}  models.Post
// @Failure      403  {object}  helpers.ErrorResponse
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/v1/posts/{id} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)
	isAdmin, _ := r.Context().Value(middleware.ContextIsAdmin).(bool)

	var req models.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	post, err := h.svc.Update(r.Context(), userID, isAdmin, id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, post)
}

// Delete godoc
// @Summary      Удалить пост
// @Description  Разрешено владельцу или администратору; комментарии удаляются каскадно
// @Tags         posts
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "ID поста"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  helpers.ErrorResponse
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/v1/posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	userID, _ := r.Context().Value(middleware.ContextUserID).(string)
	isAdmin, _ := r.Context().Value(middleware.ContextIsAdmin).(bool)

	if err := h.svc.Delete(r.Context(), userID, isAdmin, id); err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Пост удалён"})
}
