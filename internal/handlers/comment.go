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

type CommentHandler struct {
	svc services.CommentService
}

func NewCommentHandler(svc services.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// ListForPost godoc
// @Summary      Одобренные комментарии поста
// @Tags         comments
// @Produce      json
// @Param        id        path   string  true   "ID поста"
// @Param        page      query  int     false  "Страница (с 1)"
// @Param        per_page  query  int     false  "Размер страницы"
// @Success      200  {object}  models.CommentListResponse
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/v1/posts/{id}/comments [get]
func (h *CommentHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]
	page, perPage := parsePagination(r, 10)

	resp, err := h.svc.ListForPost(r.Context(), postID, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// Create godoc
// @Summary      Оставить комментарий
// @Description  Доступно всем; валидный токен привязывает комментарий к пользователю,
// @Description  иначе он анонимный и попадает на модерацию с author_name/author_email.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID поста"
// @Param        body  body  models.CreateCommentRequest  true  "Комментарий"
// @Success      201  {object}  models.Comment
// @Failure      400  {object}  helpers.ErrorResponse
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/v1/posts/{id}/comments [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON при создании комментария", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	// OptionalJWT кладёт user_id в контекст только при валидном токене
	var userID *string
	if id, ok := r.Context().Value(middleware.ContextUserID).(string); ok {
		userID = &id
	}

	comment, err := h.svc.Create(r.Context(), postID, userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, comment)
}
