package handlers

import (
	"encoding/json"
	"net/http"

	"bloghub/internal/logger"
	"bloghub/internal/models"
	"bloghub/internal/services"
	helpers "bloghub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AdminHandler обслуживает админ-маршруты: пользователи и модерация комментариев.
type AdminHandler struct {
	authService    *services.AuthService
	commentService services.CommentService
}

func NewAdminHandler(authService *services.AuthService, commentService services.CommentService) *AdminHandler {
	return &AdminHandler{authService: authService, commentService: commentService}
}

// Users godoc
// @Summary      Список пользователей
// @Tags         admin
// @Produce      json
// @Security     ApiKeyAuth
// @Param        page      query  int  false  "Страница (с 1)"
// @Param        per_page  query  int  false  "Размер страницы"
// @Success      200  {object}  models.UserListResponse
// @Failure      403  {object}  helpers.ErrorResponse
// @Router       /api/v1/admin/users [get]
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r, 20)

	resp, err := h.authService.GetUsersPaginated(r.Context(), page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// GetUser godoc
// @Summary      Пользователь по ID
// @Tags         admin
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "ID пользователя"
// @Success      200  {object}  models.User
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/v1/admin/users/{id} [get]
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	user, err := h.authService.GetUserByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      Обновить пользователя
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path  string                    true  "ID пользователя"
// @Param        body  body  models.UpdateUserRequest  true  "Изменяемые поля"
// @Success      200  {object}  models.User
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/v1/admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в UpdateUser", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	user, err := h.authService.UpdateUser(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Удалить пользователя
// @Description  Удаляет пользователя вместе с его постами и комментариями одной транзакцией
// @Tags         admin
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "ID пользователя"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/v1/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.authService.DeleteUser(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Пользователь удалён"})
}

// Comments godoc
// @Summary      Комментарии на модерацию
// @Tags         admin
// @Produce      json
// @Security     ApiKeyAuth
// @Param        page           query  int   false  "Страница (с 1)"
// @Param        per_page       query  int   false  "Размер страницы"
// @Param        approved_only  query  bool  false  "Только одобренные"
// @Success      200  {object}  models.CommentListResponse
// @Failure      403  {object}  helpers.ErrorResponse
// @Router       /api/v1/admin/comments [get]
func (h *AdminHandler) Comments(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r, 20)
	approvedOnly := r.URL.Query().Get("approved_only") == "true"

	resp, err := h.commentService.ListAll(r.Context(), approvedOnly, page, perPage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// ApproveComment godoc
// @Summary      Одобрить комментарий
// @Description  Идемпотентно: повторное одобрение оставляет is_approved = true
// @Tags         admin
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "ID комментария"
// @Success      200  {object}  models.Comment
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /api/v1/admin/comments/{id}/approve [post]
func (h *AdminHandler) ApproveComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	comment, err := h.commentService.Approve(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, comment)
}
