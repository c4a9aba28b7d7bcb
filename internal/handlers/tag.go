package handlers

import (
	"encoding/json"
	"net/http"

	"bloghub/internal/logger"
	"bloghub/internal/models"
	"bloghub/internal/services"
	helpers "bloghub/internal/utils/helpers"

	"go.uber.org/zap"
)

type TagHandler struct {
	svc services.TagService
}

func NewTagHandler(svc services.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// List godoc
// @Summary      Все теги
// @Tags         tags
// @Produce      json
// @Success      200  {array}  models.Tag
// @Router       /api/v1/tags [get]
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, tags)
}

// Create godoc
// @Summary      Создать тег
// @Tags         tags
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        body  body  models.CreateTagRequest  true  "Данные тега"
// @Success      201  {object}  models.Tag
// @Failure      400  {object}  helpers.ErrorResponse
// @Router       /api/v1/tags [post]
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON при создании тега", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	tag, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, tag)
}
