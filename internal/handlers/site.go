package handlers

import (
	"net/http"

	"bloghub/internal/models"
	"bloghub/internal/services"
	helpers "bloghub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SiteHandler — публичная витрина: только чтение, только опубликованное.
type SiteHandler struct {
	postService services.PostService
	tagService  services.TagService
	db          *pgxpool.Pool
}

func NewSiteHandler(postService services.PostService, tagService services.TagService, db *pgxpool.Pool) *SiteHandler {
	return &SiteHandler{postService: postService, tagService: tagService, db: db}
}

// Index godoc
// @Summary      Корень API
// @Tags         site
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *SiteHandler) Index(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, map[string]string{
		"message": "Bloghub API",
		"version": "1.0.0",
		"status":  "running",
	})
}

// Health godoc
// @Summary      Проверка живости
// @Tags         site
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *SiteHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "connected"
	status := http.StatusOK
	if err := h.db.Ping(r.Context()); err != nil {
		dbStatus = "unreachable"
		status = http.StatusInternalServerError
	}
	helpers.JSON(w, status, map[string]string{
		"status":   "healthy",
		"database": dbStatus,
	})
}

// Posts godoc
// @Summary      Опубликованные посты
// @Description  Сортировка по дате публикации, новые первыми
// @Tags         site
// @Produce      json
// @Param        page      query  int  false  "Страница (с 1)"
// @Param        per_page  query  int  false  "Размер страницы"
// @Success      200  {object}  models.PostListResponse
// @Router       /posts [get]
func (h *SiteHandler) Posts(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r, 10)

	resp, err := h.postService.GetAll(r.Context(), page, perPage, "", true, true)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// PostBySlug godoc
// @Summary      Опубликованный пост по slug
// @Tags         site
// @Produce      json
// @Param        slug  path  string  true  "Slug поста"
// @Success      200  {object}  models.Post
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /posts/{slug} [get]
func (h *SiteHandler) PostBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	post, err := h.postService.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, post)
}

// Tags godoc
// @Summary      Все теги
// @Tags         site
// @Produce      json
// @Success      200  {array}  models.Tag
// @Router       /tags [get]
func (h *SiteHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	helpers.JSON(w, http.StatusOK, tags)
}

// TagBySlug godoc
// @Summary      Тег и его опубликованные посты
// @Tags         site
// @Produce      json
// @Param        slug      path   string  true   "Slug тега"
// @Param        page      query  int     false  "Страница (с 1)"
// @Param        per_page  query  int     false  "Размер страницы"
// @Success      200  {object}  models.TagPostsResponse
// @Failure      404  {object}  helpers.ErrorResponse
// @Router       /tags/{slug} [get]
func (h *SiteHandler) TagBySlug(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	page, perPage := parsePagination(r, 10)

	tag, err := h.tagService.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	posts, err := h.postService.GetAll(r.Context(), page, perPage, slug, true, true)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	helpers.JSON(w, http.StatusOK, models.TagPostsResponse{
		Tag:         tag,
		Posts:       posts.Posts,
		Total:       posts.Total,
		Pages:       posts.Pages,
		CurrentPage: posts.CurrentPage,
	})
}
