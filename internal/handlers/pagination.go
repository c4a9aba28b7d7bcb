package handlers

import (
	"net/http"
	"strconv"
)

// parsePagination читает 1-базные page/per_page из query-параметров.
// Страницы за пределами данных вернут пустой список, а не ошибку.
func parsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	page = 1
	perPage = defaultPerPage

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = v
	}
	return page, perPage
}
