package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// SlugExistsFunc отвечает, занят ли slug в своём пространстве имён
// (посты и теги проверяются независимо).
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// Slugify нормализует строку в URL-безопасный вид: нижний регистр,
// пробелы и подчёркивания в дефисы, всё прочее кроме [a-z0-9-] отбрасывается.
func Slugify(source string) string {
	s := strings.ToLower(source)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	var b strings.Builder
	for _, r := range s {
		if r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

// sanitizeSlug чистит переданный клиентом slug: регистр сохраняется,
// выбрасывается всё кроме букв, цифр и дефисов, крайние дефисы срезаются.
func sanitizeSlug(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}

// AllocateSlug выбирает уникальный slug. Переданный клиентом slug лишь
// чистится (sanitizeSlug), нормализация Slugify применяется только к
// кандидату, выведенному из source. При коллизии добавляются суффиксы
// -1, -2, … Пустой кандидат допустим — суффиксы навешиваются на пустую строку.
func AllocateSlug(ctx context.Context, source, supplied string, exists SlugExistsFunc) (string, error) {
	candidate := Slugify(source)
	if supplied != "" {
		candidate = sanitizeSlug(supplied)
	}

	slug := candidate
	for counter := 1; ; counter++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", candidate, counter)
	}
}
