package services

import (
	"context"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Hello_World", "hello-world"},
		{"  Go 1.23 — релиз!  ", "go-123"},
		{"ALREADY-slugged", "already-slugged"},
		{"---edges---", "edges"},
		{"!!!", ""},
		{"", ""},
	}
	for _, c := range cases {
		got := Slugify(c.in)
		if got != c.want {
			t.Errorf("Slugify(%q) = %q, ожидалось %q", c.in, got, c.want)
		}
	}
}

func TestAllocateSlug_SuppliedWins(t *testing.T) {
	exists := func(_ context.Context, slug string) (bool, error) { return false, nil }

	// клиентский slug не приводится к нижнему регистру, пробелы выбрасываются
	slug, err := AllocateSlug(context.Background(), "Some Title", "My Custom Slug", exists)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if slug != "MyCustomSlug" {
		t.Fatalf("slug = %q, ожидалось MyCustomSlug", slug)
	}
}

func TestAllocateSlug_SuppliedSanitized(t *testing.T) {
	exists := func(_ context.Context, slug string) (bool, error) { return false, nil }

	cases := []struct {
		supplied string
		want     string
	}{
		{"-Keep-Case-", "Keep-Case"},
		{"hello!world?", "helloworld"},
		{"under_score", "underscore"}, // не дефис: подчёркивание просто выбрасывается
	}
	for _, c := range cases {
		slug, err := AllocateSlug(context.Background(), "ignored", c.supplied, exists)
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if slug != c.want {
			t.Errorf("AllocateSlug(supplied=%q) = %q, ожидалось %q", c.supplied, slug, c.want)
		}
	}
}

func TestAllocateSlug_CollisionSuffixes(t *testing.T) {
	taken := map[string]bool{
		"hello-world":   true,
		"hello-world-1": true,
		"hello-world-2": true,
	}
	exists := func(_ context.Context, slug string) (bool, error) { return taken[slug], nil }

	slug, err := AllocateSlug(context.Background(), "Hello World", "", exists)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if slug != "hello-world-3" {
		t.Fatalf("slug = %q, ожидалось hello-world-3", slug)
	}
}

func TestAllocateSlug_EmptyCandidate(t *testing.T) {
	taken := map[string]bool{"": true}
	exists := func(_ context.Context, slug string) (bool, error) { return taken[slug], nil }

	slug, err := AllocateSlug(context.Background(), "!!!", "", exists)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if slug != "-1" {
		t.Fatalf("slug = %q, ожидалось -1", slug)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, perPage, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.perPage); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, ожидалось %d", c.total, c.perPage, got, c.want)
		}
	}
}
