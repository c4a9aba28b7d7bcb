package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"bloghub/internal/models"
)

type mockCommentRepo struct {
	comments map[string]*models.Comment
	nextID   int
}

func newMockCommentRepo() *mockCommentRepo {
	return &mockCommentRepo{comments: make(map[string]*models.Comment)}
}

func (m *mockCommentRepo) Create(_ context.Context, c *models.Comment) error {
	m.nextID++
	c.ID = fmt.Sprintf("c-%d", m.nextID)
	c.IsApproved = false
	c.CreatedAt = time.Now()
	m.comments[c.ID] = c
	return nil
}

func (m *mockCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (m *mockCommentRepo) ListByPost(_ context.Context, postID string, approvedOnly bool, limit, offset int) ([]*models.Comment, int, error) {
	var all []*models.Comment
	for _, c := range m.comments {
		if c.PostID != postID {
			continue
		}
		if approvedOnly && !c.IsApproved {
			continue
		}
		all = append(all, c)
	}
	return paginateComments(all, limit, offset)
}

func (m *mockCommentRepo) ListAll(_ context.Context, approvedOnly bool, limit, offset int) ([]*models.Comment, int, error) {
	var all []*models.Comment
	for _, c := range m.comments {
		if approvedOnly && !c.IsApproved {
			continue
		}
		all = append(all, c)
	}
	return paginateComments(all, limit, offset)
}

func (m *mockCommentRepo) Approve(_ context.Context, id string) error {
	c, ok := m.comments[id]
	if !ok {
		return errors.New("not found")
	}
	c.IsApproved = true
	return nil
}

func paginateComments(all []*models.Comment, limit, offset int) ([]*models.Comment, int, error) {
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func commentFixtures(t *testing.T) (*mockCommentRepo, *mockPostRepo, CommentService, *models.Post) {
	t.Helper()
	comments := newMockCommentRepo()
	posts := newMockPostRepo()
	service := NewCommentService(comments, posts, "", "http://localhost")

	post, err := posts.Create(context.Background(), &models.Post{
		Title: "Пост", Content: "text", Slug: "post", IsPublished: true, UserID: "owner",
	}, nil)
	if err != nil {
		t.Fatalf("ошибка подготовки поста: %v", err)
	}
	return comments, posts, service, post
}

func TestCommentCreate_Anonymous(t *testing.T) {
	_, _, service, post := commentFixtures(t)

	c, err := service.Create(context.Background(), post.ID, nil, models.CreateCommentRequest{
		Content:     "Отличный пост",
		AuthorName:  "Гость",
		AuthorEmail: "guest@example.com",
	})
	if err != nil {
		t.Fatalf("ошибка создания комментария: %v", err)
	}
	if c.UserID != nil {
		t.Fatal("анонимный комментарий не должен иметь user_id")
	}
	if c.IsApproved {
		t.Fatal("новый комментарий должен ждать модерации")
	}
	if c.AuthorName != "Гость" {
		t.Fatalf("author_name = %q", c.AuthorName)
	}
}

func TestCommentCreate_Authenticated(t *testing.T) {
	_, _, service, post := commentFixtures(t)

	uid := "u-1"
	c, err := service.Create(context.Background(), post.ID, &uid, models.CreateCommentRequest{Content: "От своего имени"})
	if err != nil {
		t.Fatalf("ошибка создания комментария: %v", err)
	}
	if c.UserID == nil || *c.UserID != "u-1" {
		t.Fatal("комментарий не привязан к пользователю")
	}
}

func TestCommentCreate_Validation(t *testing.T) {
	_, _, service, post := commentFixtures(t)

	_, err := service.Create(context.Background(), post.ID, nil, models.CreateCommentRequest{Content: "   "})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидалась ErrValidation, получено: %v", err)
	}
}

func TestCommentCreate_PostNotFound(t *testing.T) {
	_, _, service, _ := commentFixtures(t)

	_, err := service.Create(context.Background(), "missing", nil, models.CreateCommentRequest{Content: "text"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено: %v", err)
	}
}

func TestCommentCreate_SanitizesContent(t *testing.T) {
	_, _, service, post := commentFixtures(t)

	c, err := service.Create(context.Background(), post.ID, nil, models.CreateCommentRequest{
		Content: `привет<script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("ошибка создания комментария: %v", err)
	}
	if strings.Contains(c.Content, "<script>") {
		t.Fatalf("script не вырезан: %q", c.Content)
	}
}

func TestCommentApprove_Idempotent(t *testing.T) {
	_, _, service, post := commentFixtures(t)

	c, _ := service.Create(context.Background(), post.ID, nil, models.CreateCommentRequest{Content: "text"})

	approved, err := service.Approve(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("ошибка одобрения: %v", err)
	}
	if !approved.IsApproved {
		t.Fatal("комментарий не одобрен")
	}

	// повторное одобрение — no-op
	again, err := service.Approve(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("повторное одобрение вернуло ошибку: %v", err)
	}
	if !again.IsApproved {
		t.Fatal("статус не должен меняться при повторном одобрении")
	}
}

func TestCommentApprove_NotFound(t *testing.T) {
	_, _, service, _ := commentFixtures(t)

	_, err := service.Approve(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено: %v", err)
	}
}

func TestCommentListForPost_ApprovedOnly(t *testing.T) {
	_, _, service, post := commentFixtures(t)

	first, _ := service.Create(context.Background(), post.ID, nil, models.CreateCommentRequest{Content: "первый"})
	service.Create(context.Background(), post.ID, nil, models.CreateCommentRequest{Content: "второй"})

	service.Approve(context.Background(), first.ID)

	resp, err := service.ListForPost(context.Background(), post.ID, 1, 10)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("публично виден должен быть 1 комментарий, получено %d", resp.Total)
	}

	// модераторская выдача видит всё
	all, _ := service.ListAll(context.Background(), false, 1, 10)
	if all.Total != 2 {
		t.Fatalf("модераторская выдача: total=%d, ожидалось 2", all.Total)
	}
}

func TestCommentListForPost_PostNotFound(t *testing.T) {
	_, _, service, _ := commentFixtures(t)

	_, err := service.ListForPost(context.Background(), "missing", 1, 10)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено: %v", err)
	}
}
