package services

import (
	"context"
	"fmt"
	"strings"

	"bloghub/internal/logger"
	"bloghub/internal/models"
	"bloghub/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

type PostService interface {
	Create(ctx context.Context, userID string, req models.CreatePostRequest) (*models.Post, error)
	GetAll(ctx context.Context, page, perPage int, tag string, publishedOnly, orderByPublished bool) (*models.PostListResponse, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	Update(ctx context.Context, actorID string, isAdmin bool, id string, req models.UpdatePostRequest) (*models.Post, error)
	Delete(ctx context.Context, actorID string, isAdmin bool, id string) error
}

type postService struct {
	repo   repository.PostRepo
	policy *bluemonday.Policy
}

func NewPostService(repo repository.PostRepo) PostService {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	return &postService{repo: repo, policy: p}
}

func (s *postService) Create(ctx context.Context, userID string, req models.CreatePostRequest) (*models.Post, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание поста",
		zap.String("user_id", userID),
		zap.String("title", strings.TrimSpace(req.Title)),
		zap.Bool("is_published", req.IsPublished),
	)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: требуется title", ErrValidation)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: требуется content", ErrValidation)
	}

	slug, err := AllocateSlug(ctx, title, req.Slug, s.repo.SlugExists)
	if err != nil {
		log.Error("Ошибка выделения slug", zap.Error(err))
		return nil, err
	}

	post := &models.Post{
		Title:       title,
		Content:     s.policy.Sanitize(req.Content),
		Excerpt:     strPtr(req.Excerpt),
		Slug:        slug,
		IsPublished: req.IsPublished,
		UserID:      userID,
	}

	created, err := s.repo.Create(ctx, post, normalizeTags(req.Tags))
	if err != nil {
		log.Error("Ошибка создания поста (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Пост создан",
		zap.String("id", created.ID),
		zap.String("slug", created.Slug),
		zap.Bool("published", created.IsPublished),
	)
	return created, nil
}

func (s *postService) GetAll(ctx context.Context, page, perPage int, tag string, publishedOnly, orderByPublished bool) (*models.PostListResponse, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Получение списка постов",
		zap.Int("page", page),
		zap.Int("per_page", perPage),
		zap.String("tag", tag),
		zap.Bool("published_only", publishedOnly),
	)

	list, total, err := s.repo.GetAll(ctx, repository.PostListOptions{
		Limit:            perPage,
		Offset:           (page - 1) * perPage,
		TagSlug:          tag,
		PublishedOnly:    publishedOnly,
		OrderByPublished: orderByPublished,
	})
	if err != nil {
		log.Error("Ошибка получения списка постов (repo)", zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []*models.Post{}
	}

	return &models.PostListResponse{
		Posts:       list,
		Total:       total,
		Pages:       TotalPages(total, perPage),
		CurrentPage: page,
	}, nil
}

func (s *postService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.WithCtx(ctx).Warn("Пост не найден (repo)", zap.String("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *postService) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil || !p.IsPublished {
		logger.WithCtx(ctx).Warn("Опубликованный пост по slug не найден", zap.String("slug", slug))
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *postService) Update(ctx context.Context, actorID string, isAdmin bool, id string, req models.UpdatePostRequest) (*models.Post, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление поста", zap.String("id", id), zap.String("actor_id", actorID))

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("Пост для обновления не найден (repo)", zap.String("id", id), zap.Error(err))
		return nil, ErrNotFound
	}

	if !CanMutatePost(actorID, isAdmin, p) {
		log.Warn("Попытка правки чужого поста", zap.String("id", id), zap.String("actor_id", actorID))
		return nil, ErrForbidden
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title не может быть пустым", ErrValidation)
		}
		p.Title = title
	}
	if req.Content != nil {
		p.Content = s.policy.Sanitize(*req.Content)
	}
	if req.Excerpt != nil {
		p.Excerpt = strPtr(*req.Excerpt)
	}
	if req.IsPublished != nil {
		p.IsPublished = *req.IsPublished
	}

	var tagSlugs *[]string
	if req.Tags != nil {
		normalized := normalizeTags(*req.Tags)
		tagSlugs = &normalized
	}

	if err := s.repo.Update(ctx, p, tagSlugs); err != nil {
		log.Error("Ошибка обновления поста (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Info("Пост обновлён", zap.String("id", id), zap.Bool("published", updated.IsPublished))
	return updated, nil
}

func (s *postService) Delete(ctx context.Context, actorID string, isAdmin bool, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление поста", zap.String("id", id), zap.String("actor_id", actorID))

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Warn("Пост для удаления не найден (repo)", zap.String("id", id), zap.Error(err))
		return ErrNotFound
	}

	if !CanMutatePost(actorID, isAdmin, p) {
		log.Warn("Попытка удаления чужого поста", zap.String("id", id), zap.String("actor_id", actorID))
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.Error("Ошибка удаления поста (repo)", zap.String("id", id), zap.Error(err))
		return err
	}

	log.Info("Пост удалён", zap.String("id", id))
	return nil
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func normalizeTags(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = Slugify(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
