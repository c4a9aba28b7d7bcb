package services

import (
	"context"
	"fmt"
	"strings"

	"bloghub/internal/logger"
	"bloghub/internal/models"
	"bloghub/internal/repository"

	"go.uber.org/zap"
)

type TagService interface {
	Create(ctx context.Context, req models.CreateTagRequest) (*models.Tag, error)
	GetAll(ctx context.Context) ([]*models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
}

type tagService struct {
	repo repository.TagRepo
}

func NewTagService(repo repository.TagRepo) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) Create(ctx context.Context, req models.CreateTagRequest) (*models.Tag, error) {
	log := logger.WithCtx(ctx)
	name := strings.TrimSpace(req.Name)
	log.Info("Создание тега", zap.String("name", name))

	if name == "" {
		return nil, fmt.Errorf("%w: требуется name", ErrValidation)
	}

	if taken, err := s.repo.IsNameTaken(ctx, name); taken || err != nil {
		if err != nil {
			log.Error("Ошибка проверки имени тега (repo)", zap.Error(err))
			return nil, err
		}
		return nil, ErrTagExists
	}

	// slug тегов живёт в собственном пространстве имён, отдельном от постов
	slug, err := AllocateSlug(ctx, name, req.Slug, s.repo.SlugExists)
	if err != nil {
		log.Error("Ошибка выделения slug для тега", zap.Error(err))
		return nil, err
	}

	tag := &models.Tag{
		Name:        name,
		Slug:        slug,
		Description: strPtr(req.Description),
	}
	if err := s.repo.Create(ctx, tag); err != nil {
		log.Error("Ошибка создания тега (repo)", zap.Error(err))
		return nil, err
	}

	log.Info("Тег создан", zap.String("id", tag.ID), zap.String("slug", tag.Slug))
	return tag, nil
}

func (s *tagService) GetAll(ctx context.Context) ([]*models.Tag, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения тегов (repo)", zap.Error(err))
		return nil, err
	}
	if list == nil {
		list = []*models.Tag{}
	}
	return list, nil
}

func (s *tagService) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	t, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		logger.WithCtx(ctx).Warn("Тег не найден (repo)", zap.String("slug", slug), zap.Error(err))
		return nil, ErrNotFound
	}
	return t, nil
}
