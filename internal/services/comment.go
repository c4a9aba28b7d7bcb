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

type CommentService interface {
	Create(ctx context.Context, postID string, userID *string, req models.CreateCommentRequest) (*models.Comment, error)
	ListForPost(ctx context.Context, postID string, page, perPage int) (*models.CommentListResponse, error)
	ListAll(ctx context.Context, approvedOnly bool, page, perPage int) (*models.CommentListResponse, error)
	Approve(ctx context.Context, id string) (*models.Comment, error)
}

type commentService struct {
	repo       repository.CommentRepo
	posts      repository.PostRepo
	policy     *bluemonday.Policy
	adminEmail string
	siteURL    string
}

func NewCommentService(repo repository.CommentRepo, posts repository.PostRepo, adminEmail, siteURL string) CommentService {
	return &commentService{
		repo:       repo,
		posts:      posts,
		policy:     bluemonday.UGCPolicy(),
		adminEmail: adminEmail,
		siteURL:    strings.TrimRight(siteURL, "/"),
	}
}

// Create принимает комментарий от кого угодно: при наличии валидного токена
// комментарий привязывается к пользователю, иначе остаётся анонимным
// с переданными author_name/author_email.
func (s *commentService) Create(ctx context.Context, postID string, userID *string, req models.CreateCommentRequest) (*models.Comment, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание комментария", zap.String("post_id", postID), zap.Bool("anonymous", userID == nil))

	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: требуется content", ErrValidation)
	}

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		log.Error("Ошибка проверки существования поста (repo)", zap.Error(err))
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	comment := &models.Comment{
		Content:     s.policy.Sanitize(req.Content),
		AuthorName:  strings.TrimSpace(req.AuthorName),
		AuthorEmail: strings.TrimSpace(req.AuthorEmail),
		PostID:      postID,
		UserID:      userID,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		log.Error("Ошибка создания комментария (repo)", zap.Error(err))
		return nil, err
	}

	s.notifyModerator(ctx, comment)

	log.Info("Комментарий создан", zap.String("id", comment.ID), zap.String("post_id", postID))
	return comment, nil
}

// notifyModerator ставит письмо модератору в очередь — запрос не блокируется.
func (s *commentService) notifyModerator(ctx context.Context, c *models.Comment) {
	if s.adminEmail == "" {
		return
	}
	body := fmt.Sprintf(
		"Новый комментарий ожидает модерации.\r\n\r\nПост: %s/posts/%s\r\nАвтор: %s\r\n\r\n%s",
		s.siteURL, c.PostID, c.AuthorName, c.Content,
	)
	select {
	case EmailQueue <- EmailJob{
		To:      []string{s.adminEmail},
		Subject: "Комментарий на модерацию",
		Body:    body,
	}:
	default:
		logger.WithCtx(ctx).Warn("Очередь писем переполнена, уведомление пропущено")
	}
}

func (s *commentService) ListForPost(ctx context.Context, postID string, page, perPage int) (*models.CommentListResponse, error) {
	log := logger.WithCtx(ctx)
	log.Debug("Комментарии поста", zap.String("post_id", postID), zap.Int("page", page))

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	// публичная выдача — только одобренные
	list, total, err := s.repo.ListByPost(ctx, postID, true, perPage, (page-1)*perPage)
	if err != nil {
		log.Error("Ошибка получения комментариев (repo)", zap.Error(err))
		return nil, err
	}
	return commentList(list, total, page, perPage), nil
}

func (s *commentService) ListAll(ctx context.Context, approvedOnly bool, page, perPage int) (*models.CommentListResponse, error) {
	list, total, err := s.repo.ListAll(ctx, approvedOnly, perPage, (page-1)*perPage)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения комментариев (repo)", zap.Error(err))
		return nil, err
	}
	return commentList(list, total, page, perPage), nil
}

// Approve одобряет комментарий; повторное одобрение — no-op.
func (s *commentService) Approve(ctx context.Context, id string) (*models.Comment, error) {
	log := logger.WithCtx(ctx)
	log.Info("Одобрение комментария", zap.String("id", id))

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		log.Warn("Комментарий не найден (repo)", zap.String("id", id), zap.Error(err))
		return nil, ErrNotFound
	}

	if err := s.repo.Approve(ctx, id); err != nil {
		log.Error("Ошибка одобрения комментария (repo)", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func commentList(list []*models.Comment, total, page, perPage int) *models.CommentListResponse {
	if list == nil {
		list = []*models.Comment{}
	}
	return &models.CommentListResponse{
		Comments:    list,
		Total:       total,
		Pages:       TotalPages(total, perPage),
		CurrentPage: page,
	}
}
