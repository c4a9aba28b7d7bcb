package models

import "time"

type Comment struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	IsApproved  bool      `json:"is_approved"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   time.Time `json:"created_at"`
	PostID      string    `json:"post_id"`
	UserID      *string   `json:"user_id,omitempty"`
}

type CreateCommentRequest struct {
	Content     string `json:"content"`
	AuthorName  string `json:"author_name,omitempty"`
	AuthorEmail string `json:"author_email,omitempty"`
}

type CommentListResponse struct {
	Comments    []*Comment `json:"comments"`
	Total       int        `json:"total"`
	Pages       int        `json:"pages"`
	CurrentPage int        `json:"current_page"`
}
