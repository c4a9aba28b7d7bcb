package models

import "time"

type Post struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Excerpt      *string    `json:"excerpt,omitempty"`
	Slug         string     `json:"slug"`
	IsPublished  bool       `json:"is_published"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	UserID       string     `json:"user_id"`
	Author       *User      `json:"author,omitempty"`
	Tags         []*Tag     `json:"tags"`
	CommentCount int        `json:"comment_count"`
}

// swagger:model CreatePostRequest
type CreatePostRequest struct {
	Title       string   `json:"title"    example:"Как писать middleware в Go"`
	Content     string   `json:"content"  example:"Текст поста"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Slug        string   `json:"slug,omitempty"`
	IsPublished bool     `json:"is_published"`
	Tags        []string `json:"tags,omitempty" example:"go,backend"`
}

type UpdatePostRequest struct {
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Excerpt     *string   `json:"excerpt,omitempty"`
	IsPublished *bool     `json:"is_published,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

type PostListResponse struct {
	Posts       []*Post `json:"posts"`
	Total       int     `json:"total"`
	Pages       int     `json:"pages"`
	CurrentPage int     `json:"current_page"`
}
