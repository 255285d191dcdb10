package comment

import (
	"time"

	"backend-picshare/internal/user"
)

type Comment struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	PostID    string     `json:"post_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Author    *user.User `json:"author,omitempty"`
}

type CreateRequest struct {
	UserID  string `json:"user_id"`
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Content *string `json:"content"`
}
