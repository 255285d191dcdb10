package post

import (
	"time"

	"backend-picshare/internal/user"
)

type Post struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	ImageURL  string     `json:"image_url"`
	Caption   *string    `json:"caption"`
	CreatedAt time.Time  `json:"created_at"`
	Author    *user.User `json:"author,omitempty"`
}

type CreateRequest struct {
	UserID   string  `json:"user_id"`
	ImageURL string  `json:"image_url"`
	Caption  *string `json:"caption"`
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	ImageURL *string `json:"image_url"`
	Caption  *string `json:"caption"`
}
