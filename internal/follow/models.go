package follow

import (
	"time"

	"backend-picshare/internal/user"
)

// Follow is a directed edge: user_from follows user_to.
type Follow struct {
	ID         string    `json:"id"`
	UserFromID string    `json:"user_from_id"`
	UserToID   string    `json:"user_to_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateRequest struct {
	UserFromID string `json:"user_from_id"`
	UserToID   string `json:"user_to_id"`
}

// FollowerEntry is a follow edge enriched with the follower's projection,
// returned by the followers listing.
type FollowerEntry struct {
	Follow
	FollowerInfo user.User `json:"follower_info"`
}

// FollowingEntry is a follow edge enriched with the followee's projection,
// returned by the following listing.
type FollowingEntry struct {
	Follow
	FollowingInfo user.User `json:"following_info"`
}
