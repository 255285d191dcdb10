package follow

import (
	"context"

	"backend-picshare/internal/apperr"
	"backend-picshare/internal/db"
	"backend-picshare/internal/events"

	"github.com/google/uuid"
)

type Service struct {
	db     db.Querier
	events *events.Publisher
}

func NewService(db db.Querier, pub *events.Publisher) *Service {
	return &Service{db: db, events: pub}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Follow, error) {
	if req.UserFromID == "" {
		return Follow{}, apperr.Validationf("missing required field: user_from_id")
	}
	if req.UserToID == "" {
		return Follow{}, apperr.Validationf("missing required field: user_to_id")
	}
	if req.UserFromID == req.UserToID {
		return Follow{}, apperr.Validationf("users cannot follow themselves")
	}

	exists, err := s.userExists(ctx, req.UserFromID)
	if err != nil {
		return Follow{}, err
	}
	if !exists {
		return Follow{}, apperr.NotFoundf("follower user not found")
	}

	exists, err = s.userExists(ctx, req.UserToID)
	if err != nil {
		return Follow{}, err
	}
	if !exists {
		return Follow{}, apperr.NotFoundf("user to follow not found")
	}

	f := Follow{
		ID:         uuid.NewString(),
		UserFromID: req.UserFromID,
		UserToID:   req.UserToID,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO followers (id, user_from_id, user_to_id)
		VALUES ($1,$2,$3)
		RETURNING created_at
	`, f.ID, f.UserFromID, f.UserToID)
	if err := row.Scan(&f.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return Follow{}, apperr.Conflictf("follow relationship already exists")
		}
		if db.IsForeignKeyViolation(err) {
			return Follow{}, apperr.NotFoundf("user not found")
		}
		return Follow{}, apperr.Wrap(err)
	}

	s.events.Publish(ctx, "follow", "created", f.ID)
	return f, nil
}

// Followers lists the edges pointing at userID, each enriched with the
// follower's projection.
func (s *Service) Followers(ctx context.Context, userID string) ([]FollowerEntry, error) {
	exists, err := s.userExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFoundf("user not found")
	}

	rows, err := s.db.Query(ctx, `
		SELECT f.id, f.user_from_id, f.user_to_id, f.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.is_active, u.created_at
		FROM followers f
		JOIN users u ON u.id = f.user_from_id
		WHERE f.user_to_id=$1
		ORDER BY f.created_at
	`, userID)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	defer rows.Close()

	var entries []FollowerEntry
	for rows.Next() {
		var e FollowerEntry
		if err := rows.Scan(&e.ID, &e.UserFromID, &e.UserToID, &e.CreatedAt,
			&e.FollowerInfo.ID, &e.FollowerInfo.Email, &e.FollowerInfo.FirstName,
			&e.FollowerInfo.LastName, &e.FollowerInfo.IsActive, &e.FollowerInfo.CreatedAt); err != nil {
			return nil, apperr.Wrap(err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Following lists the edges leaving userID, each enriched with the
// followee's projection.
func (s *Service) Following(ctx context.Context, userID string) ([]FollowingEntry, error) {
	exists, err := s.userExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFoundf("user not found")
	}

	rows, err := s.db.Query(ctx, `
		SELECT f.id, f.user_from_id, f.user_to_id, f.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.is_active, u.created_at
		FROM followers f
		JOIN users u ON u.id = f.user_to_id
		WHERE f.user_from_id=$1
		ORDER BY f.created_at
	`, userID)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	defer rows.Close()

	var entries []FollowingEntry
	for rows.Next() {
		var e FollowingEntry
		if err := rows.Scan(&e.ID, &e.UserFromID, &e.UserToID, &e.CreatedAt,
			&e.FollowingInfo.ID, &e.FollowingInfo.Email, &e.FollowingInfo.FirstName,
			&e.FollowingInfo.LastName, &e.FollowingInfo.IsActive, &e.FollowingInfo.CreatedAt); err != nil {
			return nil, apperr.Wrap(err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM followers WHERE id=$1`, id)
	if err != nil {
		return apperr.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("follow relationship not found")
	}

	s.events.Publish(ctx, "follow", "deleted", id)
	return nil
}

func (s *Service) userExists(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id=$1)`, id).Scan(&ok); err != nil {
		return false, apperr.Wrap(err)
	}
	return ok, nil
}
