package comment

import (
	"context"
	"errors"

	"backend-picshare/internal/apperr"
	"backend-picshare/internal/db"
	"backend-picshare/internal/events"
	"backend-picshare/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// maxContentLen matches the comments.content column width.
const maxContentLen = 300

type Service struct {
	db     db.Querier
	events *events.Publisher
}

func NewService(db db.Querier, pub *events.Publisher) *Service {
	return &Service{db: db, events: pub}
}

func (s *Service) List(ctx context.Context) ([]Comment, error) {
	return s.list(ctx, `
		SELECT c.id, c.user_id, c.post_id, c.content, c.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.is_active, u.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		ORDER BY c.created_at
	`)
}

// ListByPost returns the comments of one post, oldest first.
func (s *Service) ListByPost(ctx context.Context, postID string) ([]Comment, error) {
	var postExists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id=$1)`, postID).Scan(&postExists); err != nil {
		return nil, apperr.Wrap(err)
	}
	if !postExists {
		return nil, apperr.NotFoundf("post not found")
	}

	return s.list(ctx, `
		SELECT c.id, c.user_id, c.post_id, c.content, c.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.is_active, u.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id=$1
		ORDER BY c.created_at
	`, postID)
}

func (s *Service) Get(ctx context.Context, id string) (Comment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, post_id, content, created_at
		FROM comments WHERE id=$1
	`, id)

	var c Comment
	if err := row.Scan(&c.ID, &c.UserID, &c.PostID, &c.Content, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Comment{}, apperr.NotFoundf("comment not found")
		}
		return Comment{}, apperr.Wrap(err)
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Comment, error) {
	for _, field := range []struct{ name, value string }{
		{"user_id", req.UserID},
		{"post_id", req.PostID},
		{"content", req.Content},
	} {
		if field.value == "" {
			return Comment{}, apperr.Validationf("missing required field: %s", field.name)
		}
	}
	if len(req.Content) > maxContentLen {
		return Comment{}, apperr.Validationf("content exceeds %d characters", maxContentLen)
	}

	var userExists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id=$1)`, req.UserID).Scan(&userExists); err != nil {
		return Comment{}, apperr.Wrap(err)
	}
	if !userExists {
		return Comment{}, apperr.NotFoundf("user not found")
	}

	var postExists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id=$1)`, req.PostID).Scan(&postExists); err != nil {
		return Comment{}, apperr.Wrap(err)
	}
	if !postExists {
		return Comment{}, apperr.NotFoundf("post not found")
	}

	c := Comment{
		ID:      uuid.NewString(),
		UserID:  req.UserID,
		PostID:  req.PostID,
		Content: req.Content,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (id, user_id, post_id, content)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, c.ID, c.UserID, c.PostID, c.Content)
	if err := row.Scan(&c.CreatedAt); err != nil {
		if db.IsForeignKeyViolation(err) {
			return Comment{}, apperr.NotFoundf("referenced user or post not found")
		}
		return Comment{}, apperr.Wrap(err)
	}

	s.events.Publish(ctx, "comment", "created", c.ID)
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Comment, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Comment{}, err
	}

	if patch.Content != nil {
		if *patch.Content == "" {
			return Comment{}, apperr.Validationf("missing required field: content")
		}
		if len(*patch.Content) > maxContentLen {
			return Comment{}, apperr.Validationf("content exceeds %d characters", maxContentLen)
		}
		c.Content = *patch.Content
	}

	_, err = s.db.Exec(ctx, `UPDATE comments SET content=$2 WHERE id=$1`, c.ID, c.Content)
	if err != nil {
		return Comment{}, apperr.Wrap(err)
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return apperr.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("comment not found")
	}

	s.events.Publish(ctx, "comment", "deleted", id)
	return nil
}

func (s *Service) list(ctx context.Context, sql string, args ...any) ([]Comment, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		var author user.User
		if err := rows.Scan(&c.ID, &c.UserID, &c.PostID, &c.Content, &c.CreatedAt,
			&author.ID, &author.Email, &author.FirstName, &author.LastName, &author.IsActive, &author.CreatedAt); err != nil {
			return nil, apperr.Wrap(err)
		}
		c.Author = &author
		comments = append(comments, c)
	}
	return comments, nil
}
