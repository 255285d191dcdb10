package post

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

type Service struct {
	db     db.Querier
	events *events.Publisher
}

func NewService(db db.Querier, pub *events.Publisher) *Service {
	return &Service{db: db, events: pub}
}

func (s *Service) List(ctx context.Context) ([]Post, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.user_id, p.image_url, p.caption, p.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.is_active, u.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanWithAuthor(rows)
		if err != nil {
			return nil, apperr.Wrap(err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT p.id, p.user_id, p.image_url, p.caption, p.created_at,
		       u.id, u.email, u.first_name, u.last_name, u.is_active, u.created_at
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id=$1
	`, id)

	p, err := scanWithAuthor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, apperr.NotFoundf("post not found")
		}
		return Post{}, apperr.Wrap(err)
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Post, error) {
	if req.UserID == "" {
		return Post{}, apperr.Validationf("missing required field: user_id")
	}
	if req.ImageURL == "" {
		return Post{}, apperr.Validationf("missing required field: image_url")
	}

	var userExists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id=$1)`, req.UserID).Scan(&userExists); err != nil {
		return Post{}, apperr.Wrap(err)
	}
	if !userExists {
		return Post{}, apperr.NotFoundf("user not found")
	}

	p := Post{
		ID:       uuid.NewString(),
		UserID:   req.UserID,
		ImageURL: req.ImageURL,
		Caption:  req.Caption,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, image_url, caption)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, p.ID, p.UserID, p.ImageURL, p.Caption)
	if err := row.Scan(&p.CreatedAt); err != nil {
		if db.IsForeignKeyViolation(err) {
			return Post{}, apperr.NotFoundf("user not found")
		}
		return Post{}, apperr.Wrap(err)
	}

	s.events.Publish(ctx, "post", "created", p.ID)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}

	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Caption != nil {
		p.Caption = patch.Caption
	}

	_, err = s.db.Exec(ctx, `
		UPDATE posts SET image_url=$2, caption=$3 WHERE id=$1
	`, p.ID, p.ImageURL, p.Caption)
	if err != nil {
		return Post{}, apperr.Wrap(err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return apperr.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("post not found")
	}

	s.events.Publish(ctx, "post", "deleted", id)
	return nil
}

func scanWithAuthor(row pgx.Row) (Post, error) {
	var p Post
	var author user.User
	err := row.Scan(&p.ID, &p.UserID, &p.ImageURL, &p.Caption, &p.CreatedAt,
		&author.ID, &author.Email, &author.FirstName, &author.LastName, &author.IsActive, &author.CreatedAt)
	if err != nil {
		return Post{}, err
	}
	p.Author = &author
	return p, nil
}
