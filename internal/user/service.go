package user

import (
	"context"
	"errors"

	"backend-picshare/internal/apperr"
	"backend-picshare/internal/db"
	"backend-picshare/internal/events"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	db     db.Querier
	events *events.Publisher
}

func NewService(db db.Querier, pub *events.Publisher) *Service {
	return &Service{db: db, events: pub}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, email, first_name, last_name, is_active, created_at
		FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, apperr.Wrap(err)
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, first_name, last_name, is_active, created_at
		FROM users WHERE id=$1
	`, id)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.IsActive, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFoundf("user not found")
		}
		return User{}, apperr.Wrap(err)
	}
	return u, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (User, error) {
	for _, field := range []struct{ name, value string }{
		{"email", req.Email},
		{"first_name", req.FirstName},
		{"last_name", req.LastName},
		{"password", req.Password},
	} {
		if field.value == "" {
			return User{}, apperr.Validationf("missing required field: %s", field.name)
		}
	}

	taken, err := s.emailTaken(ctx, req.Email, "")
	if err != nil {
		return User{}, err
	}
	if taken {
		return User{}, apperr.Conflictf("email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, apperr.Wrap(err)
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
		PasswordHash: string(hash),
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, first_name, last_name, password, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsActive)
	if err := row.Scan(&u.CreatedAt); err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, apperr.Conflictf("email already exists")
		}
		return User{}, apperr.Wrap(err)
	}

	s.events.Publish(ctx, "user", "created", u.ID)
	return u, nil
}

func (s *Service) Update(ctx context.Context, id string, patch Patch) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	if patch.Email != nil {
		taken, err := s.emailTaken(ctx, *patch.Email, id)
		if err != nil {
			return User{}, err
		}
		if taken {
			return User{}, apperr.Conflictf("email already exists")
		}
		u.Email = *patch.Email
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}

	var newHash *string
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, apperr.Wrap(err)
		}
		hashed := string(hash)
		newHash = &hashed
	}

	_, err = s.db.Exec(ctx, `
		UPDATE users
		SET email=$2, first_name=$3, last_name=$4, is_active=$5,
		    password=COALESCE($6, password)
		WHERE id=$1
	`, u.ID, u.Email, u.FirstName, u.LastName, u.IsActive, newHash)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, apperr.Conflictf("email already exists")
		}
		return User{}, apperr.Wrap(err)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return apperr.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("user not found")
	}

	s.events.Publish(ctx, "user", "deleted", id)
	return nil
}

func (s *Service) emailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var taken bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email=$1 AND id::text <> $2)
	`, email, excludeID).Scan(&taken)
	if err != nil {
		return false, apperr.Wrap(err)
	}
	return taken, nil
}
