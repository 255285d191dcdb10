package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend-picshare/internal/apperr"
	"backend-picshare/internal/events"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func kindOf(t *testing.T, err error) apperr.Kind {
	t.Helper()
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected apperr, got %v", err)
	}
	return appErr.Kind
}

func TestUserCRUD(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, events.NewPublisher(nil))

	createdAt := time.Now()
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email=`).
		WithArgs("john.doe@example.com", "").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "john.doe@example.com", "John", "Doe", pgxmock.AnyArg(), true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	u, err := svc.Create(context.Background(), CreateRequest{
		Email:     "john.doe@example.com",
		FirstName: "John",
		LastName:  "Doe",
		Password:  "securepass123",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == "" || !u.IsActive {
		t.Fatalf("expected fresh id and active default, got %+v", u)
	}
	if u.PasswordHash == "securepass123" {
		t.Fatalf("password stored in clear")
	}

	userRow := func() *pgxmock.Rows {
		return pgxmock.NewRows([]string{"id", "email", "first_name", "last_name", "is_active", "created_at"}).
			AddRow(u.ID, u.Email, u.FirstName, u.LastName, u.IsActive, u.CreatedAt)
	}

	mock.ExpectQuery(`SELECT id, email, first_name, last_name, is_active, created_at`).
		WithArgs(u.ID).
		WillReturnRows(userRow())
	loaded, err := svc.Get(context.Background(), u.ID)
	if err != nil || loaded.Email != u.Email {
		t.Fatalf("get user: %v", err)
	}

	mock.ExpectQuery(`SELECT id, email, first_name, last_name, is_active, created_at`).
		WithArgs(u.ID).
		WillReturnRows(userRow())
	mock.ExpectExec(`UPDATE users`).
		WithArgs(u.ID, u.Email, "Johnny", u.LastName, false, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	first := "Johnny"
	inactive := false
	updated, err := svc.Update(context.Background(), u.ID, Patch{FirstName: &first, IsActive: &inactive})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.FirstName != "Johnny" || updated.IsActive {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Email != u.Email || updated.LastName != u.LastName {
		t.Fatalf("unsupplied fields changed: %+v", updated)
	}

	mock.ExpectExec(`DELETE FROM users`).WithArgs(u.ID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	if err := svc.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUserMissingFields(t *testing.T) {
	svc := NewService(nil, events.NewPublisher(nil))

	_, err := svc.Create(context.Background(), CreateRequest{
		FirstName: "John", LastName: "Doe", Password: "x",
	})
	if kindOf(t, err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateRequest{
		Email: "a@x.com", FirstName: "John", LastName: "Doe",
	})
	if kindOf(t, err) != apperr.Validation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, events.NewPublisher(nil))

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email=`).
		WithArgs("a@x.com", "").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Create(context.Background(), CreateRequest{
		Email: "a@x.com", FirstName: "A", LastName: "X", Password: "pw",
	})
	if kindOf(t, err) != apperr.Conflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	// the insert never ran
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateUserLosesRaceOnUniqueIndex(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, events.NewPublisher(nil))

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email=`).
		WithArgs("a@x.com", "").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "a@x.com", "A", "X", pgxmock.AnyArg(), true).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Create(context.Background(), CreateRequest{
		Email: "a@x.com", FirstName: "A", LastName: "X", Password: "pw",
	})
	if kindOf(t, err) != apperr.Conflict {
		t.Fatalf("expected conflict from unique index, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, events.NewPublisher(nil))

	mock.ExpectQuery(`SELECT id, email, first_name, last_name, is_active, created_at`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.Get(context.Background(), "missing")
	if kindOf(t, err) != apperr.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, events.NewPublisher(nil))

	mock.ExpectExec(`DELETE FROM users`).WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(context.Background(), "missing")
	if kindOf(t, err) != apperr.NotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateUserEmailConflict(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, events.NewPublisher(nil))

	mock.ExpectQuery(`SELECT id, email, first_name, last_name, is_active, created_at`).
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "first_name", "last_name", "is_active", "created_at"}).
			AddRow("user-1", "a@x.com", "A", "X", true, time.Now()))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email=`).
		WithArgs("b@x.com", "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	email := "b@x.com"
	_, err := svc.Update(context.Background(), "user-1", Patch{Email: &email})
	if kindOf(t, err) != apperr.Conflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}
