package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/lib/pq"

	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/repository"
)

func TestAdminRepo_GetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	want := &models.AdminUser{
		ID: "u1", Username: "editor", Email: "editor@example.com",
		PasswordHash: "$2a$10$hash", CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM admin_users WHERE username = $1")).
		WithArgs("editor").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(want.ID, want.Username, want.Email, want.PasswordHash, now, now))

	got, err := repository.NewAdminRepo(db).GetByUsername(context.Background(), "editor")
	if err != nil {
		t.Fatalf("GetByUsername err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAdminRepo_GetByUsername_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM admin_users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}))

	got, err := repository.NewAdminRepo(db).GetByUsername(context.Background(), "ghost")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", got, err)
	}
}

func TestAdminRepo_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO admin_users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "admin_users_username_key"})

	err := repository.NewAdminRepo(db).Create(context.Background(), &models.AdminUser{ID: "u1", Username: "editor"})
	if !errors.Is(err, repository.ErrDuplicateAdmin) {
		t.Fatalf("expected ErrDuplicateAdmin, got %v", err)
	}
}

func TestAdminRepo_EmailExists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("LOWER(email) = LOWER($1)")).
		WithArgs("Editor@Example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repository.NewAdminRepo(db).EmailExists(context.Background(), "Editor@Example.com")
	if err != nil || !exists {
		t.Fatalf("EmailExists = %v, %v", exists, err)
	}
}

func TestAdminRepo_UpdatePassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewAdminRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admin_users SET password_hash = $2")).
		WithArgs("u1", "new-hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE admin_users SET password_hash = $2")).
		WithArgs("u2", "new-hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdatePassword(context.Background(), "u1", "new-hash"); err != nil {
		t.Fatalf("UpdatePassword err=%v", err)
	}
	if err := repo.UpdatePassword(context.Background(), "u2", "new-hash"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
