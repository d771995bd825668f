package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func newPGTestStore(t *testing.T) (*PGCredentialStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewPGCredentialStore(db), mock
}

func TestPGInsert(t *testing.T) {
	s, mock := newPGTestStore(t)

	mock.ExpectExec("insert into accounts").
		WithArgs("a1", "jane@x.com", "Jane", "hash", "operator", "", "", false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Insert(context.Background(), &Account{
		ID: "a1", Email: "jane@x.com", Name: "Jane",
		PasswordHash: "hash", Role: RoleOperator,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestPGInsertUniqueViolation(t *testing.T) {
	s, mock := newPGTestStore(t)

	mock.ExpectExec("insert into accounts").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	err := s.Insert(context.Background(), &Account{ID: "a1", Email: "jane@x.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestPGFindByEmail(t *testing.T) {
	s, mock := newPGTestStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "email", "name", "password_hash", "role",
		"department", "title", "verified", "created_at", "updated_at",
	}).AddRow("a1", "jane@x.com", "Jane", "hash", "manager", "Ops", "Lead", true, now, now)

	mock.ExpectQuery("select (.+) from accounts where email=\\$1").
		WithArgs("jane@x.com").
		WillReturnRows(rows)

	acct, err := s.FindByEmail(context.Background(), "jane@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if acct.ID != "a1" || acct.Role != RoleManager || !acct.Verified {
		t.Fatalf("unexpected account: %+v", acct)
	}
}

func TestPGFindByEmailNotFound(t *testing.T) {
	s, mock := newPGTestStore(t)

	mock.ExpectQuery("select (.+) from accounts where email=\\$1").
		WithArgs("ghost@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := s.FindByEmail(context.Background(), "ghost@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGMarkVerifiedNoRows(t *testing.T) {
	s, mock := newPGTestStore(t)

	mock.ExpectExec("update accounts set verified=true").
		WithArgs("ghost@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.MarkVerified(context.Background(), "ghost@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGUpdatePassword(t *testing.T) {
	s, mock := newPGTestStore(t)

	mock.ExpectExec("update accounts set password_hash=\\$2").
		WithArgs("jane@x.com", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.UpdatePassword(context.Background(), "jane@x.com", "newhash"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}
}
