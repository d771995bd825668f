package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var _ CredentialStore = (*PGCredentialStore)(nil)

// PGCredentialStore implements CredentialStore on PostgreSQL. Email
// uniqueness is enforced by a unique index; a violation surfaces as
// ErrDuplicateEmail so concurrent signups resolve to one winner.
type PGCredentialStore struct {
	db *sql.DB
}

func NewPGCredentialStore(db *sql.DB) *PGCredentialStore {
	return &PGCredentialStore{db: db}
}

const accountColumns = `id, email, name, password_hash, role, department, title, verified, created_at, updated_at`

func (s *PGCredentialStore) Insert(ctx context.Context, acct *Account) error {
	_, err := s.db.ExecContext(ctx,
		`insert into accounts(id, email, name, password_hash, role, department, title, verified)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		acct.ID, acct.Email, acct.Name, acct.PasswordHash, string(acct.Role),
		acct.Department, acct.Title, acct.Verified,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *PGCredentialStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where email=$1`, email)
	return scanAccount(row)
}

func (s *PGCredentialStore) FindByID(ctx context.Context, id string) (*Account, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where id=$1`, id)
	return scanAccount(row)
}

func (s *PGCredentialStore) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update accounts set password_hash=$2, updated_at=now() where email=$1`,
		email, passwordHash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *PGCredentialStore) MarkVerified(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx,
		`update accounts set verified=true, updated_at=now() where email=$1`, email)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func scanAccount(row *sql.Row) (*Account, error) {
	var (
		acct Account
		role string
	)
	err := row.Scan(&acct.ID, &acct.Email, &acct.Name, &acct.PasswordHash, &role,
		&acct.Department, &acct.Title, &acct.Verified, &acct.CreatedAt, &acct.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	acct.Role = Role(role)
	return &acct, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
