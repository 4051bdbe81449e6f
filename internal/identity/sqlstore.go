package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ridgecrew/trainhub/internal/apperr"
)

// SQLStore persists principals in the users table.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Get(ctx context.Context, id string) (Principal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, role, created_at FROM users WHERE id=$1`, id)
	return scanPrincipal(row, id)
}

func (s *SQLStore) GetByEmail(ctx context.Context, email string) (Principal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, role, created_at FROM users WHERE email=$1`, email)
	return scanPrincipal(row, email)
}

func scanPrincipal(row *sql.Row, key string) (Principal, error) {
	var p Principal
	var createdAt int64
	if err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Principal{}, apperr.NotFound("user", key)
		}
		return Principal{}, apperr.Collaborator("identity.get", err)
	}
	p.SignedUpAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Principal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, display_name, role, created_at FROM users ORDER BY email`)
	if err != nil {
		return nil, apperr.Collaborator("identity.list", err)
	}
	defer rows.Close()
	var out []Principal
	for rows.Next() {
		var p Principal
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Role, &createdAt); err != nil {
			return nil, apperr.Collaborator("identity.list", err)
		}
		p.SignedUpAt = time.Unix(createdAt, 0).UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Collaborator("identity.list", err)
	}
	return out, nil
}

// UpdateRole is a single UPDATE statement, so concurrent readers see either
// the old role or the new one. Writing the current value is a success.
func (s *SQLStore) UpdateRole(ctx context.Context, id, role string) error {
	if !ValidRole(role) {
		return apperr.Validation("role", "unknown role "+role)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET role=$1 WHERE id=$2`, role, id)
	if err != nil {
		return apperr.Collaborator("identity.update_role", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Collaborator("identity.update_role", err)
	}
	if n == 0 {
		return apperr.NotFound("user", id)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return apperr.Collaborator("identity.delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Collaborator("identity.delete", err)
	}
	if n == 0 {
		return apperr.NotFound("user", id)
	}
	return nil
}

func (s *SQLStore) Upsert(ctx context.Context, p Principal, passwordHash string) error {
	if p.Role == "" {
		p.Role = RoleUser
	}
	if !ValidRole(p.Role) {
		return apperr.Validation("role", "unknown role "+p.Role)
	}
	createdAt := p.SignedUpAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	var err error
	if passwordHash != "" {
		_, err = s.db.ExecContext(ctx, `INSERT INTO users (id, email, display_name, role, password_hash, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
			ON CONFLICT (id) DO UPDATE SET email=EXCLUDED.email, display_name=EXCLUDED.display_name,
				role=EXCLUDED.role, password_hash=EXCLUDED.password_hash`,
			p.ID, p.Email, p.DisplayName, p.Role, passwordHash, createdAt.Unix())
	} else {
		_, err = s.db.ExecContext(ctx, `INSERT INTO users (id, email, display_name, role, password_hash, created_at)
			VALUES ($1,$2,$3,$4,'',$5)
			ON CONFLICT (id) DO UPDATE SET email=EXCLUDED.email, display_name=EXCLUDED.display_name,
				role=EXCLUDED.role`,
			p.ID, p.Email, p.DisplayName, p.Role, createdAt.Unix())
	}
	if err != nil {
		return apperr.Collaborator("identity.upsert", err)
	}
	return nil
}

func (s *SQLStore) Authenticate(ctx context.Context, email, password string) (Principal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, role, password_hash, created_at FROM users WHERE email=$1`, email)
	var p Principal
	var hash string
	var createdAt int64
	if err := row.Scan(&p.ID, &p.Email, &p.DisplayName, &p.Role, &hash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Principal{}, apperr.NotFound("user", email)
		}
		return Principal{}, apperr.Collaborator("identity.authenticate", err)
	}
	if hash == "" {
		return Principal{}, errors.New("no local credentials for user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Principal{}, errors.New("invalid credentials")
	}
	p.SignedUpAt = time.Unix(createdAt, 0).UTC()
	return p, nil
}
