package users

import (
	"context"
	"fmt"
	"strings"

	"chapter/internal/access"
	"chapter/internal/database"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]User, int, error)
	UpdateRole(ctx context.Context, id int64, role access.Role) (*User, error)
	SetActive(ctx context.Context, id int64, active bool) (*User, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type Repository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) Store {
	return &Repository{db: db}
}

const userColumns = `id, first_name, last_name, email, password, role, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Password.hash,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRow(ctx, query, strings.TrimSpace(email)))
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO users (first_name, last_name, email, password, role, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, is_active, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		user.FirstName, user.LastName, strings.ToLower(strings.TrimSpace(user.Email)), user.Password.hash, user.Role.String(),
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "users_email_key") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter, limit, offset int) ([]User, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	where := []string{"1=1"}
	args := []any{}
	if filter.Role != nil {
		args = append(args, filter.Role.String())
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(email ILIKE $%[1]d OR first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d)", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		userColumns, cond, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateRole changes a user's role. Demoting the last active admin fails with ErrLastAdmin.
func (r *Repository) UpdateRole(ctx context.Context, id int64, role access.Role) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
	if role == access.RoleAdmin {
		return scanUser(r.db.QueryRow(ctx, query, role.String(), id))
	}

	var u *User
	err := r.withAdminGuard(ctx, id, func(tx pgx.Tx) error {
		var err error
		u, err = scanUser(tx.QueryRow(ctx, query, role.String(), id))
		return err
	})
	return u, err
}

func (r *Repository) SetActive(ctx context.Context, id int64, active bool) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + userColumns
	if active {
		return scanUser(r.db.QueryRow(ctx, query, active, id))
	}

	var u *User
	err := r.withAdminGuard(ctx, id, func(tx pgx.Tx) error {
		var err error
		u, err = scanUser(tx.QueryRow(ctx, query, active, id))
		return err
	})
	return u, err
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.withAdminGuard(ctx, id, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active`).Scan(&n)
	return n, err
}

// withAdminGuard runs fn in a transaction that holds row locks on every
// active admin, so concurrent demotions are serialised. It fails with
// ErrLastAdmin before running fn if id is the only active admin left.
func (r *Repository) withAdminGuard(ctx context.Context, id int64, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	rows, err := tx.Query(ctx, `SELECT id FROM users WHERE role = 'admin' AND is_active ORDER BY id FOR UPDATE`)
	if err != nil {
		return fmt.Errorf("lock admins: %w", err)
	}
	admins, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("lock admins: %w", err)
	}

	if err := checkLastAdmin(admins, id); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// checkLastAdmin fails if id is the only entry in admins.
func checkLastAdmin(admins []int64, id int64) error {
	if len(admins) == 1 && admins[0] == id {
		return ErrLastAdmin
	}
	return nil
}
