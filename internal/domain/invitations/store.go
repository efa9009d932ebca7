package invitations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chapter/internal/database"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, inv *Invitation, tokenHash string) error
	GetByID(ctx context.Context, id int64) (*Invitation, error)
	// GetPendingByTokenHash locks the row when run inside a transaction.
	GetPendingByTokenHash(ctx context.Context, tokenHash string) (*Invitation, error)
	List(ctx context.Context, pendingOnly bool, limit, offset int) ([]Invitation, int, error)
	MarkAccepted(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	CountPending(ctx context.Context) (int, error)
	PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Repository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) Store {
	return &Repository{db: db}
}

const invitationColumns = `id, email, role, invited_by, expires_at, accepted_at, created_at`

func scanInvitation(row pgx.Row) (*Invitation, error) {
	inv := &Invitation{}
	err := row.Scan(&inv.ID, &inv.Email, &inv.Role, &inv.InvitedBy, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *Repository) Create(ctx context.Context, inv *Invitation, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	// expired, unaccepted invitations for the same address are replaced
	_, err := r.db.Exec(ctx, `
		DELETE FROM invitations
		WHERE lower(email) = lower($1) AND accepted_at IS NULL AND expires_at <= NOW()
	`, inv.Email)
	if err != nil {
		return fmt.Errorf("clear expired invitation: %w", err)
	}

	query := `
		INSERT INTO invitations (email, role, token_hash, invited_by, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err = r.db.QueryRow(ctx, query,
		strings.ToLower(strings.TrimSpace(inv.Email)), inv.Role.String(), tokenHash, inv.InvitedBy, inv.ExpiresAt,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "invitations_pending_email_idx") {
			return ErrPendingExists
		}
		return fmt.Errorf("create invitation: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanInvitation(r.db.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id))
}

func (r *Repository) GetPendingByTokenHash(ctx context.Context, tokenHash string) (*Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token_hash = $1 FOR UPDATE`
	inv, err := scanInvitation(r.db.QueryRow(ctx, query, tokenHash))
	if err != nil {
		return nil, err
	}
	switch inv.StatusAt(time.Now()) {
	case StatusAccepted:
		return nil, ErrAlreadyAccepted
	case StatusExpired:
		return nil, ErrExpired
	}
	return inv, nil
}

func (r *Repository) List(ctx context.Context, pendingOnly bool, limit, offset int) ([]Invitation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	cond := "TRUE"
	if pendingOnly {
		cond = "accepted_at IS NULL AND expires_at > NOW()"
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invitations WHERE `+cond).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invitations: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE `+cond+` ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	out := []Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *inv)
	}
	return out, total, rows.Err()
}

func (r *Repository) MarkAccepted(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE invitations SET accepted_at = NOW() WHERE id = $1 AND accepted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("accept invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyAccepted
	}
	return nil
}

// Delete revokes an invitation that has not been accepted yet.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM invitations WHERE id = $1 AND accepted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invitations WHERE accepted_at IS NULL AND expires_at > NOW()`).Scan(&n)
	return n, err
}

func (r *Repository) PurgeExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	cutoff := time.Now().Add(-olderThan)
	tag, err := r.db.Exec(ctx, `DELETE FROM invitations WHERE accepted_at IS NULL AND expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge invitations: %w", err)
	}
	return tag.RowsAffected(), nil
}
