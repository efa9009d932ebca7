package pushtokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chapter/internal/database"
)

var (
	ErrInvalidToken      = errors.New("not an Expo push token")
	QueryTimeoutDuration = time.Second * 5
)

type Store interface {
	Upsert(ctx context.Context, userID int64, token string, deviceInfo json.RawMessage) error
	Remove(ctx context.Context, userID int64, token string) error
	RemoveTokens(ctx context.Context, tokens []string) error
	All(ctx context.Context) ([]string, error)
	PruneStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type Repository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) Store {
	return &Repository{db: db}
}

// Upsert stores token + device info and bumps last_updated.
func (r *Repository) Upsert(ctx context.Context, userID int64, token string, deviceInfo json.RawMessage) error {
	if !Valid(token) {
		return ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if len(deviceInfo) == 0 {
		deviceInfo = nil
	}
	q := `
	INSERT INTO user_push_tokens (user_id, expo_push_token, device_info, last_updated)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (user_id, expo_push_token)
	DO UPDATE SET device_info = EXCLUDED.device_info, last_updated = NOW();
	`
	_, err := r.db.Exec(ctx, q, userID, token, deviceInfo)
	return err
}

func (r *Repository) Remove(ctx context.Context, userID int64, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM user_push_tokens WHERE user_id = $1 AND expo_push_token = $2`, userID, token)
	return err
}

// RemoveTokens deletes every row holding one of tokens, for any user.
func (r *Repository) RemoveTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM user_push_tokens WHERE expo_push_token = ANY($1)`, tokens)
	return err
}

// All returns the distinct registered tokens of active users.
func (r *Repository) All(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
	SELECT DISTINCT t.expo_push_token
	FROM user_push_tokens t
	JOIN users u ON u.id = t.user_id
	WHERE u.is_active
	`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

// PruneStale deletes tokens not refreshed within olderThan.
func (r *Repository) PruneStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	interval := fmt.Sprintf("%d seconds", int64(olderThan.Seconds()))
	tag, err := r.db.Exec(ctx, `DELETE FROM user_push_tokens WHERE last_updated < NOW() - $1::interval`, interval)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
