package storage

import (
	"context"
	"errors"

	"chapter/internal/database"
	"chapter/internal/domain/dashboard"
	"chapter/internal/domain/events"
	"chapter/internal/domain/hero"
	"chapter/internal/domain/invitations"
	"chapter/internal/domain/orgunits"
	"chapter/internal/domain/posts"
	"chapter/internal/domain/pushtokens"
	"chapter/internal/domain/uploads"
	"chapter/internal/domain/users"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRunner runs fn against a container whose repositories share one transaction.
type TxRunner func(ctx context.Context, fn func(tx *Container) error) error

type Container struct {
	// RunTx opens transactions for WithTx. NewContainer sets it to a pool
	// transaction; a zero Container has none.
	RunTx       TxRunner
	Users       users.Store
	Invitations invitations.Store
	Posts       posts.Store
	Events      events.Store
	OrgUnits    orgunits.Store
	Hero        hero.Store
	Uploads     uploads.Store
	PushTokens  pushtokens.Store
	Dashboard   dashboard.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	c := newContainer(db)
	c.RunTx = func(ctx context.Context, fn func(tx *Container) error) error {
		return database.WithTx(db, ctx, func(tx pgx.Tx) error {
			return fn(newContainer(tx))
		})
	}
	return c
}

func newContainer(db database.DBTX) *Container {
	return &Container{
		Users:       users.NewRepository(db),
		Invitations: invitations.NewRepository(db),
		Posts:       posts.NewRepository(db),
		Events:      events.NewRepository(db),
		OrgUnits:    orgunits.NewRepository(db),
		Hero:        hero.NewRepository(db),
		Uploads:     uploads.NewRepository(db),
		PushTokens:  pushtokens.NewRepository(db),
		Dashboard:   dashboard.NewRepository(db),
	}
}

// WithTx runs fn inside a transaction. The transaction commits only when fn
// returns nil.
func (c *Container) WithTx(ctx context.Context, fn func(tx *Container) error) error {
	if c.RunTx == nil {
		return errors.New("storage container cannot open transactions")
	}
	return c.RunTx(ctx, fn)
}
