package orgunits

import (
	"context"
	"fmt"

	"chapter/internal/database"
	"chapter/internal/domain/posts"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, u *OrgUnit) error
	GetByID(ctx context.Context, id int64) (*OrgUnit, error)
	List(ctx context.Context) ([]OrgUnit, error)
	Update(ctx context.Context, id int64, req UpdateOrgUnitRequest) (*OrgUnit, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type Repository struct {
	db database.DBTX
}

func NewRepository(db database.DBTX) Store {
	return &Repository{db: db}
}

const orgUnitColumns = `id, name, slug, kind, description, parent_id, lead_name, contact_email, display_order, created_at, updated_at`

func scanOrgUnit(row pgx.Row) (*OrgUnit, error) {
	u := &OrgUnit{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Slug, &u.Kind, &u.Description, &u.ParentID,
		&u.LeadName, &u.ContactEmail, &u.DisplayOrder, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func mapWriteErr(op string, err error) error {
	switch {
	case database.IsUniqueViolation(err, "org_units_slug_key"):
		return ErrDuplicateSlug
	case database.IsForeignKeyViolation(err):
		return ErrInvalidParent
	case database.IsNoRows(err):
		return ErrNotFound
	}
	return fmt.Errorf("%s org unit: %w", op, err)
}

func (r *Repository) Create(ctx context.Context, u *OrgUnit) error {
	if !u.Kind.Valid() {
		return ErrInvalidKind
	}
	if u.Slug == "" {
		u.Slug = posts.Slugify(u.Name)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO org_units (name, slug, kind, description, parent_id, lead_name, contact_email, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		u.Name, u.Slug, u.Kind, u.Description, u.ParentID, u.LeadName, u.ContactEmail, u.DisplayOrder,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapWriteErr("create", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*OrgUnit, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return scanOrgUnit(r.db.QueryRow(ctx, `SELECT `+orgUnitColumns+` FROM org_units WHERE id = $1`, id))
}

// List returns every unit ordered for display.
func (r *Repository) List(ctx context.Context) ([]OrgUnit, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+orgUnitColumns+` FROM org_units ORDER BY display_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list org units: %w", err)
	}
	defer rows.Close()

	out := []OrgUnit{}
	for rows.Next() {
		u, err := scanOrgUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// isDescendant reports whether candidate is id itself or sits below id in
// the hierarchy.
func (r *Repository) isDescendant(ctx context.Context, id, candidate int64) (bool, error) {
	query := `
		WITH RECURSIVE subtree AS (
			SELECT id FROM org_units WHERE id = $1
			UNION
			SELECT o.id FROM org_units o JOIN subtree s ON o.parent_id = s.id
		)
		SELECT EXISTS (SELECT 1 FROM subtree WHERE id = $2)
	`
	var found bool
	err := r.db.QueryRow(ctx, query, id, candidate).Scan(&found)
	return found, err
}

func (r *Repository) Update(ctx context.Context, id int64, req UpdateOrgUnitRequest) (*OrgUnit, error) {
	if req.Kind != nil && !req.Kind.Valid() {
		return nil, ErrInvalidKind
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if req.ParentID != nil {
		cyclic, err := r.isDescendant(ctx, id, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("check org unit parent: %w", err)
		}
		if cyclic {
			return nil, ErrInvalidParent
		}
	}

	var patch database.Patch
	patch.SetIf(req.Name != nil, "name", deref(req.Name))
	patch.SetIf(req.Slug != nil, "slug", posts.Slugify(deref(req.Slug)))
	if req.Kind != nil {
		patch.Set("kind", string(*req.Kind))
	}
	patch.SetIf(req.Description != nil, "description", deref(req.Description))
	switch {
	case req.ClearParent:
		patch.Set("parent_id", nil)
	case req.ParentID != nil:
		patch.Set("parent_id", *req.ParentID)
	}
	patch.SetIf(req.LeadName != nil, "lead_name", deref(req.LeadName))
	patch.SetIf(req.ContactEmail != nil, "contact_email", deref(req.ContactEmail))
	if req.DisplayOrder != nil {
		patch.Set("display_order", *req.DisplayOrder)
	}
	if patch.Empty() {
		return r.GetByID(ctx, id)
	}

	query, args := patch.Update("org_units", id, orgUnitColumns)
	u, err := scanOrgUnit(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapWriteErr("update", err)
	}
	return u, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM org_units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete org unit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM org_units`).Scan(&n)
	return n, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
