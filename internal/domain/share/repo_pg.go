package share

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthfolio/healthfolio/internal/platform/db"
)

// =========== Token Repository ===========

type tokenRepoPG struct{ pool *pgxpool.Pool }

func NewTokenRepoPG(pool *pgxpool.Pool) TokenRepository { return &tokenRepoPG{pool: pool} }

func (r *tokenRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const tokenCols = `id, owner_id, scope_kind, label, expires_at, is_revoked, is_active, created_at`

func scanToken(row pgx.Row) (*Token, error) {
	var t Token
	err := row.Scan(&t.ID, &t.OwnerID, &t.ScopeKind, &t.Label, &t.ExpiresAt,
		&t.IsRevoked, &t.IsActive, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &t, err
}

func (r *tokenRepoPG) Create(ctx context.Context, t *Token, recordIDs []uuid.UUID) error {
	if db.TxFromContext(ctx) != nil {
		return r.create(ctx, t, recordIDs)
	}
	return db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		return r.create(ctx, t, recordIDs)
	})
}

func (r *tokenRepoPG) create(ctx context.Context, t *Token, recordIDs []uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO share_token (id, owner_id, scope_kind, label, expires_at, is_revoked, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		t.ID, t.OwnerID, t.ScopeKind, t.Label, t.ExpiresAt, t.IsRevoked, t.IsActive)
	if err != nil {
		return err
	}
	for _, rid := range recordIDs {
		if _, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO share_token_record (token_id, record_id) VALUES ($1,$2)
			ON CONFLICT DO NOTHING`, t.ID, rid); err != nil {
			return err
		}
	}
	return nil
}

func (r *tokenRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Token, error) {
	return scanToken(r.conn(ctx).QueryRow(ctx, `SELECT `+tokenCols+` FROM share_token WHERE id = $1`, id))
}

func (r *tokenRepoPG) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Token, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM share_token WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+tokenCols+` FROM share_token
		WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (r *tokenRepoPG) LinkedRecordIDs(ctx context.Context, tokenID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT record_id FROM share_token_record WHERE token_id = $1`, tokenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *tokenRepoPG) SetRevoked(ctx context.Context, id uuid.UUID, revoked bool) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE share_token SET is_revoked = $2 WHERE id = $1`, id, revoked)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tokenRepoPG) Restore(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE share_token SET is_revoked = FALSE, expires_at = $2 WHERE id = $1`, id, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tokenRepoPG) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE share_token SET is_active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tokenRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	// share_token_record rows cascade with the token row.
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM share_token WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========== Access Event Repository ===========

type accessEventRepoPG struct{ pool *pgxpool.Pool }

func NewAccessEventRepoPG(pool *pgxpool.Pool) AccessEventRepository {
	return &accessEventRepoPG{pool: pool}
}

func (r *accessEventRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *accessEventRepoPG) Append(ctx context.Context, e *AccessEvent) error {
	e.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO share_access_event (id, token_id, accessed_by)
		VALUES ($1,$2,$3) RETURNING accessed_at`,
		e.ID, e.TokenID, e.AccessedBy).Scan(&e.AccessedAt)
}

func (r *accessEventRepoPG) ListByToken(ctx context.Context, tokenID uuid.UUID, limit, offset int) ([]*AccessEvent, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM share_access_event WHERE token_id = $1`, tokenID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, token_id, accessed_by, accessed_at FROM share_access_event
		WHERE token_id = $1 ORDER BY accessed_at DESC LIMIT $2 OFFSET $3`, tokenID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*AccessEvent
	for rows.Next() {
		var e AccessEvent
		if err := rows.Scan(&e.ID, &e.TokenID, &e.AccessedBy, &e.AccessedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &e)
	}
	return items, total, rows.Err()
}

func (r *accessEventRepoPG) DeleteByToken(ctx context.Context, tokenID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM share_access_event WHERE token_id = $1`, tokenID)
	return err
}
