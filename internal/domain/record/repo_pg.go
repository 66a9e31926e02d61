package record

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthfolio/healthfolio/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const recordCols = `id, owner_id, title, category, file_name, file_type, file_size,
	storage_key, record_date, notes, created_at, updated_at`

func scanRecord(row pgx.Row) (*HealthRecord, error) {
	var rec HealthRecord
	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Title, &rec.Category, &rec.FileName, &rec.FileType,
		&rec.FileSize, &rec.StorageKey, &rec.RecordDate, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, rec *HealthRecord) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO health_record (id, owner_id, title, category, file_name, file_type, file_size,
			storage_key, record_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		rec.ID, rec.OwnerID, rec.Title, rec.Category, rec.FileName, rec.FileType, rec.FileSize,
		rec.StorageKey, rec.RecordDate, rec.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*HealthRecord, error) {
	return scanRecord(r.conn(ctx).QueryRow(ctx, `SELECT `+recordCols+` FROM health_record WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rec *HealthRecord) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE health_record SET title=$2, category=$3, file_name=$4, file_type=$5,
			file_size=$6, storage_key=$7, record_date=$8, notes=$9, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.Title, rec.Category, rec.FileName, rec.FileType,
		rec.FileSize, rec.StorageKey, rec.RecordDate, rec.Notes)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM health_record WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*HealthRecord, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM health_record WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recordCols+` FROM health_record
		WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*HealthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id FROM health_record WHERE owner_id = $1 ORDER BY created_at`, ownerID)
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

func (r *repoPG) GetManyByIDs(ctx context.Context, ids []uuid.UUID) ([]*HealthRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+recordCols+` FROM health_record
		WHERE id = ANY($1) ORDER BY created_at`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*HealthRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}
