package emergency

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/healthfolio/healthfolio/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const profileCols = `id, owner_id, blood_type, allergies, conditions, contact_name,
	contact_phone, contact_relationship, organ_donor, notes, created_at, updated_at`

func (r *repoPG) Upsert(ctx context.Context, p *Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO emergency_profile (id, owner_id, blood_type, allergies, conditions,
			contact_name, contact_phone, contact_relationship, organ_donor, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (owner_id) DO UPDATE SET
			blood_type=EXCLUDED.blood_type, allergies=EXCLUDED.allergies,
			conditions=EXCLUDED.conditions, contact_name=EXCLUDED.contact_name,
			contact_phone=EXCLUDED.contact_phone, contact_relationship=EXCLUDED.contact_relationship,
			organ_donor=EXCLUDED.organ_donor, notes=EXCLUDED.notes, updated_at=NOW()`,
		p.ID, p.OwnerID, p.BloodType, p.Allergies, p.Conditions,
		p.ContactName, p.ContactPhone, p.ContactRelationship, p.OrganDonor, p.Notes)
	return err
}

func (r *repoPG) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+profileCols+` FROM emergency_profile WHERE owner_id = $1`, ownerID).
		Scan(&p.ID, &p.OwnerID, &p.BloodType, &p.Allergies, &p.Conditions, &p.ContactName,
			&p.ContactPhone, &p.ContactRelationship, &p.OrganDonor, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM emergency_profile WHERE owner_id = $1`, ownerID)
	return err
}
