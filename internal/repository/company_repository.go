package repository

import (
	"context"
	"database/sql"

	"workforce/internal/models"
)

type CompanyRepository interface {
	Get(ctx context.Context) (*models.Company, error)
	Upsert(ctx context.Context, company *models.Company) error
	Update(ctx context.Context, req *models.UpdateCompanyRequest) (*models.Company, error)
}

type companyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) CompanyRepository {
	return &companyRepository{db: db}
}

const companyColumns = `id, name, org_number, address, postal_code, city, contact_email, contact_phone, created_at, updated_at`

// Get returns the single company record.
func (r *companyRepository) Get(ctx context.Context) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM company_info ORDER BY created_at LIMIT 1`

	var c models.Company
	err := r.db.QueryRowContext(ctx, query).Scan(
		&c.ID, &c.Name, &c.OrgNumber, &c.Address, &c.PostalCode,
		&c.City, &c.ContactEmail, &c.ContactPhone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepository) Upsert(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO company_info (id, name, org_number, address, postal_code, city, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			org_number = EXCLUDED.org_number,
			address = EXCLUDED.address,
			postal_code = EXCLUDED.postal_code,
			city = EXCLUDED.city,
			contact_email = EXCLUDED.contact_email,
			contact_phone = EXCLUDED.contact_phone,
			updated_at = CURRENT_TIMESTAMP
		RETURNING created_at, updated_at
	`

	return r.db.QueryRowContext(ctx, query,
		company.ID, company.Name, company.OrgNumber, company.Address,
		company.PostalCode, company.City, company.ContactEmail, company.ContactPhone,
	).Scan(&company.CreatedAt, &company.UpdatedAt)
}

func (r *companyRepository) Update(ctx context.Context, req *models.UpdateCompanyRequest) (*models.Company, error) {
	query := `
		UPDATE company_info
		SET name = COALESCE($1, name),
			org_number = COALESCE($2, org_number),
			address = COALESCE($3, address),
			postal_code = COALESCE($4, postal_code),
			city = COALESCE($5, city),
			contact_email = COALESCE($6, contact_email),
			contact_phone = COALESCE($7, contact_phone),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = (SELECT id FROM company_info ORDER BY created_at LIMIT 1)
		RETURNING ` + companyColumns + `
	`

	var c models.Company
	err := r.db.QueryRowContext(ctx, query,
		req.Name, req.OrgNumber, req.Address, req.PostalCode,
		req.City, req.ContactEmail, req.ContactPhone,
	).Scan(
		&c.ID, &c.Name, &c.OrgNumber, &c.Address, &c.PostalCode,
		&c.City, &c.ContactEmail, &c.ContactPhone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
