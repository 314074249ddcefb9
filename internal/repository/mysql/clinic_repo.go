package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

type clinicRepository struct {
	db *sql.DB
}

func NewClinicRepository(db *sql.DB) *clinicRepository {
	return &clinicRepository{db: db}
}

const clinicColumns = `id, name, address, city, phone, email, website, description, is_verified, created_by, created_at, updated_at`

func scanClinic(row rowScanner) (*model.VetClinic, error) {
	var c model.VetClinic
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.City, &c.Phone, &c.Email, &c.Website,
		&c.Description, &c.IsVerified, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clinicRepository) Create(ctx context.Context, c *model.VetClinic) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO vet_clinics (name, address, city, phone, email, website, description, is_verified, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		c.Name, c.Address, c.City, c.Phone, c.Email, c.Website, c.Description, c.IsVerified, c.CreatedBy)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = int(id)
	return nil
}

func (r *clinicRepository) FindByID(ctx context.Context, id int) (*model.VetClinic, error) {
	c, err := scanClinic(r.db.QueryRowContext(ctx, `SELECT `+clinicColumns+` FROM vet_clinics WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *clinicRepository) List(ctx context.Context, city string, page, pageSize int) ([]*model.VetClinic, int, error) {
	where := ``
	var args []interface{}
	if city != "" {
		where = ` WHERE city = ?`
		args = append(args, city)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vet_clinics`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clinicColumns+` FROM vet_clinics`+where+` ORDER BY name LIMIT ? OFFSET ?`,
		append(args, pageSize, offsetOf(page, pageSize))...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clinics []*model.VetClinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, 0, err
		}
		clinics = append(clinics, c)
	}
	return clinics, total, rows.Err()
}

func (r *clinicRepository) Update(ctx context.Context, c *model.VetClinic) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE vet_clinics SET name = ?, address = ?, city = ?, phone = ?, email = ?, website = ?,
			description = ?, is_verified = ?, updated_at = NOW()
		WHERE id = ?`,
		c.Name, c.Address, c.City, c.Phone, c.Email, c.Website, c.Description, c.IsVerified, c.ID)
	return err
}

func (r *clinicRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM vet_clinics WHERE id = ?`, id)
	return err
}
