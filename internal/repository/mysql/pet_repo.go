package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
)

type petRepository struct {
	db *sql.DB
}

func NewPetRepository(db *sql.DB) *petRepository {
	return &petRepository{db: db}
}

const petColumns = `id, owner_id, name, species, breed, gender, birth_date, bio, photo_url, is_medical_verified, created_at, updated_at`

func scanPet(row rowScanner) (*model.Pet, error) {
	var pet model.Pet
	err := row.Scan(&pet.ID, &pet.OwnerID, &pet.Name, &pet.Species, &pet.Breed, &pet.Gender,
		&pet.BirthDate, &pet.Bio, &pet.PhotoURL, &pet.IsMedicalVerified, &pet.CreatedAt, &pet.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) Create(ctx context.Context, pet *model.Pet) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (owner_id, name, species, breed, gender, birth_date, bio, photo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		pet.OwnerID, pet.Name, pet.Species, pet.Breed, pet.Gender, pet.BirthDate, pet.Bio, pet.PhotoURL)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	pet.ID = int(id)
	return nil
}

func (r *petRepository) FindByID(ctx context.Context, id int) (*model.Pet, error) {
	pet, err := scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return pet, nil
}

func (r *petRepository) ListByOwner(ctx context.Context, ownerID int) ([]*model.Pet, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+petColumns+` FROM pets WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pets []*model.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}
	return pets, rows.Err()
}

func (r *petRepository) Update(ctx context.Context, pet *model.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pets SET name = ?, species = ?, breed = ?, gender = ?, birth_date = ?, bio = ?, photo_url = ?, updated_at = NOW()
		WHERE id = ?`,
		pet.Name, pet.Species, pet.Breed, pet.Gender, pet.BirthDate, pet.Bio, pet.PhotoURL, pet.ID)
	return err
}

func (r *petRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = ?`, id)
	return err
}

func (r *petRepository) SetMedicalVerified(ctx context.Context, petID int, verified bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE pets SET is_medical_verified = ?, updated_at = NOW() WHERE id = ?`, verified, petID)
	return err
}

func (r *petRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pets`).Scan(&total)
	return total, err
}
