package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelter-kit/shelter-service/internal/domain"
)

// AnimalRepository encapsulates animal persistence.
type AnimalRepository interface {
	Create(ctx context.Context, animal *domain.Animal) error
	Update(ctx context.Context, animal *domain.Animal) error
	GetByID(ctx context.Context, id int64) (*domain.Animal, error)
	List(ctx context.Context) ([]domain.Animal, error)
	Delete(ctx context.Context, id int64) error
	MarkAdopted(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

type animalRepository struct {
	pool *pgxpool.Pool
}

// NewAnimalRepository instantiates repository.
func NewAnimalRepository(pool *pgxpool.Pool) AnimalRepository {
	return &animalRepository{pool: pool}
}

func (r *animalRepository) Create(ctx context.Context, animal *domain.Animal) error {
	const query = `
        INSERT INTO animals (name, description, birth_date, user_id, adopted)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, version`
	return r.pool.QueryRow(ctx, query,
		animal.Name,
		animal.Description,
		animal.BirthDate,
		animal.UserID,
		animal.Adopted,
	).Scan(&animal.ID, &animal.CreatedAt, &animal.Version)
}

// Update saves mutable fields guarded by the row version; created_at and
// user_id never change. Zero rows affected means the version moved or the
// row is gone.
func (r *animalRepository) Update(ctx context.Context, animal *domain.Animal) error {
	const query = `
        UPDATE animals SET name=$1, description=$2, birth_date=$3, adopted=$4, version=version+1
        WHERE id=$5 AND version=$6`
	cmd, err := r.pool.Exec(ctx, query,
		animal.Name,
		animal.Description,
		animal.BirthDate,
		animal.Adopted,
		animal.ID,
		animal.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	animal.Version++
	return nil
}

func (r *animalRepository) GetByID(ctx context.Context, id int64) (*domain.Animal, error) {
	const query = `
        SELECT a.id, a.name, a.description, a.birth_date, a.user_id, u.username,
               a.adopted, a.created_at, a.version
        FROM animals a
        LEFT JOIN users u ON u.id = a.user_id
        WHERE a.id=$1`

	var animal domain.Animal
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&animal.ID,
		&animal.Name,
		&animal.Description,
		&animal.BirthDate,
		&animal.UserID,
		&animal.OwnerUsername,
		&animal.Adopted,
		&animal.CreatedAt,
		&animal.Version,
	); err != nil {
		return nil, err
	}
	return &animal, nil
}

func (r *animalRepository) List(ctx context.Context) ([]domain.Animal, error) {
	const query = `
        SELECT a.id, a.name, a.description, a.birth_date, a.user_id, u.username,
               a.adopted, a.created_at, a.version
        FROM animals a
        LEFT JOIN users u ON u.id = a.user_id
        ORDER BY a.created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Animal
	for rows.Next() {
		var animal domain.Animal
		if err := rows.Scan(
			&animal.ID,
			&animal.Name,
			&animal.Description,
			&animal.BirthDate,
			&animal.UserID,
			&animal.OwnerUsername,
			&animal.Adopted,
			&animal.CreatedAt,
			&animal.Version,
		); err != nil {
			return nil, err
		}
		result = append(result, animal)
	}
	return result, rows.Err()
}

func (r *animalRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM animals WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *animalRepository) MarkAdopted(ctx context.Context, id int64) error {
	const query = `UPDATE animals SET adopted=TRUE, version=version+1 WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *animalRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM animals WHERE id=$1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
