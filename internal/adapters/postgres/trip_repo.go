package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
)

// TripRepo implements ports.TripRepository.
type TripRepo struct {
	db *DB
}

func NewTripRepo(db *DB) *TripRepo {
	return &TripRepo{db: db}
}

func (r *TripRepo) Create(ctx context.Context, trip *domain.Trip) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO trips (name, destination, start_date, end_date, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, trip.Name, trip.Destination, trip.StartDate, trip.EndDate, trip.Notes).
		Scan(&trip.ID, &trip.CreatedAt)
}

func (r *TripRepo) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	t := &domain.Trip{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, destination, start_date, end_date, COALESCE(notes, ''), created_at
		FROM trips WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Destination, &t.StartDate, &t.EndDate, &t.Notes, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTripNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, destination, start_date, end_date, COALESCE(notes, ''), created_at
		FROM trips ORDER BY start_date, created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		var t domain.Trip
		if err := rows.Scan(&t.ID, &t.Name, &t.Destination, &t.StartDate, &t.EndDate, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *TripRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTripNotFound
	}
	return nil
}
