package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/wayfarerhq/wayfarer/internal/core/domain"
)

// ReservationRepo implements ports.ReservationRepository.
type ReservationRepo struct {
	db *DB
}

func NewReservationRepo(db *DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

func (r *ReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO reservations (trip_id, kind, title, address, confirmation_code, starts_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, res.TripID, res.Kind, res.Title, res.Address, res.ConfirmationCode, res.StartsAt).
		Scan(&res.ID, &res.CreatedAt)
}

func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, trip_id, kind, title, COALESCE(address, ''), COALESCE(confirmation_code, ''), starts_at, created_at
		FROM reservations WHERE id = $1
	`, id).Scan(&res.ID, &res.TripID, &res.Kind, &res.Title, &res.Address,
		&res.ConfirmationCode, &res.StartsAt, &res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListByTrip returns reservations in insertion order. Collection order
// matters downstream: dedup keeps the first occurrence of an address.
func (r *ReservationRepo) ListByTrip(ctx context.Context, tripID string) ([]domain.Reservation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, trip_id, kind, title, COALESCE(address, ''), COALESCE(confirmation_code, ''), starts_at, created_at
		FROM reservations WHERE trip_id = $1 ORDER BY created_at, id
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.TripID, &res.Kind, &res.Title, &res.Address,
			&res.ConfirmationCode, &res.StartsAt, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}
