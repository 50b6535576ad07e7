package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cookmyshow/internal/data/entity"
	"cookmyshow/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CinemaRepository interface {
	Create(ctx context.Context, cinema *entity.Cinema) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Cinema, error)
	FindAll(ctx context.Context, location string, limit, offset int) ([]*entity.Cinema, error)
	CountAll(ctx context.Context, location string) (int64, error)
	Update(ctx context.Context, cinema *entity.Cinema) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cinemaRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCinemaRepository(db database.PgxIface, log *zap.Logger) CinemaRepository {
	return &cinemaRepository{
		db:  db,
		log: log.With(zap.String("repository", "cinema")),
	}
}

const cinemaColumns = `id, name, location, address, screens, total_seats, amenities, contact, image,
	created_at, updated_at, deleted_at`

func scanCinema(row pgx.Row) (*entity.Cinema, error) {
	var cinema entity.Cinema
	err := row.Scan(
		&cinema.ID,
		&cinema.Name,
		&cinema.Location,
		&cinema.Address,
		&cinema.Screens,
		&cinema.TotalSeats,
		&cinema.Amenities,
		&cinema.Contact,
		&cinema.Image,
		&cinema.CreatedAt,
		&cinema.UpdatedAt,
		&cinema.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &cinema, nil
}

func (r *cinemaRepository) Create(ctx context.Context, cinema *entity.Cinema) error {
	query := `
		INSERT INTO cinemas (id, name, location, address, screens, total_seats, amenities,
		                     contact, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		cinema.ID,
		cinema.Name,
		cinema.Location,
		cinema.Address,
		cinema.Screens,
		cinema.TotalSeats,
		textArray(cinema.Amenities),
		cinema.Contact,
		cinema.Image,
		cinema.CreatedAt,
		cinema.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create cinema",
			zap.Error(err),
			zap.String("name", cinema.Name),
			zap.String("location", cinema.Location),
		)
		return fmt.Errorf("create cinema %s: %w", cinema.Name, err)
	}

	return nil
}

func (r *cinemaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cinema, error) {
	query := `SELECT ` + cinemaColumns + ` FROM cinemas WHERE id = $1 AND deleted_at IS NULL`

	cinema, err := scanCinema(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cinema by ID",
			zap.Error(err),
			zap.String("cinema_id", id.String()),
		)
		return nil, fmt.Errorf("find cinema %s: %w", id, err)
	}

	return cinema, nil
}

func cinemaWhere(location string) *whereBuilder {
	w := &whereBuilder{}
	w.addRaw("deleted_at IS NULL")
	if loc := strings.TrimSpace(location); loc != "" {
		w.add("location ILIKE $%d", "%"+loc+"%")
	}
	return w
}

func (r *cinemaRepository) FindAll(ctx context.Context, location string, limit, offset int) ([]*entity.Cinema, error) {
	w := cinemaWhere(location)
	query := fmt.Sprintf(`SELECT %s FROM cinemas%s ORDER BY name LIMIT $%d OFFSET $%d`,
		cinemaColumns, w, w.next(), w.next()+1)

	rows, err := r.db.Query(ctx, query, append(w.args, limit, offset)...)
	if err != nil {
		r.log.Error("Failed to find all cinemas",
			zap.Error(err),
			zap.String("location", location),
		)
		return nil, fmt.Errorf("find cinemas: %w", err)
	}
	defer rows.Close()

	var cinemas []*entity.Cinema
	for rows.Next() {
		cinema, err := scanCinema(rows)
		if err != nil {
			r.log.Error("Failed to scan cinema row", zap.Error(err))
			return nil, fmt.Errorf("scan cinema: %w", err)
		}
		cinemas = append(cinemas, cinema)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cinemas: %w", err)
	}

	return cinemas, nil
}

func (r *cinemaRepository) CountAll(ctx context.Context, location string) (int64, error) {
	w := cinemaWhere(location)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cinemas`+w.String(), w.args...).Scan(&total); err != nil {
		r.log.Error("Failed to count cinemas", zap.Error(err))
		return 0, fmt.Errorf("count cinemas: %w", err)
	}

	return total, nil
}

func (r *cinemaRepository) Update(ctx context.Context, cinema *entity.Cinema) error {
	query := `
		UPDATE cinemas
		SET name = $2, location = $3, address = $4, screens = $5, total_seats = $6,
		    amenities = $7, contact = $8, image = $9, updated_at = $10
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		cinema.ID,
		cinema.Name,
		cinema.Location,
		cinema.Address,
		cinema.Screens,
		cinema.TotalSeats,
		textArray(cinema.Amenities),
		cinema.Contact,
		cinema.Image,
		cinema.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update cinema",
			zap.Error(err),
			zap.String("cinema_id", cinema.ID.String()),
		)
		return fmt.Errorf("update cinema %s: %w", cinema.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update cinema %s: %w", cinema.ID, ErrNotFound)
	}

	return nil
}

func (r *cinemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE cinemas SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.log.Error("Failed to delete cinema",
			zap.Error(err),
			zap.String("cinema_id", id.String()),
		)
		return fmt.Errorf("delete cinema %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete cinema %s: %w", id, ErrNotFound)
	}

	r.log.Info("Cinema soft deleted", zap.String("cinema_id", id.String()))
	return nil
}
