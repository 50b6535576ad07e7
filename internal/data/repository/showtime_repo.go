package repository

import (
	"context"
	"errors"
	"fmt"

	"cookmyshow/internal/data/entity"
	"cookmyshow/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShowtimeRepository interface {
	Create(ctx context.Context, showtime *entity.Showtime) error
	CreateBatch(ctx context.Context, showtimes []*entity.Showtime) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error)
	FindAll(ctx context.Context, filter ShowtimeFilter) ([]*entity.Showtime, error)
	CountAll(ctx context.Context) (int64, error)
	// Delete removes a showtime unless a live booking still holds its seats.
	Delete(ctx context.Context, id uuid.UUID) error
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeSelect = `
	SELECT s.id, s.movie_id, s.cinema_id, s.starts_at, s.screen_type, s.price,
	       s.created_at, s.updated_at, COALESCE(m.title, ''), COALESCE(c.name, '')
	FROM showtimes s
	LEFT JOIN movies m ON m.id = s.movie_id
	LEFT JOIN cinemas c ON c.id = s.cinema_id
`

func scanShowtime(row pgx.Row) (*entity.Showtime, error) {
	var st entity.Showtime
	err := row.Scan(
		&st.ID,
		&st.MovieID,
		&st.CinemaID,
		&st.StartsAt,
		&st.ScreenType,
		&st.Price,
		&st.CreatedAt,
		&st.UpdatedAt,
		&st.MovieTitle,
		&st.CinemaName,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

const insertShowtime = `
	INSERT INTO showtimes (id, movie_id, cinema_id, starts_at, screen_type, price, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func showtimeArgs(st *entity.Showtime) []interface{} {
	return []interface{}{st.ID, st.MovieID, st.CinemaID, st.StartsAt, st.ScreenType, st.Price, st.CreatedAt, st.UpdatedAt}
}

func (r *showtimeRepository) Create(ctx context.Context, showtime *entity.Showtime) error {
	if _, err := r.db.Exec(ctx, insertShowtime, showtimeArgs(showtime)...); err != nil {
		r.log.Error("Failed to create showtime",
			zap.Error(err),
			zap.String("movie_id", showtime.MovieID.String()),
			zap.String("cinema_id", showtime.CinemaID.String()),
		)
		return fmt.Errorf("create showtime: %w", err)
	}
	return nil
}

// CreateBatch inserts all showtimes or none.
func (r *showtimeRepository) CreateBatch(ctx context.Context, showtimes []*entity.Showtime) error {
	if len(showtimes) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin showtime batch: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, st := range showtimes {
		batch.Queue(insertShowtime, showtimeArgs(st)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		r.log.Error("Failed to insert showtime batch",
			zap.Error(err),
			zap.Int("count", len(showtimes)),
		)
		return fmt.Errorf("insert showtime batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit showtime batch: %w", err)
	}

	r.log.Info("Showtimes created", zap.Int("count", len(showtimes)))
	return nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	st, err := scanShowtime(r.db.QueryRow(ctx, showtimeSelect+` WHERE s.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime %s: %w", id, err)
	}
	return st, nil
}

func (r *showtimeRepository) FindAll(ctx context.Context, filter ShowtimeFilter) ([]*entity.Showtime, error) {
	w := &whereBuilder{}
	if filter.MovieID != nil {
		w.add("s.movie_id = $%d", *filter.MovieID)
	}
	if filter.CinemaID != nil {
		w.add("s.cinema_id = $%d", *filter.CinemaID)
	}
	if filter.From != nil {
		w.add("s.starts_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("s.starts_at < $%d", *filter.To)
	}

	rows, err := r.db.Query(ctx, showtimeSelect+w.String()+` ORDER BY s.starts_at, c.name`, w.args...)
	if err != nil {
		r.log.Error("Failed to find showtimes", zap.Error(err))
		return nil, fmt.Errorf("find showtimes: %w", err)
	}
	defer rows.Close()

	var showtimes []*entity.Showtime
	for rows.Next() {
		st, err := scanShowtime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan showtime: %w", err)
		}
		showtimes = append(showtimes, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate showtimes: %w", err)
	}

	return showtimes, nil
}

func (r *showtimeRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM showtimes`).Scan(&total); err != nil {
		r.log.Error("Failed to count showtimes", zap.Error(err))
		return 0, fmt.Errorf("count showtimes: %w", err)
	}
	return total, nil
}

func (r *showtimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete showtime: %w", err)
	}
	defer tx.Rollback(ctx)

	// Blocks behind any booking transaction holding the row FOR SHARE.
	var locked uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM showtimes WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("delete showtime %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock showtime %s: %w", id, err)
	}

	var live bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM booking_seats WHERE showtime_id = $1)`, id,
	).Scan(&live)
	if err != nil {
		return fmt.Errorf("check showtime bookings %s: %w", id, err)
	}
	if live {
		return fmt.Errorf("delete showtime %s: %w", id, ErrShowtimeInUse)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM showtimes WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to delete showtime",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return fmt.Errorf("delete showtime %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete showtime %s: %w", id, err)
	}

	r.log.Info("Showtime deleted", zap.String("showtime_id", id.String()))
	return nil
}
