package usecase

import (
	"context"
	"testing"

	"cookmyshow/internal/data/entity"
	"cookmyshow/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovies_CRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Movie.CreateMovie(ctx, &request.MovieRequest{Description: "no title", Rating: 11})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "rating")

	created, err := e.svc.Movie.CreateMovie(ctx, &request.MovieRequest{
		Title:       "  Arrival ",
		Description: "Heptapods",
		Rating:      8.2,
		ReleaseDate: "2016-11-11",
		Genres:      []string{"Sci-Fi", "Drama"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Arrival", created.Title)
	assert.Equal(t, "English", created.Language)
	assert.Equal(t, "2016-11-11", created.ReleaseDate)
	assert.Equal(t, []string{}, created.Cast)

	found, err := e.svc.Movie.GetMovies(ctx, &request.MovieListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Genre:            "sci-fi",
	})
	require.NoError(t, err)
	require.Len(t, found.Data, 1)
	assert.Equal(t, created.ID, found.Data[0].ID)

	all, err := e.svc.Movie.GetMovies(ctx, &request.MovieListRequest{PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 1}})
	require.NoError(t, err)
	assert.Len(t, all.Data, 1)
	assert.EqualValues(t, 2, all.Pagination.Total)
	assert.Equal(t, 2, all.Pagination.TotalPages)

	title := "Arrival (2016)"
	cast := []string{"Amy Adams"}
	id := uuid.MustParse(created.ID)
	updated, err := e.svc.Movie.UpdateMovie(ctx, id, &request.MovieUpdateRequest{Title: &title, Cast: &cast})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, cast, updated.Cast)
	assert.Equal(t, "Heptapods", updated.Description)

	bad := "yesterday"
	_, err = e.svc.Movie.UpdateMovie(ctx, id, &request.MovieUpdateRequest{ReleaseDate: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, e.svc.Movie.DeleteMovie(ctx, id))
	_, err = e.svc.Movie.GetMovieByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, e.svc.Movie.DeleteMovie(ctx, id), ErrNotFound)
	_, err = e.svc.Movie.UpdateMovie(ctx, id, &request.MovieUpdateRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCinemas_CRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Cinema.CreateCinema(ctx, &request.CinemaRequest{Name: "No screens", Location: "Uptown"})
	assert.ErrorIs(t, err, ErrValidation)

	created, err := e.svc.Cinema.CreateCinema(ctx, &request.CinemaRequest{
		Name:      "Palace",
		Location:  "Uptown",
		Screens:   2,
		Amenities: []string{"Parking"},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultCinemaSeats, created.TotalSeats)

	uptown, err := e.svc.Cinema.GetCinemas(ctx, &request.PaginatedRequest{Page: 1, PerPage: 10}, "uptown")
	require.NoError(t, err)
	require.Len(t, uptown.Data, 1)
	assert.Equal(t, "Palace", uptown.Data[0].Name)

	id := uuid.MustParse(created.ID)
	screens := 6
	updated, err := e.svc.Cinema.UpdateCinema(ctx, id, &request.CinemaUpdateRequest{Screens: &screens})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Screens)
	assert.Equal(t, "Palace", updated.Name)

	_, err = e.svc.Cinema.GetCinemaShowtimes(ctx, e.cinema.ID, "March 4")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = e.svc.Cinema.GetCinemaShowtimes(ctx, uuid.New(), "")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, e.svc.Cinema.DeleteCinema(ctx, id))
	_, err = e.svc.Cinema.GetCinemaByID(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
