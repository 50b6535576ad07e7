package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	tok, err := NewAccessToken("secret", userID, "Ana", "ana@example.com", "admin", time.Hour, now)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.WithinDuration(t, now.Add(time.Hour), tok.ExpiresAt, time.Second)

	claims, err := ParseAccessToken("secret", tok.Token, now)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, tok.ID, claims.ID)
}

func TestAccessToken_Rejects(t *testing.T) {
	userID := uuid.New()

	expired, err := NewAccessToken("secret", userID, "Ana", "ana@example.com", "customer", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	valid, err := NewAccessToken("secret", userID, "Ana", "ana@example.com", "customer", time.Hour, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{"expired", "secret", expired.Token},
		{"wrong secret", "other", valid.Token},
		{"garbage", "secret", "not-a-token"},
		{"empty", "secret", ""},
	}

	_, err = ParseAccessToken("secret", valid.Token, time.Now().Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken, "expiry follows the supplied clock")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccessToken(tt.secret, tt.raw, time.Now())
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewAccessToken_EmptySecret(t *testing.T) {
	_, err := NewAccessToken("", uuid.New(), "", "", "customer", time.Hour, time.Now())
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}

func TestGenerateOrderID(t *testing.T) {
	now := time.Date(2026, 3, 7, 18, 45, 9, 0, time.UTC)
	id := GenerateOrderID(now)
	assert.True(t, strings.HasPrefix(id, "BOOK-20260307-184509-"), id)
	assert.Len(t, id, len("BOOK-20260307-184509-0000"))
}

func TestValidateStruct_UsesJSONNames(t *testing.T) {
	type req struct {
		Email string `json:"email" validate:"required,email"`
		Seats []int  `json:"seats" validate:"required,min=1"`
	}

	errs := ValidateStruct(req{Email: "nope"})
	require.Len(t, errs, 2)
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "This field is required", errs["seats"])
	assert.Equal(t, "email: Invalid email format; seats: This field is required", FormatValidationErrors(errs))

	assert.Nil(t, ValidateStruct(req{Email: "a@b.co", Seats: []int{1}}))
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("", 5))
	assert.Equal(t, 5, ParseInt("x", 5))
	assert.Equal(t, 5, ParseInt("0", 5))
	assert.Equal(t, 3, ParseInt("3", 5))
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=9090\nSTORAGE_DRIVER=FILE\nHOLD_TTL=90s\nCORS_ORIGINS=http://a, http://b\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, 90*time.Second, cfg.Booking.HoldTTL)
	assert.Equal(t, 16, cfg.Booking.SeatsPerRow)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "cookmyshow", cfg.App.Name)
	assert.Equal(t, 15*time.Minute, cfg.Booking.PaymentWindow)
	assert.Equal(t, 24, cfg.JWT.ExpiryHours)
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "DB_HOST, DB_NAME and DB_USER")

	cfg.JWT.Secret = "s3cret"
	cfg.Storage.Driver = StorageDriverFile
	require.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "sqlite"
	cfg.Booking.SeatRows = 27
	cfg.Booking.HoldTTL = 0
	err = cfg.Validate()
	require.Error(t, err)
	lines := strings.Split(err.Error(), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], `unknown STORAGE_DRIVER "sqlite"`)
}
