package utils

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	RoleKey     contextKey = "role"
	TokenKey    contextKey = "token"
	TokenExpKey contextKey = "token_exp"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

// GetTokenFromContext returns the ID (jti) of the token that authenticated the request.
func GetTokenFromContext(ctx context.Context) (string, time.Time, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", time.Time{}, false
	}

	token, ok := tokenVal.(string)
	if !ok {
		return "", time.Time{}, false
	}

	exp, _ := ctx.Value(TokenExpKey).(time.Time)
	return token, exp, true
}

// SetTokenContext stores the token ID and its expiry for logout.
func SetTokenContext(ctx context.Context, tokenID string, expiresAt time.Time) context.Context {
	ctx = context.WithValue(ctx, TokenKey, tokenID)
	ctx = context.WithValue(ctx, TokenExpKey, expiresAt)
	return ctx
}
