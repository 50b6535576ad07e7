package seatlock

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Holds of one showtime live in a single hash, seat -> "<user>|<expires ms>",
// so a hold request is checked and applied by one script atomically.
var holdScript = redis.NewScript(`
	local key = KEYS[1]
	local user = ARGV[1]
	local now_ms = tonumber(ARGV[2])
	local expires_ms = tonumber(ARGV[3])
	local ttl_ms = expires_ms - now_ms

	local all = redis.call('HGETALL', key)
	for i = 1, #all, 2 do
		local owner, exp = string.match(all[i + 1], '^(.-)|(%d+)$')
		if exp == nil or tonumber(exp) <= now_ms then
			redis.call('HDEL', key, all[i])
		end
	end

	local conflicts = {}
	for i = 4, #ARGV do
		local v = redis.call('HGET', key, ARGV[i])
		if v then
			local owner = string.match(v, '^(.-)|')
			if owner ~= user then
				table.insert(conflicts, ARGV[i])
			end
		end
	end
	if #conflicts > 0 then
		return conflicts
	end

	for i = 4, #ARGV do
		redis.call('HSET', key, ARGV[i], user .. '|' .. expires_ms)
	end
	if redis.call('PTTL', key) < ttl_ms then
		redis.call('PEXPIRE', key, ttl_ms)
	end
	return {}
`)

var releaseScript = redis.NewScript(`
	local key = KEYS[1]
	local user = ARGV[1]
	local released = 0

	local function drop(seat, v)
		if v and string.match(v, '^(.-)|') == user then
			redis.call('HDEL', key, seat)
			released = released + 1
		end
	end

	if #ARGV == 1 then
		local all = redis.call('HGETALL', key)
		for i = 1, #all, 2 do
			drop(all[i], all[i + 1])
		end
	else
		for i = 2, #ARGV do
			drop(ARGV[i], redis.call('HGET', key, ARGV[i]))
		end
	end
	return released
`)

type redisLocker struct {
	rdb *redis.Client
	log *zap.Logger
	now func() time.Time
}

// NewRedisLocker shares holds between every instance using the same Redis.
// now may be nil.
func NewRedisLocker(rdb *redis.Client, log *zap.Logger, now func() time.Time) Locker {
	if now == nil {
		now = time.Now
	}
	return &redisLocker{
		rdb: rdb,
		log: log.With(zap.String("locker", "redis")),
		now: now,
	}
}

func holdsKey(showtimeID uuid.UUID) string {
	return "cookmyshow:holds:" + showtimeID.String()
}

func (r *redisLocker) Hold(ctx context.Context, showtimeID, userID uuid.UUID, seats []string, ttl time.Duration) error {
	if len(seats) == 0 {
		return nil
	}

	now := r.now()
	args := make([]interface{}, 0, len(seats)+3)
	args = append(args, userID.String(), now.UnixMilli(), now.Add(ttl).UnixMilli())
	for _, seat := range seats {
		args = append(args, seat)
	}

	conflicts, err := holdScript.Run(ctx, r.rdb, []string{holdsKey(showtimeID)}, args...).StringSlice()
	if err != nil {
		r.log.Error("Failed to hold seats",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return fmt.Errorf("hold seats for showtime %s: %w", showtimeID, err)
	}
	if len(conflicts) > 0 {
		return &HeldError{Seats: conflicts}
	}
	return nil
}

func (r *redisLocker) Release(ctx context.Context, showtimeID, userID uuid.UUID, seats []string) error {
	args := make([]interface{}, 0, len(seats)+1)
	args = append(args, userID.String())
	for _, seat := range seats {
		args = append(args, seat)
	}

	if err := releaseScript.Run(ctx, r.rdb, []string{holdsKey(showtimeID)}, args...).Err(); err != nil {
		r.log.Error("Failed to release seats",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return fmt.Errorf("release seats for showtime %s: %w", showtimeID, err)
	}
	return nil
}

func (r *redisLocker) Holders(ctx context.Context, showtimeID uuid.UUID) (map[string]Hold, error) {
	all, err := r.rdb.HGetAll(ctx, holdsKey(showtimeID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list holds for showtime %s: %w", showtimeID, err)
	}

	now := r.now()
	out := make(map[string]Hold, len(all))
	for seat, v := range all {
		h, ok := parseHold(v)
		if !ok {
			r.log.Warn("Skipping malformed hold", zap.String("seat", seat), zap.String("value", v))
			continue
		}
		if h.ExpiresAt.After(now) {
			out[seat] = h
		}
	}
	return out, nil
}

func parseHold(v string) (Hold, bool) {
	owner, exp, ok := strings.Cut(v, "|")
	if !ok {
		return Hold{}, false
	}
	userID, err := uuid.Parse(owner)
	if err != nil {
		return Hold{}, false
	}
	ms, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return Hold{}, false
	}
	return Hold{UserID: userID, ExpiresAt: time.UnixMilli(ms)}, true
}
