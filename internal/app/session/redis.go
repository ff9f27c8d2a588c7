package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/storage"
)

// session.Manager interface implementation
var _ Manager = (*Redis)(nil)

// Redis keeps session records in Redis with a TTL equal to the token
// lifetime, so sessions survive process restarts and expiry needs no
// sweeping.
type Redis struct {
	issuer        string
	secretKey     []byte
	tokenLifetime time.Duration
	users         storage.UserRepository
	client        *redis.Client
}

func (svc *Redis) LoggerComponent() string {
	return "Session.Redis"
}

func NewRedis(secretKey string, users storage.UserRepository, client *redis.Client) *Redis {
	return &Redis{
		secretKey:     []byte(secretKey),
		users:         users,
		tokenLifetime: time.Hour,
		client:        client,
	}
}

type redisSession struct {
	StartedAt time.Time `json:"started_at"`
	UserID    uuid.UUID `json:"user_id"`
}

func redisKey(id string) string {
	return "session:" + id
}

// Create method of session.Creator implementation
func (svc *Redis) Create(ctx context.Context, u *model.User) (string, error) {
	l := logger.Get(ctx, svc)
	l.Debug().Str("user_id", u.ID.String()).Msg("Create")

	id := uuid.New().String()

	now := time.Now()
	exp := now.Add(svc.tokenLifetime)

	token, err := signToken(svc.secretKey, svc.issuer, id, now, exp)
	if err != nil {
		return "", fmt.Errorf("jwt encode: %w", err)
	}

	raw, err := json.Marshal(redisSession{StartedAt: now, UserID: u.ID})
	if err != nil {
		return "", fmt.Errorf("session encode: %w", err)
	}

	if err := svc.client.Set(ctx, redisKey(id), raw, svc.tokenLifetime).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	return token, nil
}

// Read method of session.Reader implementation
func (svc *Redis) Read(ctx context.Context, tokenString string) (*model.User, error) {
	l := logger.Get(ctx, svc)

	c, err := parseToken(svc.secretKey, tokenString)
	if err != nil {
		l.Debug().Err(err).Msg("Token parse failed")

		return nil, ErrInvalidToken
	}

	raw, err := svc.client.Get(ctx, redisKey(c.StandardClaims.Id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			l.Error().Err(err).Msg("Session fetch failed")
		}

		return nil, ErrInvalidToken
	}

	s := redisSession{}
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, ErrInvalidToken
	}

	u, err := svc.users.Read(ctx, s.UserID)
	if err != nil || !u.Active {
		l.Debug().Err(err).Msg("User lookup failed")

		return nil, ErrInvalidToken
	}

	return u, nil
}
