package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// TrustSnapshot is the cached view of a session's live scoring state,
// kept hot so dashboards can poll without touching the engine.
type TrustSnapshot struct {
	SessionID      string    `json:"session_id"`
	UserID         uint      `json:"user_id"`
	Progress       float64   `json:"progress"`
	TrustScore     float64   `json:"trust_score"`
	Recommendation string    `json:"recommendation"`
	RiskFlags      []string  `json:"risk_flags"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type TrustCache interface {
	Set(ctx context.Context, snap *TrustSnapshot) error
	Get(ctx context.Context, sessionID string) (*TrustSnapshot, error)
	Delete(ctx context.Context, sessionID string) error
}

type trustCache struct {
	client *redis.Client
}

func NewTrustCache(client *redis.Client) TrustCache {
	return &trustCache{
		client: client,
	}
}

func (c *trustCache) Set(ctx context.Context, snap *TrustSnapshot) error {
	if c.client == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "trust:"+snap.SessionID, data, 30*time.Minute).Err()
}

func (c *trustCache) Get(ctx context.Context, sessionID string) (*TrustSnapshot, error) {
	if c.client == nil {
		return nil, redis.Nil
	}
	data, err := c.client.Get(ctx, "trust:"+sessionID).Result()
	if err != nil {
		return nil, err
	}
	var snap TrustSnapshot
	err = json.Unmarshal([]byte(data), &snap)
	return &snap, err
}

func (c *trustCache) Delete(ctx context.Context, sessionID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, "trust:"+sessionID).Err()
}
