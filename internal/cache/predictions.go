// internal/cache/predictions.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"loan-risk-advisor/internal/common/database"
	"loan-risk-advisor/internal/common/logger"
	"loan-risk-advisor/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "prediction:"

// Predictions caches successful prediction responses keyed by a digest of
// the full application input, so an identical re-submission within the TTL
// skips the round trip to the prediction service.
type Predictions struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewPredictions(rdb *database.RedisClient, ttl time.Duration, log logger.Logger) *Predictions {
	return &Predictions{
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "prediction-cache"}),
	}
}

// Key digests the captured input. Field order is fixed by the struct, so
// equal inputs always map to equal keys.
func Key(input *models.ApplicationInput) string {
	payload, _ := json.Marshal(input)
	sum := sha256.Sum256(payload)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached response for input, if any. Cache trouble is
// reported as a miss; the caller falls through to the service.
func (p *Predictions) Get(ctx context.Context, input *models.ApplicationInput) (*models.PredictionResponse, bool) {
	raw, err := p.redis.Get(ctx, Key(input))
	if err != nil {
		if err != redis.Nil {
			p.logger.Warn("cache lookup failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var resp models.PredictionResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		p.logger.Warn("cache entry corrupt, ignoring", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return &resp, true
}

// Set stores a successful response under the input's digest. Failures are
// logged and swallowed: caching is never on the submission's critical path.
func (p *Predictions) Set(ctx context.Context, input *models.ApplicationInput, resp *models.PredictionResponse) {
	if !resp.Succeeded() {
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := p.redis.Set(ctx, Key(input), string(payload), p.ttl); err != nil {
		p.logger.Warn("cache store failed", map[string]interface{}{"error": err.Error()})
	}
}
