package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"math/rand"

	"github.com/redis/go-redis/v9"

	"tnu/pricetracker/internal/domain"
)

// RedisPublisher implements Publisher using Redis streams.
type RedisPublisher struct {
	client          *redis.Client
	ctx             context.Context
	streamPrefix    string
	streamCount     int
	streamMaxLength int
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a new Redis publisher. A stream count below one
// is raised to one.
func NewRedisPublisher(ctx context.Context, addr string, db int, streamPrefix string, streamCount int, streamMaxLength int) *RedisPublisher {
	if streamCount < 1 {
		streamCount = 1
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		ctx:             ctx,
		streamPrefix:    streamPrefix,
		streamCount:     streamCount,
		streamMaxLength: streamMaxLength,
	}
}

// PublishCheck appends one check to a stream, keyed by product id. The JSON
// payload is base64 encoded before publishing. Streams are sharded randomly
// across streamCount names (stream:0 ... stream:N-1) so consumers can fan
// out.
func (p *RedisPublisher) PublishCheck(check *domain.PriceCheck) error {
	payload, err := json.Marshal(check)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	stream := p.streamPrefix + ":" + strconv.Itoa(rand.Intn(p.streamCount))

	return p.client.XAdd(p.ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			check.ProductID: encoded,
		},
	}).Err()
}

// TrimStreams trims all streams to the configured maximum length
func (p *RedisPublisher) TrimStreams() error {
	pattern := p.streamPrefix + ":*"
	streams, err := p.client.Keys(p.ctx, pattern).Result()
	if err != nil {
		return err
	}

	for _, stream := range streams {
		err := p.client.XTrimMaxLen(p.ctx, stream, int64(p.streamMaxLength)).Err()
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
