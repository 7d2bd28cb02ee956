package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/JBcollo2/pulse-sub002/internal/api/metrics"
	"github.com/JBcollo2/pulse-sub002/internal/core/domain"
	"github.com/JBcollo2/pulse-sub002/internal/core/ports"
)

const defaultConnectTimeout = 5 * time.Second

// RedisConfig captures the settings for establishing the Redis connection.
type RedisConfig struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisChannel broadcasts auth signals across processes over Redis pub/sub.
// It replaces the transient storage-marker scheme of the browser client with
// a real broadcast channel: signals are JSON-encoded, fan out to every
// subscribed process, and are never persisted.
type RedisChannel struct {
	client  *redis.Client
	channel string
	log     zerolog.Logger
}

// NewRedisChannel wraps an established client. channel is the pub/sub topic
// shared by all agent processes of one installation.
func NewRedisChannel(client *redis.Client, channel string, log zerolog.Logger) *RedisChannel {
	return &RedisChannel{client: client, channel: channel, log: log}
}

// Publish sends the signal to every subscribed process, including this one;
// receivers filter on Origin.
func (r *RedisChannel) Publish(ctx context.Context, sig domain.AuthSignal) error {
	payload, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("marshal auth signal: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish auth signal: %w", err)
	}
	metrics.BroadcastSignalsTotal.WithLabelValues(string(sig.Action), "published").Inc()
	return nil
}

// Subscribe consumes signals until cancel is called or ctx is done.
// Undecodable messages are logged and skipped.
func (r *RedisChannel) Subscribe(ctx context.Context, h ports.SignalHandler) (func(), error) {
	ps := r.client.Subscribe(ctx, r.channel)

	// Force the subscription to be established before returning so a
	// publish immediately after Subscribe is not lost.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	go func() {
		for msg := range ps.Channel() {
			var sig domain.AuthSignal
			if err := json.Unmarshal([]byte(msg.Payload), &sig); err != nil {
				r.log.Warn().Err(err).Str("channel", r.channel).Msg("undecodable auth signal skipped")
				continue
			}
			h(sig)
		}
	}()

	cancel := func() { _ = ps.Close() }
	return cancel, nil
}

var _ ports.Broadcaster = (*RedisChannel)(nil)
var _ ports.Broadcaster = (*MemoryBus)(nil)
