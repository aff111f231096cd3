package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// NATSStore implements Store on a JetStream key-value bucket that keeps only
// the latest revision of each key. Keys are kind names.
type NATSStore struct {
	conn   *nats.Conn
	kv     jetstream.KeyValue
	mu     sync.RWMutex
	closed bool
}

// OpenNATSStore connects to url and binds (or creates) bucket.
func OpenNATSStore(ctx context.Context, url, bucket string) (*NATSStore, error) {
	conn, err := nats.Connect(url, nats.Name("recipefeed-cache"))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBroker, "failed to connect to NATS").
			WithContext("url", url).
			Retryable().
			Build()
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.WrapError(err, errors.CategoryBroker, "failed to create JetStream context").Build()
	}

	kv, err := bindBucket(ctx, js, bucket)
	if err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("NATS cache store initialized", "url", url, "bucket", bucket)
	s := NewNATSStore(kv)
	s.conn = conn
	return s, nil
}

// NewNATSStore wraps an existing bucket. Close will not touch any connection.
func NewNATSStore(kv jetstream.KeyValue) *NATSStore {
	return &NATSStore{kv: kv}
}

func bindBucket(ctx context.Context, js jetstream.JetStream, bucket string) (jetstream.KeyValue, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	kv, err := js.KeyValue(ctx, bucket)
	if err == nil {
		return kv, nil
	}

	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "recipefeed offline cache",
		History:     1,
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBroker, "failed to create KV bucket").
			WithContext("bucket", bucket).
			Build()
	}
	slog.Info("Created KV bucket for offline cache", "bucket", bucket)
	return kv, nil
}

// Write puts payload under the kind's key.
func (s *NATSStore) Write(ctx context.Context, kind recipes.Kind, payload []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.kv.Put(ctx, kind.String(), payload); err != nil {
		return errors.WrapError(err, errors.CategoryCache, "failed to put cache entry").
			WithContext("kind", kind.String()).
			Retryable().
			Build()
	}
	return nil
}

// ReadAll gets the kind's key. A missing key is a miss, not an error.
func (s *NATSStore) ReadAll(ctx context.Context, kind recipes.Kind) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	entry, err := s.kv.Get(ctx, kind.String())
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return [][]byte{}, nil
		}
		return nil, errors.WrapError(err, errors.CategoryCache, "failed to get cache entry").
			WithContext("kind", kind.String()).
			Retryable().
			Build()
	}
	return [][]byte{entry.Value()}, nil
}

// Close drains the connection when the store opened it.
func (s *NATSStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn != nil {
		return s.conn.Drain()
	}
	return nil
}
