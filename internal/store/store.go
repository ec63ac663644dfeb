package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pbaille/jobtrack/internal/domain"
	"github.com/pbaille/jobtrack/internal/logger"
	"github.com/pbaille/jobtrack/internal/metrics"
)

// ErrNotFound is returned by a Backend when the key holds no value
var ErrNotFound = errors.New("key not found")

// Backend is a durable key/value medium holding serialized documents
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Close() error
}

// Store keeps the whole tracker document under a single key.
//
// Reads are forgiving: a missing, unreadable, unparseable or malformed
// document loads as an empty one and the condition is only logged. Writes
// are not: any backend failure is returned to the caller. Concurrent
// writers to the same key are not coordinated and the last save wins.
type Store struct {
	backend Backend
	key     string
	log     logger.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for load fallbacks
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a Store over backend. A nil backend behaves like Unavailable.
func New(backend Backend, key string, opts ...Option) *Store {
	if backend == nil {
		backend = Unavailable{}
	}
	s := &Store{backend: backend, key: key, log: logger.NewNoOpLogger()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithFields(map[string]interface{}{"key": key})
	return s
}

// Key returns the storage key
func (s *Store) Key() string {
	return s.key
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}

// Load returns the stored document, or an empty one if there is nothing
// usable under the key. It never fails.
func (s *Store) Load(ctx context.Context) *domain.Document {
	data, err := s.backend.Read(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.StoreLoads.WithLabelValues("empty").Inc()
		} else {
			metrics.StoreLoads.WithLabelValues("fallback").Inc()
			s.log.WithError(err).Warn("read document failed, starting empty", nil)
		}
		return domain.NewDocument()
	}

	doc, err := decode(data)
	if err != nil {
		metrics.StoreLoads.WithLabelValues("fallback").Inc()
		s.log.WithError(err).Warn("stored document unusable, starting empty", map[string]interface{}{
			"bytes": len(data),
		})
		return domain.NewDocument()
	}

	if from, migrated := migrate(doc); migrated {
		s.log.Info("migrated document", map[string]interface{}{"from": from, "to": doc.Version})
	} else if doc.Version > domain.DocumentVersion {
		s.log.Warn("document written by a newer version, loading best effort", map[string]interface{}{
			"version": doc.Version,
		})
	}

	metrics.StoreLoads.WithLabelValues("ok").Inc()
	return doc
}

// Save serializes doc and overwrites the stored copy
func (s *Store) Save(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		doc = domain.NewDocument()
	}
	doc.Normalize()
	if doc.Version < domain.DocumentVersion {
		doc.Version = domain.DocumentVersion
	}

	data, err := json.Marshal(doc)
	if err != nil {
		metrics.StoreSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("encode document: %w", err)
	}
	if err := s.backend.Write(ctx, s.key, data); err != nil {
		metrics.StoreSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("write document: %w", err)
	}

	metrics.StoreSaves.WithLabelValues("ok").Inc()
	s.log.Debug("document saved", map[string]interface{}{"bytes": len(data)})
	return nil
}

func decode(data []byte) (*domain.Document, error) {
	if err := checkSchema(data); err != nil {
		return nil, err
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc.Normalize()
	return &doc, nil
}
