// Package results persists the serverless summary document to a JSON file,
// Redis or the object store. Sinks can be combined.
package results

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no document is stored under a key
var ErrNotFound = errors.New("result document not found")

// Sink stores a JSON document under a logical key
type Sink interface {
	Name() string
	Save(ctx context.Context, key string, doc []byte) error
}

// BlobPutter is the part of the object store a BlobSink needs
type BlobPutter interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// StagedSink writes in two steps. A staged document only becomes visible on
// Commit, so it can be dropped when another sink fails.
type StagedSink interface {
	Sink
	Stage(ctx context.Context, key string, doc []byte) error
	Commit() error
	Discard() error
}

// FileSink writes the document to a single file, ignoring the key
type FileSink struct {
	Path string
}

func (s *FileSink) Name() string { return "file" }

// Save writes the document atomically
func (s *FileSink) Save(ctx context.Context, key string, doc []byte) error {
	if err := s.Stage(ctx, key, doc); err != nil {
		return err
	}
	return s.Commit()
}

// Stage writes the document next to Path
func (s *FileSink) Stage(ctx context.Context, key string, doc []byte) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(s.tmpPath(), doc, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	return nil
}

// Commit moves the staged document into place
func (s *FileSink) Commit() error {
	if err := os.Rename(s.tmpPath(), s.Path); err != nil {
		return fmt.Errorf("failed to publish %s: %w", s.Path, err)
	}
	return nil
}

// Discard removes the staged document
func (s *FileSink) Discard() error {
	if err := os.Remove(s.tmpPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileSink) tmpPath() string { return s.Path + ".tmp" }

// RedisSink stores the document as a string value
type RedisSink struct {
	Client *redis.Client
	TTL    time.Duration // 0 keeps the key forever
}

// NewRedisSink connects to Redis at addr
func NewRedisSink(addr string, ttl time.Duration) *RedisSink {
	return &RedisSink{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		TTL:    ttl,
	}
}

func (s *RedisSink) Name() string { return "redis" }

// Save sets key to the document
func (s *RedisSink) Save(ctx context.Context, key string, doc []byte) error {
	if err := s.Client.Set(ctx, key, doc, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store %s in redis: %w", key, err)
	}
	return nil
}

// load fetches a stored document
func (s *RedisSink) load(ctx context.Context, key string) ([]byte, error) {
	doc, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	return doc, nil
}

// Close releases the connection pool
func (s *RedisSink) Close() error {
	return s.Client.Close()
}

// BlobSink writes the document back into the object store
type BlobSink struct {
	Store BlobPutter
}

func (s *BlobSink) Name() string { return "blob" }

// Save puts the document under key
func (s *BlobSink) Save(ctx context.Context, key string, doc []byte) error {
	return s.Store.Put(ctx, key, doc, "application/json")
}
