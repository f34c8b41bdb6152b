// Package artifact persists workflow step outputs as immutable,
// content-addressed objects and hands back references that are safe to embed
// in workflow state. Workflow state never carries raw payloads, only
// verifiable references.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/GoCodeAlone/runstore/digest"
)

// Store wraps an object-storage backend with the path convention, digest
// computation on write and digest verification on read. It holds no caches
// and performs no internal retries; failures are visible to the caller's own
// retry policy, which belongs to the orchestration layer. Safe for
// concurrent use.
type Store struct {
	backend Backend
	logger  *slog.Logger
	metrics *Metrics

	mu          sync.Mutex
	bucketReady bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger attaches a structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithMetrics attaches Prometheus counters for store operations.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// NewStore creates a Store over the given backend.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ensureBucket creates the backing bucket on first use. A failed attempt is
// retried on the next call rather than cached.
func (s *Store) ensureBucket(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucketReady {
		return nil
	}
	if err := s.backend.EnsureBucket(ctx); err != nil {
		return err
	}
	s.bucketReady = true
	return nil
}

// Put writes content at path and returns its reference. The digest and size
// are computed from the exact bytes passed. Overwriting an existing object
// is allowed; the backend's atomic write guarantees readers see either the
// old or the new object, never a mix.
func (s *Store) Put(ctx context.Context, content []byte, path, contentType string) (Ref, error) {
	if _, _, _, _, err := ParsePath(path); err != nil {
		return Ref{}, err
	}
	if contentType == "" {
		contentType = DefaultContentType
	}
	if err := s.ensureBucket(ctx); err != nil {
		return Ref{}, s.fail("put", path, err)
	}

	d := digest.Bytes(content)
	if err := s.backend.Put(ctx, path, content, contentType); err != nil {
		return Ref{}, s.fail("put", path, err)
	}

	ref := Ref{
		Path:        path,
		Digest:      d,
		ContentType: contentType,
		SizeBytes:   int64(len(content)),
		CreatedAt:   time.Now().UTC(),
	}
	s.metrics.observe("put", "ok")
	s.metrics.addBytes("put", len(content))
	s.logger.Debug("artifact stored", "path", path, "digest", d, "size", ref.SizeBytes)
	return ref, nil
}

// Get fetches the bytes for ref and verifies their digest against
// ref.Digest. An integrity failure is fatal for this artifact, not
// retryable: it means the backend returned different bytes than were
// written.
func (s *Store) Get(ctx context.Context, ref Ref) ([]byte, error) {
	data, err := s.GetPath(ctx, ref.Path)
	if err != nil {
		return nil, err
	}
	if got := digest.Bytes(data); got != ref.Digest {
		s.metrics.integrityFailure()
		s.logger.Error("artifact integrity check failed",
			"path", ref.Path, "expected", ref.Digest, "actual", got)
		return nil, &IntegrityError{Path: ref.Path, Want: ref.Digest, Got: got}
	}
	return data, nil
}

// GetPath reads an object by path without digest verification, for callers
// that hold a path but not a full reference (checkpoint loads, mirror sync,
// audit tooling).
func (s *Store) GetPath(ctx context.Context, path string) ([]byte, error) {
	if _, _, _, _, err := ParsePath(path); err != nil {
		return nil, err
	}
	data, err := s.backend.Get(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.observe("get", "not_found")
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, s.fail("get", path, err)
	}
	s.metrics.observe("get", "ok")
	s.metrics.addBytes("get", len(data))
	return data, nil
}

// Verify re-reads the object and checks its digest without returning the
// body. For audit tooling.
func (s *Store) Verify(ctx context.Context, ref Ref) error {
	_, err := s.Get(ctx, ref)
	return err
}

// Exists is a cheap idempotency probe: the object is present and its size
// matches the reference. It does not read the body, so it cannot detect
// same-size corruption; Get and Verify do.
func (s *Store) Exists(ctx context.Context, ref Ref) (bool, error) {
	info, err := s.backend.Stat(ctx, ref.Path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, s.fail("stat", ref.Path, err)
	}
	return info.Size == ref.SizeBytes, nil
}

// ExistsPath reports whether any object is present at path, regardless of
// size or content.
func (s *Store) ExistsPath(ctx context.Context, path string) (bool, error) {
	_, err := s.backend.Stat(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, s.fail("stat", path, err)
	}
	return true, nil
}

// Delete removes the artifact. Deleting an absent artifact is a no-op.
func (s *Store) Delete(ctx context.Context, ref Ref) error {
	return s.DeletePath(ctx, ref.Path)
}

// DeletePath removes the object at path. Idempotent.
func (s *Store) DeletePath(ctx context.Context, path string) error {
	if err := s.backend.Delete(ctx, path); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return s.fail("delete", path, err)
	}
	s.metrics.observe("delete", "ok")
	return nil
}

// ListRun returns every object key under the run's prefix, for auditing and
// bulk purge.
func (s *Store) ListRun(ctx context.Context, tenant, run string) ([]string, error) {
	prefix, err := RunPrefix(tenant, run)
	if err != nil {
		return nil, err
	}
	keys, err := s.backend.List(ctx, prefix)
	if err != nil {
		return nil, s.fail("list", prefix, err)
	}
	s.metrics.observe("list", "ok")
	return keys, nil
}

// DeleteRun purges every artifact under the run and returns how many objects
// were deleted. A failure partway through surfaces the error along with the
// count deleted so far; it is never silently swallowed.
func (s *Store) DeleteRun(ctx context.Context, tenant, run string) (int, error) {
	keys, err := s.ListRun(ctx, tenant, run)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, key := range keys {
		if err := s.backend.Delete(ctx, key); err != nil {
			return deleted, s.fail("delete", key, err)
		}
		deleted++
	}
	if deleted > 0 {
		s.logger.Info("run artifacts purged", "tenant", tenant, "run", run, "count", deleted)
	}
	return deleted, nil
}

func (s *Store) fail(op, path string, err error) error {
	s.metrics.observe(op, "error")
	return fmt.Errorf("%w: %s %s: %w", ErrStore, op, path, err)
}
