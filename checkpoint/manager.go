// Package checkpoint layers phase-scoped, idempotent intermediate state on
// top of the artifact store, so a retried workflow step can resume without
// re-doing completed work. A checkpoint records only a completed, valid
// snapshot; in-progress tracking belongs to the orchestration engine.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GoCodeAlone/runstore/artifact"
	"github.com/GoCodeAlone/runstore/digest"
)

// filePrefix namespaces checkpoint objects within a step, so a bulk clear
// can pick them out of a run listing without touching step outputs.
const filePrefix = "checkpoint_"

// Metadata records who wrote a checkpoint and what input produced it.
type Metadata struct {
	Phase       string    `json:"phase"`
	CreatedAt   time.Time `json:"created_at"`
	InputDigest string    `json:"input_digest,omitempty"`
	StepID      string    `json:"step_id"`
}

// document is the on-disk checkpoint shape.
type document struct {
	Metadata Metadata       `json:"_metadata"`
	Data     map[string]any `json:"data"`
}

// Manager stores and retrieves checkpoints through an artifact store. It
// holds no state beyond the store handle and is safe for concurrent use.
type Manager struct {
	store *artifact.Store
}

// NewManager creates a Manager over the given store.
func NewManager(store *artifact.Store) *Manager {
	return &Manager{store: store}
}

// Path predicts where a phase's checkpoint lives without touching storage.
func (m *Manager) Path(tenant, run, step, phase string) (string, error) {
	if err := checkPhase(phase); err != nil {
		return "", err
	}
	return artifact.BuildPath(tenant, run, step, filePrefix+phase+".json")
}

// ComputeDigest hashes v through canonical JSON. Callers derive the input
// digest they pass to Save and Load with this, so both sides agree on what
// "same input" means.
func (m *Manager) ComputeDigest(v any) (string, error) {
	return digest.Canonical(v)
}

// Save persists data as this phase's checkpoint and returns the artifact
// path. inputDigest is the digest of whatever inputs produced data; empty
// means the checkpoint is never considered stale. Save either fully
// succeeds or leaves the prior checkpoint state untouched — the backend's
// put is a single atomic object write.
func (m *Manager) Save(ctx context.Context, tenant, run, step, phase string, data map[string]any, inputDigest string) (string, error) {
	path, err := m.Path(tenant, run, step, phase)
	if err != nil {
		return "", err
	}

	doc := document{
		Metadata: Metadata{
			Phase:       phase,
			CreatedAt:   time.Now().UTC(),
			InputDigest: inputDigest,
			StepID:      step,
		},
		Data: data,
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode checkpoint %q: %w", phase, err)
	}

	if _, err := m.store.Put(ctx, payload, path, artifact.DefaultContentType); err != nil {
		return "", err
	}
	return path, nil
}

// Load returns the checkpoint's data, or absent (false) when there is no
// checkpoint, the stored document is unparsable, or its recorded input
// digest disagrees with the supplied non-empty one. A corrupt or stale
// checkpoint never blocks progress; it only forces recomputation.
func (m *Manager) Load(ctx context.Context, tenant, run, step, phase, inputDigest string) (map[string]any, bool, error) {
	path, err := m.Path(tenant, run, step, phase)
	if err != nil {
		return nil, false, err
	}

	payload, err := m.store.GetPath(ctx, path)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		// An unparsable checkpoint reads as absent.
		return nil, false, nil
	}

	if inputDigest != "" && doc.Metadata.InputDigest != "" && doc.Metadata.InputDigest != inputDigest {
		// Stale: saved under different inputs.
		return nil, false, nil
	}
	return doc.Data, true, nil
}

// Exists reports whether a checkpoint is present for the phase. No digest
// comparison; for control-flow gating only.
func (m *Manager) Exists(ctx context.Context, tenant, run, step, phase string) (bool, error) {
	path, err := m.Path(tenant, run, step, phase)
	if err != nil {
		return false, err
	}
	return m.store.ExistsPath(ctx, path)
}

// Clear removes one phase's checkpoint. Clearing an absent phase is a
// no-op.
func (m *Manager) Clear(ctx context.Context, tenant, run, step, phase string) error {
	path, err := m.Path(tenant, run, step, phase)
	if err != nil {
		return err
	}
	return m.store.DeletePath(ctx, path)
}

// ClearStep removes every checkpoint under the step, forcing full
// re-execution after a code or prompt change. Step outputs that are not
// checkpoints are left in place.
func (m *Manager) ClearStep(ctx context.Context, tenant, run, step string) error {
	stepPrefix, err := artifact.StepPrefix(tenant, run, step)
	if err != nil {
		return err
	}
	keys, err := m.store.ListRun(ctx, tenant, run)
	if err != nil {
		return err
	}
	for _, key := range keys {
		name, ok := strings.CutPrefix(key, stepPrefix)
		if !ok || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		if err := m.store.DeletePath(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func checkPhase(phase string) error {
	if phase == "" {
		return fmt.Errorf("%w: empty phase", artifact.ErrInvalidPath)
	}
	if strings.Contains(phase, "/") {
		return fmt.Errorf("%w: phase %q contains '/'", artifact.ErrInvalidPath, phase)
	}
	return nil
}
