package artifact

import (
	"fmt"
	"strings"
	"time"
)

const (
	// PathPrefix roots every artifact key, so buckets can be shared with
	// other object families without collisions.
	PathPrefix = "storage"

	// DefaultFilename is the conventional name for a step's primary output.
	DefaultFilename = "output.json"

	// DefaultContentType applies when a caller does not specify one.
	DefaultContentType = "application/json"
)

// Ref is the only artifact representation allowed to cross into workflow
// state: a path, the digest of the exact bytes stored there, and enough
// metadata to verify a later read. Never the payload itself.
type Ref struct {
	Path        string    `json:"path"`
	Digest      string    `json:"digest"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Tenant returns the tenant segment of the reference path.
func (r Ref) Tenant() (string, error) {
	tenant, _, _, _, err := ParsePath(r.Path)
	return tenant, err
}

// Run returns the run segment of the reference path.
func (r Ref) Run() (string, error) {
	_, run, _, _, err := ParsePath(r.Path)
	return run, err
}

// Step returns the step segment of the reference path.
func (r Ref) Step() (string, error) {
	_, _, step, _, err := ParsePath(r.Path)
	return step, err
}

// BuildPath composes the storage key for a step artifact:
// storage/{tenant}/{run}/{step}/{filename}. An empty filename selects
// DefaultFilename. The convention relies on fixed-position '/'-splitting for
// the inverse, so segments must be non-empty and must not contain '/' or
// '..'.
func BuildPath(tenant, run, step, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	if err := checkSegment("tenant", tenant); err != nil {
		return "", err
	}
	if err := checkSegment("run", run); err != nil {
		return "", err
	}
	if err := checkSegment("step", step); err != nil {
		return "", err
	}
	if err := checkSegment("filename", filename); err != nil {
		return "", err
	}
	return strings.Join([]string{PathPrefix, tenant, run, step, filename}, "/"), nil
}

// RunPrefix returns the listing prefix covering every artifact in a run.
func RunPrefix(tenant, run string) (string, error) {
	if err := checkSegment("tenant", tenant); err != nil {
		return "", err
	}
	if err := checkSegment("run", run); err != nil {
		return "", err
	}
	return PathPrefix + "/" + tenant + "/" + run + "/", nil
}

// StepPrefix returns the listing prefix covering every artifact in a step.
func StepPrefix(tenant, run, step string) (string, error) {
	if err := checkSegment("step", step); err != nil {
		return "", err
	}
	prefix, err := RunPrefix(tenant, run)
	if err != nil {
		return "", err
	}
	return prefix + step + "/", nil
}

// ParsePath recovers (tenant, run, step, filename) from a storage key by
// fixed positional split. A malformed path is a caller bug, surfaced as
// ErrInvalidPath rather than silently defaulted.
func ParsePath(p string) (tenant, run, step, filename string, err error) {
	parts := strings.Split(p, "/")
	if len(parts) != 5 || parts[0] != PathPrefix {
		return "", "", "", "", fmt.Errorf("%w: %q: want %s/{tenant}/{run}/{step}/{filename}", ErrInvalidPath, p, PathPrefix)
	}
	for _, part := range parts[1:] {
		if part == "" {
			return "", "", "", "", fmt.Errorf("%w: %q: empty segment", ErrInvalidPath, p)
		}
		if strings.Contains(part, "..") {
			return "", "", "", "", fmt.Errorf("%w: %q: segment contains '..'", ErrInvalidPath, p)
		}
	}
	return parts[1], parts[2], parts[3], parts[4], nil
}

func checkSegment(name, val string) error {
	if val == "" {
		return fmt.Errorf("%w: empty %s", ErrInvalidPath, name)
	}
	if strings.Contains(val, "/") {
		return fmt.Errorf("%w: %s %q contains '/'", ErrInvalidPath, name, val)
	}
	if strings.Contains(val, "..") {
		return fmt.Errorf("%w: %s %q contains '..'", ErrInvalidPath, name, val)
	}
	return nil
}
