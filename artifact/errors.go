package artifact

import (
	"errors"
	"fmt"
)

// Sentinel errors for store operations. ErrNotFound is an expected branch
// for callers probing for prior output; ErrInvalidPath is a caller contract
// violation; everything else from the backend wraps ErrStore.
var (
	ErrNotFound    = errors.New("artifact not found")
	ErrInvalidPath = errors.New("invalid artifact path")
	ErrStore       = errors.New("artifact store error")
)

// IntegrityError reports a digest mismatch between a reference and the bytes
// actually read from the backend. Not recoverable by retrying the read; it
// indicates backend corruption or a digest-computation bug.
type IntegrityError struct {
	Path string
	Want string
	Got  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("artifact %s failed integrity check: digest %s, expected %s", e.Path, e.Got, e.Want)
}
