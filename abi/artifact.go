package abi

import (
	"hlc/internal/errors"
)

// Artifact is an owned output buffer crossing the call surface: emitted
// assembly text, an object blob, or a module dump. Ownership transfers to
// the caller, who must release it exactly once through Release. There is no
// paired allocator to match; one type, one release operation.
type Artifact struct {
	data     []byte
	released bool
}

func newArtifact(data []byte) *Artifact {
	return &Artifact{data: data}
}

// Bytes returns the artifact contents, or nil after release.
func (a *Artifact) Bytes() []byte {
	if a.released {
		return nil
	}
	return a.data
}

// Text returns the artifact contents as a string, or "" after release.
func (a *Artifact) Text() string {
	return string(a.Bytes())
}

// Len returns the content length in bytes, or 0 after release.
func (a *Artifact) Len() int {
	if a.released {
		return 0
	}
	return len(a.data)
}

// Release frees the artifact. Releasing twice is an error.
func (a *Artifact) Release() error {
	if a.released {
		return errors.New(errors.KindDestroyed, errors.ErrorArtifactReleased,
			"artifact already released")
	}
	a.released = true
	a.data = nil
	return nil
}
