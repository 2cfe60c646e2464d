// Package session holds the per-context state the rest of the pipeline
// runs against: the target registry, the pass catalogue, process-style
// toggles and a logger. There is deliberately no hidden global here — a
// caller creates a Session explicitly and threads it through every
// operation, and independent Sessions can coexist in one process.
package session

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"hlc/internal/passes"
	"hlc/internal/target"
	"hlc/internal/target/amdgcn"
)

// Session is one independent compilation context. It is not safe for
// concurrent use; callers must serialize operations against it.
type Session struct {
	// StripDebug removes debug metadata from a module before optimization.
	StripDebug bool
	// DisableInline empties the interprocedural slot of the pipeline.
	DisableInline bool
	// DisableLoopVectorization and DisableSLPVectorization force the
	// corresponding gates off regardless of level.
	DisableLoopVectorization bool
	DisableSLPVectorization  bool
	// DisableOptimizations forces an empty standard pipeline.
	DisableOptimizations bool
	// DisableSimplifyLibCalls is permanently set: lowering loops to system
	// library calls is not supported on this target.
	DisableSimplifyLibCalls bool
	// FatalVerify restores the historical fail-fast behavior where a module
	// failing verification before optimization aborts the process instead
	// of returning an error.
	FatalVerify bool

	log     commonlog.Logger
	targets *target.Registry
	passes  *passes.Registry
	closed  bool
}

// New creates a session and registers all available targets and the
// standard pass catalogue with it.
func New() *Session {
	s := &Session{
		DisableSimplifyLibCalls: true,
		log:                     commonlog.GetLogger("hlc"),
		targets:                 target.NewRegistry(),
		passes:                  passes.NewRegistry(),
	}
	amdgcn.Register(s.targets)
	return s
}

// Close releases the session's registries. Operations against a closed
// session fail when they next touch a registry.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.targets = nil
	s.passes = nil
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed
}

// Logger returns the session logger.
func (s *Session) Logger() commonlog.Logger {
	return s.log
}

// SetLogger replaces the session logger.
func (s *Session) SetLogger(log commonlog.Logger) {
	s.log = log
}

// Targets returns the session's target registry.
func (s *Session) Targets() *target.Registry {
	return s.targets
}

// Passes returns the session's pass catalogue.
func (s *Session) Passes() *passes.Registry {
	return s.passes
}

// SetCommandLineOptions applies tool-style flags to the session, mirroring
// the flag surface of the standalone optimizer and compiler tools. Unknown
// flags are an error.
func (s *Session) SetCommandLineOptions(args []string) error {
	for _, arg := range args {
		name := strings.TrimLeft(arg, "-")
		switch name {
		case "strip-debug":
			s.StripDebug = true
		case "disable-inline":
			s.DisableInline = true
		case "disable-loop-vectorization":
			s.DisableLoopVectorization = true
		case "disable-slp-vectorization":
			s.DisableSLPVectorization = true
		case "disable-optimizations":
			s.DisableOptimizations = true
		case "fatal-verify":
			s.FatalVerify = true
		default:
			return fmt.Errorf("unknown command line option %q", arg)
		}
	}
	return nil
}

// PipelineOptions derives the pipeline options for a given optimization and
// size level from the session toggles.
func (s *Session) PipelineOptions(optLevel, sizeLevel int, verifyEach bool) passes.Options {
	return passes.Options{
		OptLevel:                 optLevel,
		SizeLevel:                sizeLevel,
		DisableInline:            s.DisableInline,
		DisableLoopVectorization: s.DisableLoopVectorization,
		DisableSLPVectorization:  s.DisableSLPVectorization,
		DisableOptimizations:     s.DisableOptimizations,
		VerifyEach:               verifyEach,
	}
}
