package builder

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Assembly and lifecycle errors. They are returned wrapped; test with errors.Is.
var (
	// ErrUnbalanced means the marker log does not describe a properly nested tree.
	ErrUnbalanced = errors.New("unbalanced tree: most probably caused by unbalanced markers; " +
		"enable debug mode to identify the exact location of the problem")

	// ErrTokensNotInserted means the parser stopped before the end of input.
	ErrTokensNotInserted = errors.New("tokens were not inserted into the tree")

	// ErrTooDeep means the new tree exceeds the depth limit, so an incremental
	// merge is skipped and a full build is required.
	ErrTooDeep = errors.New("tree depth limit exceeded")

	// ErrBuilderSpent is returned once TreeBuilt, Merge or Release has run.
	ErrBuilderSpent = errors.New("builder already produced its tree")

	// ErrNoLazyDefinition is reported when a lazy token has no definition to parse it.
	ErrNoLazyDefinition = errors.New("no definition for lazy element type")

	// ErrUsage is wrapped by every UsageError.
	ErrUsage = errors.New("builder usage error")

	// ErrStaleMarker is wrapped by the UsageError raised for a recycled marker handle.
	ErrStaleMarker = errors.New("stale marker handle")
)

const maxStackDepth = 32

// UsageError reports a parser bug detected by the builder: closing a marker
// twice, closing out of order, or using a marker that is no longer in the log.
// The builder panics with a *UsageError after logging it.
type UsageError struct {
	Message string

	// Allocated is where the offending marker was created, in debug mode.
	Allocated []uintptr

	// Conflicting is where the other marker involved was created, if any.
	Conflicting []uintptr

	cause error
}

func (e *UsageError) Error() string {
	return "builder usage: " + e.Message
}

// Unwrap returns ErrStaleMarker for stale handles and ErrUsage otherwise.
func (e *UsageError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return ErrUsage
}

// Is makes every UsageError match ErrUsage.
func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// Stacks renders the recorded allocation stacks.
func (e *UsageError) Stacks() string {
	var sb strings.Builder
	writeStack(&sb, "marker created at", e.Allocated)
	writeStack(&sb, "conflicting marker created at", e.Conflicting)
	return sb.String()
}

func writeStack(sb *strings.Builder, title string, pcs []uintptr) {
	if len(pcs) == 0 {
		return
	}
	sb.WriteString(title)
	sb.WriteString(":\n")
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(sb, "\t%s\n\t\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
}

func captureStack() []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	// Skip runtime.Callers, captureStack, the allocator and Mark/Precede.
	n := runtime.Callers(4, pcs)
	return pcs[:n]
}
