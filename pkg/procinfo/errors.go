package procinfo

import "errors"

var (
	// ErrTraceSetupFailure means the tracer could not attach to or
	// configure debug-trace options for a newly-seen child. Fatal to
	// the trace.
	ErrTraceSetupFailure = errors.New("procinfo: trace setup failed")

	// ErrTraceWaitFailure means the kernel wait primitive returned an
	// unexpected error. Fatal to the trace.
	ErrTraceWaitFailure = errors.New("procinfo: trace wait failed")

	// ErrNoPtrace signals that the debug-trace facility could not be
	// engaged for a child, typically EPERM under a seccomp profile or a
	// container lacking CAP_SYS_PTRACE. Tracer.Start returns it wrapped
	// when launching the child under ptrace fails with EPERM; callers that
	// see it should fall back to Wait for subsequent jobs.
	ErrNoPtrace = errors.New("procinfo: ptrace unavailable")
)

// sentinelExitStatus is returned as the main status by the fallback
// waiter when wait4 fails for a reason other than EINTR. The literal
// value -42 is preserved unchanged from the original implementation; it
// is a sentinel, not a real exit status, and is never reinterpreted.
const sentinelExitStatus = -42
