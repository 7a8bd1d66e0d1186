//go:build linux

package procinfo

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"syscall"
	"time"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/panjf2000/ants/v2"
)

// traceOptions are the PTRACE_SETOPTIONS flags applied to every newly
// seen pid so the tracer is notified of fork/vfork/clone (to discover
// descendants) and of the pre-exit trap (to harvest final stats before
// the kernel reaps the process).
const traceOptions = syscall.PTRACE_O_TRACEEXIT |
	syscall.PTRACE_O_TRACEFORK |
	syscall.PTRACE_O_TRACEVFORK |
	syscall.PTRACE_O_TRACECLONE

// Tracer runs the ptrace event loop described in §4.3: it follows a
// launched process and every descendant it spawns, harvesting
// /proc-derived stats for each at its pre-exit trap.
type Tracer struct {
	harvester *harvester
	pool      *ants.Pool
}

// NewTracer builds a Tracer that reads /proc under procRoot (normally
// "/proc"; overridable so tests can point it at a fixture tree).
func NewTracer(procRoot string) (*Tracer, error) {
	h, err := newHarvester(procRoot)
	if err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(2)
	if err != nil {
		return nil, fmt.Errorf("procinfo: worker pool: %w", err)
	}
	return &Tracer{harvester: h, pool: pool}, nil
}

// Close releases the tracer's worker pool.
func (t *Tracer) Close() {
	t.pool.Release()
}

// Start launches cmd under ptrace and traces its process tree to
// completion. cmd must not already have a SysProcAttr set. The returned
// records are owned by the caller; the Tracer keeps no reference to
// them once Start returns.
func (t *Tracer) Start(cmd *exec.Cmd) (mainStatus int, mainUsage syscall.Rusage, records []*Record, err error) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Ptrace: true}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if startErr := cmd.Start(); startErr != nil {
		if errors.Is(startErr, syscall.EPERM) {
			return 0, syscall.Rusage{}, nil, fmt.Errorf("procinfo: start: %w: %w", startErr, ErrNoPtrace)
		}
		return 0, syscall.Rusage{}, nil, fmt.Errorf("procinfo: start: %w", startErr)
	}

	return t.Trace(cmd.Process.Pid)
}

// Trace runs the event loop for a main pid that has already requested
// PTRACE_TRACEME (e.g. via Start, or any process launched with
// SysProcAttr{Ptrace: true}) and is therefore implicitly attached to the
// calling thread as tracer.
func (t *Tracer) Trace(mainPid int) (mainStatus int, mainUsage syscall.Rusage, records []*Record, err error) {
	seq := newSequence()

	for {
		var status syscall.WaitStatus
		var usage syscall.Rusage

		// __WALL is needed so that we can wait on threads too.
		cpid, waitErr := syscall.Wait4(-1, &status, syscall.WALL, &usage)
		if waitErr != nil {
			if waitErr == syscall.ECHILD {
				break
			}
			if waitErr == syscall.EINTR {
				continue
			}
			return 0, syscall.Rusage{}, nil, fmt.Errorf("wait4: %w: %w", waitErr, ErrTraceWaitFailure)
		}

		child := seq.lookup(cpid)
		if child == nil {
			child = seq.add(cpid)
			child.Start = nowSeconds()

			if optErr := syscall.PtraceSetOptions(cpid, traceOptions); optErr != nil {
				return 0, syscall.Rusage{}, nil, fmt.Errorf("ptrace(PTRACE_SETOPTIONS) on pid %d: %w: %w", cpid, optErr, ErrTraceSetupFailure)
			}
		}

		if status.Exited() && cpid == mainPid {
			mainUsage = usage
		}

		if !status.Stopped() {
			continue
		}

		signal := status.StopSignal()

		if signal == syscall.SIGTRAP {
			if isPreExitTrap(status) {
				t.harvestAndStamp(child, cpid)

				if cpid == mainPid {
					eventMsg, msgErr := syscall.PtraceGetEventMsg(cpid)
					if msgErr != nil {
						return 0, syscall.Rusage{}, nil, fmt.Errorf("ptrace(PTRACE_GETEVENTMSG) on pid %d: %w: %w", cpid, msgErr, ErrTraceWaitFailure)
					}
					mainStatus = int(eventMsg)
				}
			}

			if contErr := syscall.PtraceCont(cpid, 0); contErr != nil {
				return 0, syscall.Rusage{}, nil, fmt.Errorf("ptrace(PTRACE_CONT) on pid %d: %w: %w", cpid, contErr, ErrTraceWaitFailure)
			}
			continue
		}

		// Mask STOP/TSTP: under ptrace the tracer receives stop
		// signals instead of the nominal parent, so the nominal
		// parent can never issue the matching CONT. Batch jobs never
		// legitimately need suspension, so dropping these prevents
		// a deadlocked job.
		if contErr := syscall.PtraceCont(cpid, maskStopSignal(signal)); contErr != nil {
			return 0, syscall.Rusage{}, nil, fmt.Errorf("ptrace(PTRACE_CONT) on pid %d: %w: %w", cpid, contErr, ErrTraceWaitFailure)
		}
	}

	return mainStatus, mainUsage, seq.all(), nil
}

// isPreExitTrap reports whether status is a SIGTRAP stop carrying the
// PTRACE_EVENT_EXIT event code in its high byte, per §4.3 step 6.
func isPreExitTrap(status syscall.WaitStatus) bool {
	return status.StopSignal() == syscall.SIGTRAP && (int(status)>>16) == syscall.PTRACE_EVENT_EXIT
}

// maskStopSignal implements the signal-mask property from §8: STOP and
// TSTP are dropped (the child resumes with signal 0); every other signal
// is forwarded unchanged.
func maskStopSignal(signal syscall.Signal) int {
	if signal == syscall.SIGSTOP || signal == syscall.SIGTSTP {
		return 0
	}
	return int(signal)
}

func (t *Tracer) harvestAndStamp(rec *Record, pid int) {
	rec.Stop = nowSeconds()
	t.harvester.harvest(rec, pid)

	// Fan the debug log line out through the pool so the hot wait/cont
	// loop never blocks on logging I/O.
	pid, start, stop, exe := rec.Pid, rec.Start, rec.Stop, rec.Exe
	_ = t.pool.Submit(func() {
		logger.L().Debug("procinfo: harvested exit stats",
			helpers.Int("pid", pid),
			helpers.String("exe", exe),
			helpers.String("wtime", fmt.Sprintf("%.3f", stop-start)))
	})
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
