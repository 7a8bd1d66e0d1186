//go:build unix

package procinfo

import "syscall"

// Wait is the fallback used when the kernel's debug-trace facility is
// unavailable: it waits for the main pid only and produces no
// per-process records. mainStatus is the raw wait4-encoded status word,
// not WEXITSTATUS(status) — the same representation Trace's
// PTRACE_GETEVENTMSG path returns for main_exit_status, so callers apply
// syscall.WaitStatus(mainStatus).Signaled()/.Signal()/.ExitStatus()
// uniformly regardless of which path produced it. On any wait4 error
// other than EINTR, mainStatus is set to the literal sentinel -42 and the
// wait stops retrying.
func Wait(mainPid int) (mainStatus int, mainUsage syscall.Rusage, records []*Record) {
	for {
		status := syscall.WaitStatus(0)
		_, err := syscall.Wait4(mainPid, &status, 0, &mainUsage)
		if err == nil {
			return int(status), mainUsage, nil
		}
		if err != syscall.EINTR {
			return sentinelExitStatus, mainUsage, nil
		}
	}
}
