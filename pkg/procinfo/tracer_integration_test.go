//go:build linux_integration

package procinfo

import (
	"os/exec"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobgraph/taskproto/internal/config"
	"github.com/jobgraph/taskproto/internal/obslog"
)

// Test_Tracer_WiredThroughConfigAndLogging exercises the path a real
// worker process takes at startup: load runtime config, set the log
// level from it, then point the tracer at the configured /proc root.
func Test_Tracer_WiredThroughConfigAndLogging(t *testing.T) {
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, obslog.Init(cfg.LogLevel))

	tracer, err := NewTracer(cfg.ProcRoot)
	require.NoError(t, err)
	defer tracer.Close()

	cmd := exec.Command("true")
	status, _, records, err := tracer.Start(cmd)
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	require.NotEmpty(t, records)
	assert.Equal(t, cmd.Process.Pid, records[0].Pid)
}

// Test_Tracer_ForkTree spawns a shell that forks two subshells (exiting 0
// and 3 respectively) before itself exiting 7, exercising spec.md §8
// scenario 5: a multi-process tree, first-seen emission order, and a
// main exit status independent of any child's own exit code.
func Test_Tracer_ForkTree(t *testing.T) {
	tracer, err := NewTracer("/proc")
	require.NoError(t, err)
	defer tracer.Close()

	cmd := exec.Command("sh", "-c", "(exit 0) & (exit 3) & wait; exit 7")
	mainStatus, _, records, err := tracer.Start(cmd)
	require.NoError(t, err)

	assert.Equal(t, 7, syscall.WaitStatus(mainStatus).ExitStatus())

	require.Len(t, records, 3, "main shell plus its two forked subshells")
	assert.Equal(t, cmd.Process.Pid, records[0].Pid, "main pid is traced first")

	seen := map[int]bool{}
	for _, r := range records {
		assert.False(t, seen[r.Pid], "duplicate pid %d", r.Pid)
		seen[r.Pid] = true
		assert.Equal(t, r.Pid, r.Tgid, "single-threaded child is its own thread group leader")
		assert.LessOrEqual(t, r.Start, r.Stop)
	}
}

// Test_Tracer_SignalDeath spawns a shell that sends itself SIGSEGV,
// exercising spec.md §8 scenario 6: the main exit status recovered via
// PTRACE_GETEVENTMSG decodes the killing signal, not a plain exit code.
func Test_Tracer_SignalDeath(t *testing.T) {
	tracer, err := NewTracer("/proc")
	require.NoError(t, err)
	defer tracer.Close()

	cmd := exec.Command("sh", "-c", "kill -SEGV $$; sleep 5")
	mainStatus, _, records, err := tracer.Start(cmd)
	require.NoError(t, err)

	waitStatus := syscall.WaitStatus(mainStatus)
	require.True(t, waitStatus.Signaled(), "main process should have died from a signal")
	assert.Equal(t, syscall.SIGSEGV, waitStatus.Signal())
	require.NotEmpty(t, records)
	assert.Equal(t, cmd.Process.Pid, records[0].Pid)
}
