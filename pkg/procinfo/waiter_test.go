//go:build unix

package procinfo

import (
	"os/exec"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Wait_ReportsExitCode(t *testing.T) {
	cmd := exec.Command("sh", "-c", "exit 3")
	require.NoError(t, cmd.Start())

	mainStatus, _, records := Wait(cmd.Process.Pid)

	assert.Equal(t, 3, syscall.WaitStatus(mainStatus).ExitStatus())
	assert.Empty(t, records, "fallback waiter produces no per-process records")
}

func Test_Wait_ReportsSuccess(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Start())

	mainStatus, _, records := Wait(cmd.Process.Pid)

	assert.Equal(t, 0, syscall.WaitStatus(mainStatus).ExitStatus())
	assert.Empty(t, records)
}
