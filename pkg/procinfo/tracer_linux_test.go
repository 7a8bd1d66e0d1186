//go:build linux

package procinfo

import (
	"errors"
	"os/exec"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MaskStopSignal(t *testing.T) {
	cases := []struct {
		signal syscall.Signal
		want   int
	}{
		{syscall.SIGSTOP, 0},
		{syscall.SIGTSTP, 0},
		{syscall.SIGUSR1, int(syscall.SIGUSR1)},
		{syscall.SIGTERM, int(syscall.SIGTERM)},
		{syscall.SIGCONT, int(syscall.SIGCONT)},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, maskStopSignal(c.signal))
	}
}

func Test_IsPreExitTrap(t *testing.T) {
	// Encode a SIGTRAP stop carrying PTRACE_EVENT_EXIT in the high byte,
	// matching the kernel's wait status packing: low byte 0x7f marks
	// "stopped", bits 8-15 are the stop signal, bits 16-23 are the
	// ptrace event code.
	status := syscall.WaitStatus(0x7f | (int(syscall.SIGTRAP) << 8) | (syscall.PTRACE_EVENT_EXIT << 16))
	assert.True(t, isPreExitTrap(status))

	plainTrap := syscall.WaitStatus(0x7f | (int(syscall.SIGTRAP) << 8))
	assert.False(t, isPreExitTrap(plainTrap))

	otherSignal := syscall.WaitStatus(0x7f | (int(syscall.SIGUSR1) << 8))
	assert.False(t, isPreExitTrap(otherSignal))
}

func Test_Start_RejectsNonexistentProgram(t *testing.T) {
	tracer, err := NewTracer("/proc")
	require.NoError(t, err)
	defer tracer.Close()

	cmd := exec.Command("/does/not/exist/at/all")
	_, _, _, startErr := tracer.Start(cmd)
	assert.Error(t, startErr)
	assert.False(t, errors.Is(startErr, ErrNoPtrace), "a missing binary is not a ptrace permission failure")
}
