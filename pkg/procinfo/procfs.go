package procinfo

import (
	"errors"
	"fmt"
	"os"

	"github.com/kubescape/go-logger"
	"github.com/kubescape/go-logger/helpers"
	"github.com/prometheus/procfs"
)

// clockTicksPerSecond is USER_HZ, the scale /proc/<pid>/stat's utime and
// stime fields are reported in. It is 100 on every architecture Linux
// currently ships a stock kernel config for; there is no portable way to
// read sysconf(_SC_CLK_TCK) from Go without cgo, so this mirrors the
// constant node exporters in this ecosystem hardcode.
const clockTicksPerSecond = 100

// harvester reads /proc for one filesystem root, reused across every pid
// a trace observes.
type harvester struct {
	fs procfs.FS
}

func newHarvester(procRoot string) (*harvester, error) {
	fs, err := procfs.NewFS(procRoot)
	if err != nil {
		return nil, fmt.Errorf("procinfo: open %s: %w", procRoot, err)
	}
	return &harvester{fs: fs}, nil
}

// harvest fills in every /proc-sourced field of rec for the given pid.
// Per §4.3, a missing file is non-fatal and leaves the corresponding
// fields at zero; a present-but-unparseable file is logged and also left
// at zero. Nothing here fails the trace.
func (h *harvester) harvest(rec *Record, pid int) {
	proc, err := h.fs.Proc(pid)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L().Debug("procinfo: proc lookup failed", helpers.Int("pid", pid), helpers.Error(err))
		}
		return
	}

	h.harvestExe(rec, proc, pid)
	h.harvestStatus(rec, proc, pid)
	h.harvestStat(rec, proc, pid)
	h.harvestIO(rec, proc, pid)
}

func (h *harvester) harvestExe(rec *Record, proc procfs.Proc, pid int) {
	exe, err := proc.Executable()
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L().Debug("procinfo: readlink exe failed", helpers.Int("pid", pid), helpers.Error(err))
		}
		return
	}
	rec.Exe = exe
}

func (h *harvester) harvestStatus(rec *Record, proc procfs.Proc, pid int) {
	status, err := proc.NewStatus()
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L().Debug("procinfo: read status failed", helpers.Int("pid", pid), helpers.Error(err))
		}
		return
	}
	rec.Ppid = status.PPid
	rec.Tgid = status.TGID
	// procfs reports VmPeak and VmHWM in bytes; Record holds kB.
	rec.VMPeak = int(status.VmPeak / 1024)
	rec.RSSPeak = int(status.VmHWM / 1024)
}

func (h *harvester) harvestStat(rec *Record, proc procfs.Proc, pid int) {
	stat, err := proc.Stat()
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L().Debug("procinfo: read stat failed", helpers.Int("pid", pid), helpers.Error(err))
		}
		return
	}
	rec.Utime = float64(stat.UTime) / clockTicksPerSecond
	rec.Stime = float64(stat.STime) / clockTicksPerSecond
}

func (h *harvester) harvestIO(rec *Record, proc procfs.Proc, pid int) {
	io, err := proc.IO()
	if err != nil {
		// /proc/<pid>/io is absent on kernels without task IO
		// accounting, or a bare ENOENT race against process exit.
		// Either way this is non-fatal.
		if !errors.Is(err, os.ErrNotExist) && !os.IsNotExist(err) {
			logger.L().Debug("procinfo: read io failed", helpers.Int("pid", pid), helpers.Error(err))
		}
		return
	}
	rec.RChar = io.RChar
	rec.WChar = io.WChar
	rec.SyscR = io.SyscR
	rec.SyscW = io.SyscW
	rec.ReadBytes = io.ReadBytes
	rec.WriteBytes = io.WriteBytes
	rec.CancelledWriteBytes = io.CancelledWriteBytes
}
