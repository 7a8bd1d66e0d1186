package procinfo

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// EmitXML writes one self-closing <proc .../> element per record whose
// Tgid equals its Pid — non-leader threads of multithreaded programs are
// suppressed — in first-seen order, indented by indent spaces, to w.
// Attribute order matches the §6.2 wire contract exactly.
func EmitXML(w io.Writer, indent int, records []*Record) error {
	pad := strings.Repeat(" ", indent)
	for _, r := range records {
		if r.Tgid != r.Pid {
			continue
		}
		line := fmt.Sprintf(
			"%s<proc ppid=\"%d\" pid=\"%d\" exe=\"%s\" start=\"%s\" stop=\"%s\" utime=\"%.2f\" stime=\"%.2f\" "+
				"vmpeak=\"%d\" rsspeak=\"%d\" rchar=\"%d\" wchar=\"%d\" "+
				"rbytes=\"%d\" wbytes=\"%d\" cwbytes=\"%d\" syscr=\"%d\" syscw=\"%d\"/>\n",
			pad, r.Ppid, r.Pid, r.Exe,
			formatDouble(r.Start), formatDouble(r.Stop), r.Utime, r.Stime,
			r.VMPeak, r.RSSPeak, r.RChar, r.WChar,
			r.ReadBytes, r.WriteBytes, r.CancelledWriteBytes, r.SyscR, r.SyscW,
		)
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("procinfo: emit pid %d: %w", r.Pid, err)
		}
	}
	return nil
}

// formatDouble renders a timestamp at full precision as the shortest
// decimal that round-trips, with no fixed number of decimals (10 renders
// as "10", 12.25 as "12.25").
func formatDouble(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
