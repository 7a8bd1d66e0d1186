// Package procinfo traces a launched process and every fork/vfork/clone
// descendant it spawns, harvesting /proc-derived resource usage at each
// process's exit and emitting one <proc> record per thread-group leader.
package procinfo

// Record holds everything observed about one traced process id. Records
// are created lazily, the first time a pid is seen; all numeric fields
// default to zero and Exe defaults to empty until harvested. Start is set
// exactly once, at creation; Stop is set at most once, when the pre-exit
// trap for this pid arrives.
type Record struct {
	Pid  int
	Ppid int
	Tgid int

	Exe string

	Start float64 // wall-clock seconds at first-seen
	Stop  float64 // wall-clock seconds at pre-exit trap, zero if never harvested

	Utime float64 // seconds
	Stime float64 // seconds

	VMPeak  int // kB
	RSSPeak int // kB

	RChar uint64
	WChar uint64

	SyscR uint64
	SyscW uint64

	ReadBytes           uint64
	WriteBytes          uint64
	CancelledWriteBytes uint64
}

// sequence is an insertion-ordered collection of Records keyed uniquely
// by pid. A slice keeps first-seen order and a pid-keyed map gives O(1)
// lookup; together they are equivalent to an insertion-ordered
// doubly-linked list for every observable behavior here.
type sequence struct {
	order []*Record
	byPid map[int]*Record
}

func newSequence() *sequence {
	return &sequence{byPid: make(map[int]*Record)}
}

// lookup returns the existing record for pid, or nil.
func (s *sequence) lookup(pid int) *Record {
	return s.byPid[pid]
}

// add creates and inserts a new record for pid, first-seen order.
func (s *sequence) add(pid int) *Record {
	r := &Record{Pid: pid}
	s.byPid[pid] = r
	s.order = append(s.order, r)
	return r
}

// all returns every record in first-seen order.
func (s *sequence) all() []*Record {
	return s.order
}
