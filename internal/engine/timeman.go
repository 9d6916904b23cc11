package engine

import (
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// Mode selects what makes a search stop, per spec.md 4.1/4.6.
type Mode int

const (
	ModeDepth Mode = iota
	ModeMoveTime
	ModeNodes
	ModeGameTime
	ModeInfinite
)

// Verbosity controls which intra-search reports Start emits.
type Verbosity int

const (
	Full Verbosity = iota
	Quiet
	Silent
)

// SearchParams configures one Start command.
type SearchParams struct {
	Mode      Mode
	Depth     int           // ModeDepth: iterate up to this depth
	MoveTime  time.Duration // ModeMoveTime: fixed time for this move
	Nodes     uint64        // ModeNodes: stop once this many nodes are searched
	WTime     time.Duration // ModeGameTime: White's remaining clock
	BTime     time.Duration
	WInc      time.Duration
	BInc      time.Duration
	MovesToGo int // 0 means sudden death; spec default is 30
	Verbosity Verbosity
}

// safeguard is subtracted from the remaining clock before allocating, so
// a move's allocation never eats into the flag-fall buffer.
const safeguard = 100 * time.Millisecond

// AllocatedTime computes the time budget for this move under
// ModeGameTime, per spec.md 4.6 step 2: a plain clock/movestogo split
// with the full increment added on, and no stability-based adjustment.
// When the clock is at or below the safeguard, only 80% of the increment
// is allocated.
func AllocatedTime(p SearchParams, us board.Color) time.Duration {
	movesToGo := p.MovesToGo
	if movesToGo == 0 {
		movesToGo = 30
	}

	clock, inc := p.WTime, p.WInc
	if us == board.Black {
		clock, inc = p.BTime, p.BInc
	}

	base := clock - safeguard
	if base <= 0 {
		if inc > 0 {
			return inc * 8 / 10
		}
		return 0
	}

	return time.Duration(float64(base)*0.8/float64(movesToGo)) + inc
}

// TimeManager tracks wall-clock elapsed time against the deadline
// computed for the current search.
type TimeManager struct {
	bounded   bool
	deadline  time.Duration
	startTime time.Time
}

// NewTimeManager creates an unstarted time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Start begins timing a search against params for side us. The deadline
// already has the safeguard applied: ModeMoveTime subtracts it directly
// (spec.md 4.6's MoveTime trigger), while ModeGameTime's allocation
// formula subtracts it from the clock before splitting, so Expired
// compares against it unmodified.
func (tm *TimeManager) Start(params SearchParams, us board.Color) {
	tm.startTime = time.Now()

	switch params.Mode {
	case ModeMoveTime:
		tm.bounded = true
		tm.deadline = params.MoveTime - safeguard
		if tm.deadline < 0 {
			tm.deadline = 0
		}
	case ModeGameTime:
		tm.bounded = true
		tm.deadline = AllocatedTime(params, us)
	default:
		tm.bounded = false // Depth/Nodes/Infinite are bounded by other means
	}
}

// Elapsed returns the time since Start.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Expired reports whether elapsed time has crossed the deadline. A
// zero-duration GameTime deadline (no time left, no increment) expires
// immediately, rather than being treated as unbounded.
func (tm *TimeManager) Expired() bool {
	if !tm.bounded {
		return false
	}
	return tm.Elapsed() >= tm.deadline
}
