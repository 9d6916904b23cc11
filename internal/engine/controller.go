package engine

import (
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// Command is sent into the search worker on controlTx/controlRx.
type Command interface{ isCommand() }

// StartCommand begins a new search from pos using params.
type StartCommand struct {
	Pos    *board.Position
	Params SearchParams
}

// StopCommand halts the current search; the worker emits Finished for it
// and stays alive, ready for the next Start.
type StopCommand struct{}

// QuitCommand halts the current search and ends the worker loop without
// emitting Finished.
type QuitCommand struct{}

func (StartCommand) isCommand() {}
func (StopCommand) isCommand()  {}
func (QuitCommand) isCommand()  {}

// Report is sent out of the search worker on reportTx/reportRx.
type Report interface{ isReport() }

// ReadyReport announces the worker is idle and waiting for a command.
type ReadyReport struct{}

// SearchStatsReport is a throttled intra-search progress update.
type SearchStatsReport struct {
	TimeMs           int64
	Nodes            uint64
	NPS              uint64
	HashFullPermille int
}

// SearchCurrentMoveReport announces the move currently being searched at
// the root, throttled by wall-clock time.
type SearchCurrentMoveReport struct {
	Move      board.Move
	MoveIndex int
}

// SearchSummaryReport is emitted at the end of each completed iteration.
type SearchSummaryReport struct {
	Depth            int
	Seldepth         int
	TimeMs           int64
	CP               int
	Mate             int // plies to mate, 0 if CP is not a mate score
	Nodes            uint64
	NPS              uint64
	HashFullPermille int
	PV               []board.Move
}

// FinishedReport carries the best move from the deepest completed
// iteration. It is always the last report for a search, unless the
// search was ended by Quit.
type FinishedReport struct {
	BestMove board.Move
}

func (ReadyReport) isReport()             {}
func (SearchStatsReport) isReport()       {}
func (SearchCurrentMoveReport) isReport() {}
func (SearchSummaryReport) isReport()     {}
func (FinishedReport) isReport()          {}

// currentMoveThrottle bounds how often SearchCurrentMove reports fire.
const currentMoveThrottle = 1 * time.Second

// Controller owns the single search worker goroutine and the two
// channels used to drive it, per the concurrency model: the worker
// blocks on controlRx between searches, and only yields early via a
// non-blocking poll of controlRx every checkTermEvery nodes.
type Controller struct {
	controlTx chan Command
	reportRx  chan Report

	tt *TranspositionTable
}

// NewController creates a controller and starts its worker goroutine.
func NewController(tt *TranspositionTable) *Controller {
	c := &Controller{
		controlTx: make(chan Command),
		reportRx:  make(chan Report, 256),
		tt:        tt,
	}
	go c.run()
	return c
}

// Send delivers a command to the worker. Commands are processed strictly
// in the order received.
func (c *Controller) Send(cmd Command) {
	c.controlTx <- cmd
}

// Reports returns the channel the worker's reports arrive on.
func (c *Controller) Reports() <-chan Report {
	return c.reportRx
}

func (c *Controller) run() {
	searcher := NewSearcher(c.tt)
	tm := NewTimeManager()

	for {
		c.reportRx <- ReadyReport{}

		cmd := <-c.controlTx
		start, ok := cmd.(StartCommand)
		if !ok {
			if _, isQuit := cmd.(QuitCommand); isQuit {
				return
			}
			continue // Stop with nothing running is a no-op.
		}

		quit := c.runSearch(searcher, tm, start)
		if quit {
			return
		}
	}
}

// runSearch executes iterative deepening for one Start command, per
// spec.md 4.6. It returns true if a Quit command ended the search.
func (c *Controller) runSearch(searcher *Searcher, tm *TimeManager, start StartCommand) bool {
	params := start.Params
	pos := start.Pos
	us := pos.SideToMove

	searcher.pos = pos.Copy()
	searcher.Reset()
	tm.Start(params, us)

	quitRequested := false
	searcher.SetPollFunc(func() terminate {
		select {
		case cmd := <-c.controlTx:
			switch cmd.(type) {
			case QuitCommand:
				quitRequested = true
				return terminateQuit
			case StopCommand:
				return terminateStopped
			}
		default:
		}
		if params.Mode == ModeMoveTime || params.Mode == ModeGameTime {
			if tm.Expired() {
				return terminateStopped
			}
		}
		return terminateNone
	})

	if params.Mode == ModeNodes {
		searcher.SetNodeLimit(params.Nodes)
	}

	lastStats := time.Now()
	lastCurrentMove := time.Now()
	if params.Verbosity == Full {
		searcher.SetStatsFunc(func(nodes uint64) {
			now := time.Now()
			if now.Sub(lastStats) < 50*time.Millisecond {
				return
			}
			lastStats = now
			elapsed := now.Sub(tm.startTime)
			c.reportRx <- SearchStatsReport{
				TimeMs:           elapsed.Milliseconds(),
				Nodes:            nodes,
				NPS:              nps(nodes, elapsed),
				HashFullPermille: c.tt.HashFullPermille(),
			}
		})
		searcher.SetCurrentMoveFunc(func(move board.Move, index int) {
			now := time.Now()
			if now.Sub(lastCurrentMove) < currentMoveThrottle {
				return
			}
			lastCurrentMove = now
			c.reportRx <- SearchCurrentMoveReport{Move: move, MoveIndex: index}
		})
	}

	maxDepth := params.Depth
	if maxDepth <= 0 || maxDepth > MaxPly {
		maxDepth = MaxPly
	}

	var bestMove board.Move
	for d := 1; d <= maxDepth; d++ {
		score := searcher.alphaBeta(d, 0, -Infinity, Infinity)

		if searcher.Terminated() {
			break
		}

		pv := searcher.pv.Line()
		if len(pv) > 0 {
			bestMove = pv[0]
		}

		if params.Verbosity != Silent {
			elapsed := time.Since(tm.startTime)
			summary := SearchSummaryReport{
				Depth:            d,
				Seldepth:         searcher.Seldepth(),
				TimeMs:           elapsed.Milliseconds(),
				CP:               score,
				Nodes:            searcher.Nodes(),
				NPS:              nps(searcher.Nodes(), elapsed),
				HashFullPermille: c.tt.HashFullPermille(),
				PV:               pv,
			}
			if mateDistance(score) != 0 {
				summary.Mate = mateDistance(score)
			}
			c.reportRx <- summary
		}

		if params.Mode == ModeNodes && searcher.Nodes() >= params.Nodes {
			break
		}
	}

	if !quitRequested {
		c.reportRx <- FinishedReport{BestMove: bestMove}
	}
	return quitRequested
}

// mateDistance returns the number of plies to mate encoded in score (0
// if score is not a mate score), positive for the side to move mating,
// negative for the side to move being mated.
func mateDistance(score int) int {
	if score > MateThreshold {
		return Mate - score
	}
	if score < -MateThreshold {
		return -(Mate + score)
	}
	return 0
}

func nps(nodes uint64, elapsed time.Duration) uint64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return uint64(float64(nodes) / seconds)
}
