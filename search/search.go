/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package search implements the engine's iterative-deepening alpha-beta
// search: principal variation search with a transposition table, null
// move and futility prunings, late move reductions and a quiescence
// search, driven from a UCI "go" command via StartSearch.
package search

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/frankkopp/mailboxchess/config"
	"github.com/frankkopp/mailboxchess/evaluator"
	"github.com/frankkopp/mailboxchess/logging"
	"github.com/frankkopp/mailboxchess/movegen"
	"github.com/frankkopp/mailboxchess/moveslice"
	"github.com/frankkopp/mailboxchess/position"
	"github.com/frankkopp/mailboxchess/transpositiontable"
	. "github.com/frankkopp/mailboxchess/types"
	"github.com/frankkopp/mailboxchess/uciInterface"
)

var out = message.NewPrinter(language.German)
var log = logging.GetSearchLog()

// Search holds the state of one engine search. Create an instance with
// NewSearch and drive it through StartSearch/StopSearch; the transposition
// table and move generators persist across searches within a game.
type Search struct {
	uciHandlerPtr  uciInterface.UciDriver
	initSemaphore  *semaphore.Weighted
	isRunning      *semaphore.Weighted
	timerWaitGroup sync.WaitGroup

	tt      *transpositiontable.TtTable
	eval    *evaluator.Evaluator
	history *history

	lastSearchResult *Result

	stopFlag        bool
	startTime       time.Time
	hasResult       bool
	currentPosition *position.Position
	searchLimits    *Limits
	timeLimit       time.Duration
	extraTime       time.Duration
	nodesVisited    uint64
	curDepth        int
	curExtraDepth   int

	// per-ply search state, sized MaxDepth so recursion never reallocates
	mg       [MaxDepth]*movegen.MoveGenerator
	pv       [MaxDepth]moveslice.MoveSlice
	killers  [MaxDepth][2]Move
	statistics Statistics

	rootMoves      moveslice.MoveSlice
	rootMoveValues []Value
}

// NewSearch creates a new Search instance. If no uci handler is set with
// SetUciHandler, diagnostic output goes to the search log only.
func NewSearch() *Search {
	s := &Search{
		initSemaphore: semaphore.NewWeighted(int64(1)),
		isRunning:     semaphore.NewWeighted(int64(1)),
		history:       newHistory(),
		eval:          evaluator.NewEvaluator(),
	}
	for i := range s.mg {
		s.mg[i] = movegen.New()
	}
	return s
}

// NewGame resets state that must not leak between games: the
// transposition table and the history/counter-move heuristics.
func (s *Search) NewGame() {
	if s.tt != nil {
		s.tt.Clear()
	}
	s.history.clear()
}

// ClearHash empties the transposition table in place, for the UCI
// "Clear Hash" button.
func (s *Search) ClearHash() {
	if s.tt != nil {
		s.tt.Clear()
	}
}

// ResizeCache rebuilds the transposition table at the size currently
// configured in config.Settings.Search.TTSize, for the UCI "Hash" option.
// All entries are lost.
func (s *Search) ResizeCache() {
	s.tt = transpositiontable.NewTtTable(config.Settings.Search.TTSize)
}

// StartSearch starts a search on a copy of p with the given limits.
// Search runs asynchronously; poll IsSearching or call WaitWhileSearching,
// and stop it early with StopSearch.
func (s *Search) StartSearch(p position.Position, sl Limits) {
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
	s.searchLimits = &sl
	s.currentPosition = &p
	go s.run(&p, &sl)
	_ = s.initSemaphore.Acquire(context.TODO(), 1)
}

// StopSearch stops a running search as quickly as possible and blocks
// until the result has been sent.
func (s *Search) StopSearch() {
	s.stopFlag = true
	s.WaitWhileSearching()
}

// IsSearching reports whether a search is currently running.
func (s *Search) IsSearching() bool {
	if !s.isRunning.TryAcquire(1) {
		return true
	}
	s.isRunning.Release(1)
	return false
}

// WaitWhileSearching blocks until any running search has stopped.
func (s *Search) WaitWhileSearching() {
	_ = s.isRunning.Acquire(context.TODO(), 1)
	s.isRunning.Release(1)
}

// SetUciHandler sets the UCI callback handler.
func (s *Search) SetUciHandler(uciHandler uciInterface.UciDriver) {
	s.uciHandlerPtr = uciHandler
}

// GetUciHandlerPtr returns the current UciHandler, or nil if none is set.
func (s *Search) GetUciHandlerPtr() uciInterface.UciDriver {
	return s.uciHandlerPtr
}

// IsReady signals readiness to the uci handler once one-time
// initialization (transposition table allocation) has completed.
func (s *Search) IsReady() {
	s.initialize()
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendReadyOk()
	} else {
		log.Debug("uci >> readyok")
	}
}

// run drives one complete search from StartSearch's goroutine: it sets up
// limits and the timer, runs iterative deepening, waits out ponder or
// infinite mode if the search finished before being told to stop, and
// finally reports the result.
func (s *Search) run(p *position.Position, sl *Limits) {
	if !s.isRunning.TryAcquire(1) {
		log.Error("Search already running")
		return
	}
	defer s.isRunning.Release(1)

	s.startTime = time.Now()
	s.initialize()
	s.hasResult = false
	s.nodesVisited = 0
	s.stopFlag = false
	s.statistics = Statistics{}

	s.setupSearchLimits(p, sl)
	if s.searchLimits.TimeControl {
		s.startTimer()
	}

	if s.tt != nil {
		log.Debugf("Transposition Table: Using TT (%s)", s.tt.String())
		s.tt.AgeEntries()
	} else {
		log.Debug("Transposition Table: Not using TT")
	}

	s.initSemaphore.Release(1)

	searchResult := s.iterativeDeepening(p)

	if !s.stopFlag && (s.searchLimits.Ponder || s.searchLimits.Infinite) {
		log.Debug("Search finished before stopped or ponderhit! Waiting for stop/ponderhit to send result")
		for !s.stopFlag && (s.searchLimits.Ponder || s.searchLimits.Infinite) {
			time.Sleep(5 * time.Millisecond)
		}
	}

	searchResult.SearchTime = time.Since(s.startTime)
	s.sendResult(searchResult)

	s.lastSearchResult = searchResult
	s.hasResult = true

	log.Info(out.Sprintf("Search finished after %d ms ", searchResult.SearchTime.Milliseconds()))
	log.Info(out.Sprintf("Search depth was %d(%d) with %d nodes visited. NPS = %d nps",
		s.curDepth, s.curExtraDepth, s.nodesVisited,
		(s.nodesVisited*uint64(time.Second.Nanoseconds()))/(1+uint64(searchResult.SearchTime.Nanoseconds()))))
	log.Infof("Search result: %s", searchResult.String())

	s.stopFlag = true
}

// iterativeDeepening repeatedly searches the root position at increasing
// depth, each iteration starting from the previous iteration's move order
// and (when enabled) an aspiration window around its score, until a
// search limit is hit.
func (s *Search) iterativeDeepening(p *position.Position) *Result {
	mg := movegen.New()
	legal := mg.GenerateLegalMoves(p, movegen.GenAll)
	s.rootMoves = append(moveslice.New(len(legal)), legal...)
	s.rootMoveValues = make([]Value, len(s.rootMoves))

	if s.rootMoves.Len() == 0 {
		return &Result{BestMove: MoveNone, PonderMove: MoveNone}
	}

	maxDepth := MaxDepth
	if s.searchLimits.Depth > 0 {
		maxDepth = s.searchLimits.Depth
	}

	var bestMove, ponderMove Move
	var bestValue Value

	for depth := 1; depth <= maxDepth; depth++ {
		s.curDepth = depth
		s.statistics.CurrentIterationDepth = depth

		s.searchRootAspiration(p, depth)
		if s.stopConditions() && depth > 1 {
			break
		}

		s.sortRootMoves()
		bestMove = s.rootMoves.At(0)
		bestValue = s.rootMoveValues[0]
		if s.pv[0].Len() > 1 {
			ponderMove = s.pv[0].At(1)
		} else {
			ponderMove = MoveNone
		}

		if s.uciHandlerPtr != nil {
			s.uciHandlerPtr.SendIterationEndInfo(depth, s.statistics.CurrentExtraSearchDepth, bestValue,
				s.nodesVisited, s.nps(), time.Since(s.startTime), s.pv[0])
		}

		if s.stopConditions() {
			break
		}
		if bestValue.IsCheckMateValue() {
			break
		}
	}

	return &Result{
		BestMove:   bestMove,
		BestValue:  bestValue,
		PonderMove: ponderMove,
		Pv:         s.pv[0],
	}
}

// searchRootAspiration runs rootSearch at depth, widening the alpha-beta
// window from a narrow guess around the previous iteration's score when
// aspiration windows are enabled and re-searching on a fail low/high.
func (s *Search) searchRootAspiration(p *position.Position, depth int) {
	if !config.Settings.Search.UseAspiration || depth <= 1 {
		s.rootSearch(p, depth, -ValueInf, ValueInf)
		return
	}

	window := Value(config.Settings.Search.AspirationWindow)
	guess := s.rootMoveValues[0]
	alpha := guess - window
	beta := guess + window

	for step := 0; ; step++ {
		s.rootSearch(p, depth, alpha, beta)
		if s.stopConditions() {
			return
		}
		best := bestOf(s.rootMoveValues)
		if best <= alpha {
			s.statistics.AspirationResearches++
			if s.uciHandlerPtr != nil {
				s.uciHandlerPtr.SendAspirationResearchInfo(depth, s.statistics.CurrentExtraSearchDepth, best, ALPHA,
					s.nodesVisited, s.nps(), time.Since(s.startTime), s.pv[0])
			}
			alpha = widen(guess, alpha, step, true)
			continue
		}
		if best >= beta {
			s.statistics.AspirationResearches++
			if s.uciHandlerPtr != nil {
				s.uciHandlerPtr.SendAspirationResearchInfo(depth, s.statistics.CurrentExtraSearchDepth, best, BETA,
					s.nodesVisited, s.nps(), time.Since(s.startTime), s.pv[0])
			}
			beta = widen(guess, beta, step, false)
			continue
		}
		return
	}
}

// widen returns the next, wider aspiration bound on the low (failLow) or
// high side, stepping through aspirationSteps before falling back to an
// unbounded window.
func widen(guess, bound Value, step int, failLow bool) Value {
	if step >= len(aspirationSteps) {
		if failLow {
			return -ValueInf
		}
		return ValueInf
	}
	if failLow {
		return guess - aspirationSteps[step]
	}
	return guess + aspirationSteps[step]
}

func bestOf(values []Value) Value {
	best := ValueNA
	for _, v := range values {
		if v > best {
			best = v
		}
	}
	return best
}

// sortRootMoves reorders rootMoves and rootMoveValues together,
// highest-scoring move first, so the next iteration searches the most
// promising move first (a cheap, effective PV move ordering at the root).
func (s *Search) sortRootMoves() {
	idx := make([]int, s.rootMoves.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.rootMoveValues[idx[a]] > s.rootMoveValues[idx[b]]
	})
	sortedMoves := make([]Move, s.rootMoves.Len())
	sortedValues := make([]Value, s.rootMoves.Len())
	for i, j := range idx {
		sortedMoves[i] = s.rootMoves.At(j)
		sortedValues[i] = s.rootMoveValues[j]
	}
	for i := 0; i < s.rootMoves.Len(); i++ {
		s.rootMoves.Set(i, sortedMoves[i])
	}
	s.rootMoveValues = sortedValues
}

func (s *Search) nps() uint64 {
	elapsed := time.Since(s.startTime)
	if elapsed <= 0 {
		return 0
	}
	return s.nodesVisited * uint64(time.Second.Nanoseconds()) / uint64(elapsed.Nanoseconds())
}

// initialize lazily allocates the transposition table. Safe to call
// repeatedly; it only does work the first time or after a resize.
func (s *Search) initialize() {
	if config.Settings.Search.UseTT {
		if s.tt == nil {
			sizeInMByte := config.Settings.Search.TTSize
			if sizeInMByte == 0 {
				sizeInMByte = 64
			}
			s.tt = transpositiontable.NewTtTable(sizeInMByte)
		}
	} else {
		log.Info("Transposition Table is disabled in configuration")
	}
}

func (s *Search) stopConditions() bool {
	if s.stopFlag {
		return true
	}
	if s.searchLimits.Nodes > 0 && s.nodesVisited >= s.searchLimits.Nodes {
		s.stopFlag = true
	}
	return s.stopFlag
}

func (s *Search) setupSearchLimits(p *position.Position, sl *Limits) {
	if sl.Infinite {
		log.Debug("Search mode: Infinite")
	}
	if sl.Ponder {
		log.Debug("Search mode: Ponder")
	}
	if sl.Mate > 0 {
		log.Debugf("Search mode: Search for mate in %d", sl.Mate)
	}
	if sl.TimeControl {
		s.timeLimit = s.setupTimeControl(p, sl)
		s.extraTime = 0
		if sl.MoveTime > 0 {
			log.Debugf("Search mode: Time controlled: Time per move %d ms", sl.MoveTime.Milliseconds())
		} else {
			log.Debug(out.Sprintf("Search mode: Time controlled: White = %d ms (inc %d ms) Black = %d ms (inc %d ms) Moves to go: %d",
				sl.WhiteTime.Milliseconds(), sl.WhiteInc.Milliseconds(),
				sl.BlackTime.Milliseconds(), sl.BlackInc.Milliseconds(),
				sl.MovesToGo))
			log.Debug(out.Sprintf("Search mode: Time limit     : %d ms", s.timeLimit.Milliseconds()))
		}
	} else {
		log.Debug("Search mode: No time control")
	}
	if sl.Depth > 0 {
		log.Debugf("Search mode: Depth limited  : %d", sl.Depth)
	}
	if sl.Nodes > 0 {
		log.Debugf(out.Sprintf("Search mode: Nodes limited  : %d", sl.Nodes))
	}
	if sl.Moves.Len() > 0 {
		log.Debugf(out.Sprintf("Search mode: Moves limited  : %s", sl.Moves.StringUci()))
	}
}

func (s *Search) setupTimeControl(p *position.Position, sl *Limits) time.Duration {
	if sl.MoveTime > 0 {
		return sl.MoveTime
	}
	movesLeft := int64(sl.MovesToGo)
	if movesLeft == 0 {
		movesLeft = int64(10 + (30 * (p.GamePhase() / GamePhaseMax)))
	}
	var timeLeft time.Duration
	switch p.NextPlayer() {
	case White:
		timeLeft = sl.WhiteTime + time.Duration(movesLeft*sl.WhiteInc.Nanoseconds())
	case Black:
		timeLeft = sl.BlackTime + time.Duration(movesLeft*sl.BlackInc.Nanoseconds())
	}
	timeLimit := time.Duration(timeLeft.Nanoseconds() / movesLeft)
	if timeLimit.Milliseconds() < 100 {
		timeLimit = time.Duration(int64(0.8 * float64(timeLimit.Nanoseconds())))
	} else {
		timeLimit = time.Duration(int64(0.9 * float64(timeLimit.Nanoseconds())))
	}
	return timeLimit
}

func (s *Search) addExtraTime(f float64) {
	if s.searchLimits.TimeControl && s.searchLimits.MoveTime == 0 {
		duration := time.Duration(int64(f * float64(s.timeLimit.Nanoseconds())))
		s.extraTime += duration
		log.Debugf(out.Sprintf("Time added/reduced by %d ms to %d ms",
			duration.Milliseconds(), (s.timeLimit + s.extraTime).Milliseconds()))
	}
}

func (s *Search) startTimer() {
	go func() {
		log.Debugf("Timer started with time limit of %d ms", s.timeLimit.Milliseconds())
		for time.Since(s.startTime) < s.timeLimit+s.extraTime && !s.stopFlag {
			time.Sleep(5 * time.Millisecond)
		}
		if s.stopFlag {
			log.Debugf("Timer stopped early after wall time: %d ms (time limit %d ms and extra time %d)",
				time.Since(s.startTime).Milliseconds(), s.timeLimit.Milliseconds(), s.extraTime.Milliseconds())
		} else {
			log.Debugf("Timer stops search after wall time: %d ms (time limit %d ms and extra time %d)",
				time.Since(s.startTime).Milliseconds(), s.timeLimit.Milliseconds(), s.extraTime.Milliseconds())
			s.stopFlag = true
		}
	}()
}

func (s *Search) sendResult(searchResult *Result) {
	if s.uciHandlerPtr != nil {
		s.uciHandlerPtr.SendResult(searchResult.BestMove, searchResult.PonderMove)
	}
}

// LastSearchResult returns a copy of the last completed search's result.
func (s *Search) LastSearchResult() Result {
	return *s.lastSearchResult
}
