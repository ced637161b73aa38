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

package search

import (
	"sort"

	"github.com/frankkopp/mailboxchess/config"
	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
)

// history keeps the move-ordering memory that outlives a single node: the
// history heuristic counter table and the counter-move table. It belongs
// to the Search instance since our move generator, unlike the teacher's,
// only produces plain move lists and does not itself stage moves.
type history struct {
	HistoryCount [2][SqLength][SqLength]int
	CounterMoves [SqLength][SqLength]Move
}

func newHistory() *history {
	return &history{}
}

func (h *history) clear() {
	h.HistoryCount = [2][SqLength][SqLength]int{}
	h.CounterMoves = [SqLength][SqLength]Move{}
}

// orderMoves sorts moves in place, highest priority first: the TT/PV move,
// then captures by SEE, then promotions, then the two killer moves for
// ply, then quiet moves by history count, with the counter move to
// lastMove nudged ahead of other quiet moves.
func (s *Search) orderMoves(p *position.Position, moves []Move, ttMove Move, ply int, lastMove Move) {
	var counterMove Move
	if config.Settings.Search.UseCounterMoves && lastMove != MoveNone {
		counterMove = s.history.CounterMoves[lastMove.From][lastMove.To]
	}
	k1, k2 := MoveNone, MoveNone
	if config.Settings.Search.UseKiller {
		k1, k2 = s.killers[ply][0], s.killers[ply][1]
	}
	us := p.SideToMove()

	type scoredMove struct {
		move  Move
		score int
	}
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{m, moveScore(p, m, ttMove, k1, k2, counterMove, us, &s.history.HistoryCount)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	for i, sm := range scored {
		moves[i] = sm.move
	}
}

const (
	scoreTT      = 3_000_000
	scoreCapture = 2_000_000
	scorePromo   = 1_900_000
	scoreKiller1 = 90_000
	scoreKiller2 = 80_000
	scoreCounter = 70_000
)

func moveScore(p *position.Position, m, ttMove, k1, k2, counterMove Move, us Color, historyCount *[2][SqLength][SqLength]int) int {
	if m.Equals(ttMove) {
		return scoreTT
	}
	if victim := p.PieceAt(m.To); victim != PieceNone || m.IsEnPassant {
		return scoreCapture + int(see(p, m))
	}
	if m.IsPromotion() {
		return scorePromo + m.Promotion.ValueOf()
	}
	switch {
	case m.Equals(k1):
		return scoreKiller1
	case m.Equals(k2):
		return scoreKiller2
	case m.Equals(counterMove):
		return scoreCounter
	}
	return historyCount[us][m.From][m.To]
}

// storeKiller records move as a killer for ply, keeping the two most
// recent distinct killers.
func (s *Search) storeKiller(ply int, move Move) {
	if s.killers[ply][0].Equals(move) {
		return
	}
	s.killers[ply][1] = s.killers[ply][0]
	s.killers[ply][0] = move
}
