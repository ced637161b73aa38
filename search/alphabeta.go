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
	"github.com/frankkopp/mailboxchess/config"
	"github.com/frankkopp/mailboxchess/movegen"
	"github.com/frankkopp/mailboxchess/moveslice"
	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
)

// rootSearch searches every root move at the top ply. Root moves are
// treated specially: the value found for each is stashed in
// s.rootMoveValues so the next iteration can sort root moves best-first,
// and the PV is built from here rather than from a TT lookup.
func (s *Search) rootSearch(p *position.Position, depth int, alpha, beta Value) {
	bestNodeValue := ValueNA

	for i, m := range s.rootMoves {
		undo := p.Make(m)
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(m)
		s.statistics.CurrentRootMoveIndex = i
		s.statistics.CurrentRootMove = m
		if s.uciHandlerPtr != nil {
			s.uciHandlerPtr.SendCurrentRootMove(m, i+1)
		}

		var value Value
		if s.checkDrawRepAnd50(p) {
			value = ValueDraw
		} else if !config.Settings.Search.UsePVS || i == 0 {
			value = -s.search(p, depth-1, 1, -beta, -alpha, true, true, m)
		} else {
			value = -s.search(p, depth-1, 1, -alpha-1, -alpha, false, true, m)
			if value > alpha && value < beta && !s.stopConditions() {
				s.statistics.RootPvsResearches++
				value = -s.search(p, depth-1, 1, -beta, -alpha, true, true, m)
			}
		}

		s.statistics.CurrentVariation.PopBack()
		p.Unmake(m, undo)

		if s.stopConditions() && depth > 1 {
			return
		}

		s.rootMoveValues[i] = value

		if value > bestNodeValue {
			bestNodeValue = value
			savePV(m, &s.pv[1], &s.pv[0])
		}
	}
}

// search is the main recursive alpha-beta search below the root. depth is
// the remaining plies to search, ply is the distance from the root.
// lastMove is the move played to reach p, used for counter-move ordering
// in place of the teacher's Position.LastMove().
func (s *Search) search(p *position.Position, depth, ply int, alpha, beta Value, isPV, doNull bool, lastMove Move) Value {
	if s.stopConditions() {
		return ValueNA
	}

	hasCheck := movegen.InCheck(p, p.SideToMove())

	if depth <= 0 || ply >= MaxDepth {
		return s.qsearch(p, ply, 1, alpha, beta, isPV, lastMove)
	}

	if config.Settings.Search.UseMDP {
		if alpha < -ValueCheckMate+Value(ply) {
			alpha = -ValueCheckMate + Value(ply)
		}
		if beta > ValueCheckMate-Value(ply) {
			beta = ValueCheckMate - Value(ply)
		}
		if alpha >= beta {
			s.statistics.Mdp++
			return alpha
		}
	}

	us := p.SideToMove()
	bestNodeValue := ValueNA
	bestNodeMove := MoveNone
	ttMove := MoveNone
	ttType := ALPHA
	matethreat := false

	if config.Settings.Search.UseTT {
		ttEntry := s.tt.Probe(p.ZobristKey())
		if ttEntry != nil {
			s.statistics.TTHit++
			ttMove = ttEntry.Move
			if int(ttEntry.Depth) >= depth {
				ttValue := valueFromTT(ttEntry.Value, ply)
				cut := false
				switch {
				case !ttValue.IsValid():
					cut = false
				case ttEntry.Type == EXACT:
					cut = true
				case ttEntry.Type == ALPHA && ttValue <= alpha:
					cut = true
				case ttEntry.Type == BETA && ttValue >= beta:
					cut = true
				}
				if cut && config.Settings.Search.UseTTValue {
					s.statistics.TTCuts++
					return ttValue
				}
				s.statistics.TTNoCuts++
			}
		} else {
			s.statistics.TTMiss++
		}
	}

	// Razoring: a static eval well below alpha near the leaves means a
	// full-width search is very unlikely to recover, so drop straight
	// into quiescence and trust that instead.
	if config.Settings.Search.UseRazor &&
		doNull && depth <= 3 && !isPV && !hasCheck {
		staticEval := s.evaluate(p, ply)
		if staticEval+razorMargin[depth] < alpha {
			qValue := s.qsearch(p, ply, 1, alpha, beta, isPV, lastMove)
			if s.stopConditions() {
				return ValueNA
			}
			if qValue < alpha {
				s.statistics.RazorPrunings++
				return qValue
			}
		}
	}

	// Reverse Futility Pruning (static null move pruning).
	if config.Settings.Search.UseRFP &&
		doNull && depth <= 3 && !isPV && !hasCheck {
		staticEval := s.evaluate(p, ply)
		margin := rfp[depth]
		if staticEval-margin >= beta {
			s.statistics.RfpPrunings++
			return staticEval - margin
		}
	}

	// Null Move Pruning.
	if config.Settings.Search.UseNullMove &&
		doNull && !isPV &&
		depth >= config.Settings.Search.NmpDepth &&
		p.MaterialNonPawn(us) > 0 &&
		!hasCheck {

		r := config.Settings.Search.NmpReduction
		if depth > 8 || (depth > 6 && p.GamePhase() >= 3) {
			r++
		}
		newDepth := depth - r - 1
		if newDepth < 0 {
			newDepth = 0
		}

		nullUndo := p.MakeNullMove()
		s.nodesVisited++
		nValue := -s.search(p, newDepth, ply+1, -beta, -beta+1, false, false, MoveNone)
		p.UnmakeNullMove(nullUndo)

		if s.stopConditions() {
			return ValueNA
		}

		if nValue > ValueCheckMateThreshold {
			s.statistics.NMPMateBeta++
			nValue = ValueCheckMateThreshold
		} else if nValue < -ValueCheckMateThreshold {
			s.statistics.NMPMateAlpha++
			matethreat = true
		}

		if nValue >= beta {
			s.statistics.NullMoveCuts++
			if config.Settings.Search.UseTT {
				s.storeTT(p, depth, ply, ttMove, nValue, BETA)
			}
			return nValue
		}
	}

	// ProbCut: if a shallow search of only the interesting moves already
	// beats beta by a healthy margin, a full search would almost always
	// beat beta too, so cut here.
	if config.Settings.Search.UseProbCut &&
		doNull && !isPV &&
		depth >= config.Settings.Search.ProbCutDepth && !hasCheck &&
		beta < ValueCheckMateThreshold && beta > -ValueCheckMateThreshold {

		probCutBeta := beta + Value(config.Settings.Search.ProbCutMargin)
		probCutDepth := depth - 4

		captures := s.mg[ply].GenerateLegalMoves(p, movegen.GenCap)
		s.orderMoves(p, captures, ttMove, ply, lastMove)

		for _, move := range captures {
			if see(p, move) < probCutBeta-Value(s.evaluate(p, ply)) {
				continue
			}
			undo := p.Make(move)
			s.nodesVisited++
			value := -s.search(p, probCutDepth, ply+1, -probCutBeta, -probCutBeta+1, false, true, move)
			p.Unmake(move, undo)

			if s.stopConditions() {
				return ValueNA
			}
			if value >= probCutBeta {
				s.statistics.ProbCutCuts++
				return beta
			}
		}
	}

	// Internal Iterative Deepening.
	if config.Settings.Search.UseIID &&
		depth >= config.Settings.Search.IIDDepth &&
		ttMove == MoveNone &&
		doNull && isPV {

		newDepth := depth - config.Settings.Search.IIDReduction
		if newDepth < 0 {
			newDepth = 0
		}
		s.search(p, newDepth, ply, alpha, beta, isPV, true, lastMove)
		s.statistics.IIDsearches++

		if s.stopConditions() {
			return ValueNA
		}
		if s.pv[ply].Len() > 0 {
			s.statistics.IIDmoves++
			ttMove = s.pv[ply].At(0)
		}
	}

	moves := s.mg[ply].GenerateLegalMoves(p, movegen.GenAll)
	s.orderMoves(p, moves, ttMove, ply, lastMove)
	s.pv[ply].Clear()

	if ttMove != MoveNone {
		s.statistics.TTMoveUsed++
	} else {
		s.statistics.NoTTMove++
	}

	var value Value
	movesSearched := 0

	for _, move := range moves {
		from := move.From
		to := move.To

		newDepth := depth - 1
		lmrDepth := newDepth
		extension := 0

		isCapture := p.PieceAt(to) != PieceNone || move.IsEnPassant
		isKiller := config.Settings.Search.UseKiller && (move.Equals(s.killers[ply][0]) || move.Equals(s.killers[ply][1]))

		undo := p.Make(move)
		givesCheck := movegen.InCheck(p, p.SideToMove())

		if config.Settings.Search.UseExt {
			if config.Settings.Search.UseCheckExt && givesCheck {
				s.statistics.CheckExtension++
				extension = 1
			}
			if config.Settings.Search.UseThreatExt && matethreat {
				s.statistics.ThreatExtension++
				extension = 1
			}
			if config.Settings.Search.UseExtAddDepth {
				newDepth += extension
			}
		}

		// Forward pruning: only for quiet, uninteresting moves.
		if !isPV && extension == 0 && !move.Equals(ttMove) && !isKiller &&
			!move.IsPromotion() && !isCapture && !hasCheck && !givesCheck && !matethreat {

			materialEval := p.Material(us) - p.Material(us.Flip())

			if config.Settings.Search.UseFP && depth < 7 {
				futilityMargin := fp[depth]
				if materialEval+futilityMargin <= alpha {
					if materialEval > bestNodeValue {
						bestNodeValue = materialEval
					}
					s.statistics.FpPrunings++
					p.Unmake(move, undo)
					continue
				}
			}

			if config.Settings.Search.UseLmp && movesSearched >= LmpMovesSearched(depth) {
				s.statistics.LmpCuts++
				p.Unmake(move, undo)
				continue
			}

			if config.Settings.Search.UseLmr &&
				depth >= config.Settings.Search.LmrDepth &&
				movesSearched >= config.Settings.Search.LmrMovesSearched {
				lmrDepth -= LmrReduction(depth, movesSearched)
				s.statistics.LmrReductions++
				if lmrDepth < 0 {
					lmrDepth = 0
				}
			}
		}

		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)

		if s.checkDrawRepAnd50(p) {
			value = ValueDraw
		} else if !config.Settings.Search.UsePVS || movesSearched == 0 {
			value = -s.search(p, newDepth, ply+1, -beta, -alpha, true, true, move)
		} else {
			value = -s.search(p, lmrDepth, ply+1, -alpha-1, -alpha, false, true, move)
			if value > alpha && !s.stopConditions() {
				if lmrDepth < newDepth {
					s.statistics.LmrResearches++
					value = -s.search(p, newDepth, ply+1, -beta, -alpha, true, true, move)
				} else if value < beta {
					s.statistics.PvsResearches++
					value = -s.search(p, newDepth, ply+1, -beta, -alpha, true, true, move)
				}
			}
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()
		p.Unmake(move, undo)

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				savePV(move, &s.pv[ply+1], &s.pv[ply])
				if value >= beta {
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					if config.Settings.Search.UseKiller && !isCapture {
						s.storeKiller(ply, move)
					}
					if config.Settings.Search.UseHistoryCounter {
						s.history.HistoryCount[us][from][to] += 1 << uint(depth)
					}
					if config.Settings.Search.UseCounterMoves && lastMove != MoveNone {
						s.history.CounterMoves[lastMove.From][lastMove.To] = move
					}
					ttType = BETA
					break
				}
				alpha = value
				ttType = EXACT
			}
		}
		if config.Settings.Search.UseHistoryCounter {
			s.history.HistoryCount[us][from][to] -= 1 << uint(depth)
			if s.history.HistoryCount[us][from][to] < 0 {
				s.history.HistoryCount[us][from][to] = 0
			}
		}
	}

	if movesSearched == 0 && !s.stopConditions() {
		if hasCheck {
			s.statistics.Checkmates++
			bestNodeValue = -ValueCheckMate + Value(ply)
		} else {
			s.statistics.Stalemates++
			bestNodeValue = ValueDraw
		}
		ttType = EXACT
	}

	if config.Settings.Search.UseTT {
		s.storeTT(p, depth, ply, bestNodeMove, bestNodeValue, ttType)
	}

	return bestNodeValue
}

// qsearch extends the search along capturing lines past depth zero to
// avoid the horizon effect: a quiet position is evaluated directly, a
// position in check searches every move (it may be checkmate), otherwise
// captures are tried, and from the second quiescence ply on only those
// goodCapture approves.
// qsearch is the tail search that only explores captures (and promotions,
// or all evasions while in check) to let a tactically unstable position
// settle before it is evaluated. qDepth counts plies since quiescence was
// entered (1 at the first call) and is capped at 4.
func (s *Search) qsearch(p *position.Position, ply, qDepth int, alpha, beta Value, isPV bool, lastMove Move) Value {
	if s.statistics.CurrentExtraSearchDepth < ply {
		s.statistics.CurrentExtraSearchDepth = ply
	}

	if !config.Settings.Search.UseQuiescence || ply >= MaxDepth || qDepth > 4 {
		return s.evaluate(p, ply)
	}

	if config.Settings.Search.UseMDP {
		if alpha < -ValueCheckMate+Value(ply) {
			alpha = -ValueCheckMate + Value(ply)
		}
		if beta > ValueCheckMate-Value(ply) {
			beta = ValueCheckMate - Value(ply)
		}
		if alpha >= beta {
			s.statistics.Mdp++
			return alpha
		}
	}

	bestNodeValue := ValueNA
	ttType := ALPHA
	ttMove := MoveNone
	hasCheck := movegen.InCheck(p, p.SideToMove())

	if !hasCheck {
		staticEval := s.evaluate(p, ply)
		if config.Settings.Search.UseQSStandpat && staticEval > alpha {
			if staticEval >= beta {
				s.statistics.StandpatCuts++
				return staticEval
			}
			alpha = staticEval
		}
		bestNodeValue = staticEval
	}

	if config.Settings.Search.UseQSTT {
		ttEntry := s.tt.Probe(p.ZobristKey())
		if ttEntry != nil {
			s.statistics.TTHit++
			ttMove = ttEntry.Move
			ttValue := valueFromTT(ttEntry.Value, ply)
			cut := false
			switch {
			case !ttValue.IsValid():
				cut = false
			case ttEntry.Type == EXACT:
				cut = true
			case ttEntry.Type == ALPHA && ttValue <= alpha:
				cut = true
			case ttEntry.Type == BETA && ttValue >= beta:
				cut = true
			}
			if cut && config.Settings.Search.UseTTValue {
				s.statistics.TTCuts++
				return ttValue
			}
			s.statistics.TTNoCuts++
		} else {
			s.statistics.TTMiss++
		}
	}

	bestNodeMove := MoveNone
	mode := movegen.GenCap
	if hasCheck {
		s.statistics.CheckInQS++
		mode = movegen.GenAll
	}
	moves := s.mg[ply].GenerateLegalMoves(p, mode)
	s.orderMoves(p, moves, ttMove, ply, lastMove)

	var value Value
	movesSearched := 0

	for _, move := range moves {
		if !hasCheck && qDepth >= 2 && !s.goodCapture(p, move) {
			continue
		}

		undo := p.Make(move)
		s.nodesVisited++
		s.statistics.CurrentVariation.PushBack(move)

		if hasCheck && s.checkDrawRepAnd50(p) {
			value = ValueDraw
		} else {
			value = -s.qsearch(p, ply+1, qDepth+1, -beta, -alpha, isPV, move)
		}

		movesSearched++
		s.statistics.CurrentVariation.PopBack()
		p.Unmake(move, undo)

		if s.stopConditions() {
			return ValueNA
		}

		if value > bestNodeValue {
			bestNodeValue = value
			bestNodeMove = move
			if value > alpha {
				savePV(move, &s.pv[ply+1], &s.pv[ply])
				if value >= beta {
					s.statistics.BetaCuts++
					if movesSearched == 1 {
						s.statistics.BetaCuts1st++
					}
					if config.Settings.Search.UseCounterMoves && lastMove != MoveNone {
						s.history.CounterMoves[lastMove.From][lastMove.To] = move
					}
					ttType = BETA
					break
				}
				alpha = value
				ttType = EXACT
			}
		}
	}

	if movesSearched == 0 && !s.stopConditions() && hasCheck {
		s.statistics.Checkmates++
		bestNodeValue = -ValueCheckMate + Value(ply)
		ttType = EXACT
	}

	if config.Settings.Search.UseQSTT {
		s.storeTT(p, 1, ply, bestNodeMove, bestNodeValue, ttType)
	}

	return bestNodeValue
}

// evaluate returns a heuristic value for p, optionally serving it from or
// storing it to the TT when UseEvalTT is set.
func (s *Search) evaluate(p *position.Position, ply int) Value {
	s.statistics.LeafPositionsEvaluated++

	value := ValueNA
	if config.Settings.Search.UseTT && config.Settings.Search.UseEvalTT {
		if ttEntry := s.tt.Probe(p.ZobristKey()); ttEntry != nil {
			s.statistics.TTHit++
			s.statistics.EvaluationsFromTT++
			value = valueFromTT(ttEntry.Value, ply)
		}
	}
	if value == ValueNA {
		s.statistics.Evaluations++
		value = s.eval.Evaluate(p)
	}
	if config.Settings.Search.UseTT && config.Settings.Search.UseEvalTT {
		s.storeTT(p, 0, ply, MoveNone, value, EXACT)
	}
	return value
}

// goodCapture filters the captures quiescence search bothers to look at.
func (s *Search) goodCapture(p *position.Position, move Move) bool {
	if config.Settings.Search.UseSEE {
		return see(p, move) >= 0
	}
	attacker := p.PieceAt(move.From).TypeOf().ValueOf()
	victim := p.PieceAt(move.To).TypeOf().ValueOf()
	return attacker+50 < victim || !movegen.IsSquareAttacked(p, move.To, p.SideToMove().Flip())
}

// checkDrawRepAnd50 reports whether p is a draw by repetition or the
// fifty-move rule.
func (s *Search) checkDrawRepAnd50(p *position.Position) bool {
	return p.IsRepetition() || p.IsFiftyMoves()
}

// savePV writes move followed by all of src into dest, used to build the
// principal variation bottom-up as the search unwinds.
func savePV(move Move, src, dest *moveslice.MoveSlice) {
	dest.Clear()
	dest.PushBack(move)
	for i := 0; i < src.Len(); i++ {
		dest.PushBack(src.At(i))
	}
}

// storeTT stores a search result for p into the transposition table.
func (s *Search) storeTT(p *position.Position, depth, ply int, move Move, value Value, valueType ValueType) {
	s.tt.Put(p.ZobristKey(), move, valueToTT(value, ply), int8(depth), valueType, false, false)
}

// undoAndMove pairs a played move with its undo record, used to unwind
// getPVLine's speculative walk through the TT.
type undoAndMove struct {
	move Move
	undo position.UndoRecord
}

// getPVLine reads the chain of best moves out of the TT starting at p, up
// to depth moves deep, used to recover the PV for a TT-cut root result.
func (s *Search) getPVLine(p *position.Position, pv *moveslice.MoveSlice, depth int) {
	pv.Clear()
	var undoStack []undoAndMove
	counter := 0
	ttMatch := s.tt.GetEntry(p.ZobristKey())
	for ttMatch != nil && ttMatch.Move != MoveNone && counter < depth {
		move := ttMatch.Move
		pv.PushBack(move)
		undo := p.Make(move)
		undoStack = append(undoStack, undoAndMove{move, undo})
		counter++
		ttMatch = s.tt.GetEntry(p.ZobristKey())
	}
	for i := len(undoStack) - 1; i >= 0; i-- {
		p.Unmake(undoStack[i].move, undoStack[i].undo)
	}
}

// valueToTT corrects a mate value for storage: mate distance is relative
// to the root, but the TT entry may be probed from a different ply.
func valueToTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			return value + Value(ply)
		}
		return value - Value(ply)
	}
	return value
}

// valueFromTT reverses valueToTT's adjustment when reading a mate value
// back out of the TT at ply.
func valueFromTT(value Value, ply int) Value {
	if value.IsCheckMateValue() {
		if value > 0 {
			return value - Value(ply)
		}
		return value + Value(ply)
	}
	return value
}
