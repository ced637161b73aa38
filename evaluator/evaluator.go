/*
 * mailboxchess - a UCI chess engine in Go
 *
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

// Package evaluator contains structures and functions to calculate
// the value of a chess position to be used in a chess engine search.
package evaluator

import (
	"github.com/op/go-logging"

	"github.com/frankkopp/mailboxchess/config"
	myLogging "github.com/frankkopp/mailboxchess/logging"
	"github.com/frankkopp/mailboxchess/movegen"
	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
)

// Evaluator holds the data a static evaluation needs across calls: a
// logger and a reusable move generator for mobility/king safety probes.
// Create a new instance with NewEvaluator().
type Evaluator struct {
	log *logging.Logger
	mg  *movegen.MoveGenerator
}

// NewEvaluator creates a new instance of an Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		log: myLogging.GetLog(),
		mg:  movegen.New(),
	}
}

// Evaluate calculates a value for a chess position by using various
// evaluation heuristics: material, piece-square tables, pawn structure,
// piece activity, king safety, mobility, centre control and a catalogue
// of known endgames. The
// result is from the viewpoint of the side to move.
func (e *Evaluator) Evaluate(p *position.Position) Value {
	if p.HasInsufficientMaterial() {
		return ValueDraw
	}

	if score, ok := e.knownEndgame(p); ok {
		if p.NextPlayer() == Black {
			score *= -1
		}
		return score
	}

	gamePhase := p.GamePhase()
	phase := float64(gamePhase) / float64(GamePhaseMax)
	endgame := p.MaterialNonPawn(White) <= 1300 && p.MaterialNonPawn(Black) <= 1300

	var value Value

	value += e.material(p)
	value += e.positional(p, phase)
	value += e.pawnStructure(p)
	value += e.pieceActivity(p)
	value += e.centre(p)

	if config.Settings.Eval.UseMobility && !endgame {
		value += e.mobility(p)
	}
	if config.Settings.Eval.UseKingEval && !endgame {
		value += e.kingSafety(p)
	}

	// value is computed from White's perspective; flip it for the side
	// to move. No tempo bonus: a term that rewards the side to move
	// cannot survive this flip without breaking evaluate(P) ==
	// -evaluate(swap(P)).
	if p.NextPlayer() == Black {
		value *= -1
	}

	return value
}

func (e *Evaluator) material(p *position.Position) Value {
	return p.Material(White) - p.Material(Black)
}

func (e *Evaluator) positional(p *position.Position, phase float64) Value {
	whiteMid, whiteEnd := p.PsqMidValue(White), p.PsqEndValue(White)
	blackMid, blackEnd := p.PsqMidValue(Black), p.PsqEndValue(Black)
	return Value(float64(whiteMid-blackMid)*phase + float64(whiteEnd-blackEnd)*(1-phase))
}

// centre rewards pawns (8) and other pieces (4) occupying the four
// central squares, a cheap proxy for central control that doesn't need
// a full attack map.
func (e *Evaluator) centre(p *position.Position) Value {
	var value Value
	for _, sq := range [4]Square{SqD4, SqE4, SqD5, SqE5} {
		pc := p.PieceAt(sq)
		if pc == PieceNone {
			continue
		}
		bonus := Value(4)
		if pc.TypeOf() == Pawn {
			bonus = Value(8)
		}
		if pc.ColorOf() == White {
			value += bonus
		} else {
			value -= bonus
		}
	}
	return value
}

// mobility counts pseudo-legal moves available to each side as a rough
// measure of piece activity. The side not on move is probed by loading
// a clone from the same FEN with the side-to-move field flipped, since
// Position otherwise only ever generates moves for whoever is on move.
func (e *Evaluator) mobility(p *position.Position) Value {
	sideMoves := len(e.mg.GeneratePseudoLegalMoves(p, movegen.GenAll))

	flipped, err := position.NewFromFen(flipSideToMoveFen(p.ToFen()))
	if err != nil {
		return 0
	}
	otherMoves := len(e.mg.GeneratePseudoLegalMoves(flipped, movegen.GenAll))

	whiteMoves, blackMoves := sideMoves, otherMoves
	if p.SideToMove() == Black {
		whiteMoves, blackMoves = otherMoves, sideMoves
	}
	return Value(whiteMoves-blackMoves) * Value(config.Settings.Eval.MobilityBonus) / 10
}

func flipSideToMoveFen(fen string) string {
	b := []byte(fen)
	for i := 0; i < len(b)-1; i++ {
		if b[i] == ' ' && (b[i+1] == 'w' || b[i+1] == 'b') && (i+2 >= len(b) || b[i+2] == ' ') {
			if b[i+1] == 'w' {
				b[i+1] = 'b'
			} else {
				b[i+1] = 'w'
			}
			break
		}
	}
	return string(b)
}

// pawnStructure penalizes doubled and isolated pawns and rewards passed
// pawns, scaled lightly by how advanced they are.
func (e *Evaluator) pawnStructure(p *position.Position) Value {
	var filePawns [2][8]int
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := p.PieceAt(sq)
		if pc.TypeOf() != Pawn {
			continue
		}
		filePawns[pc.ColorOf()][sq.FileOf()]++
	}

	var value Value
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := p.PieceAt(sq)
		if pc.TypeOf() != Pawn {
			continue
		}
		c := pc.ColorOf()
		f := int(sq.FileOf())

		bonus := Value(0)
		if filePawns[c][f] > 1 {
			bonus -= 15
		}
		isolated := true
		if f > 0 && filePawns[c][f-1] > 0 {
			isolated = false
		}
		if f < 7 && filePawns[c][f+1] > 0 {
			isolated = false
		}
		if isolated {
			bonus -= 20
		}
		if isPassedPawn(p, sq, c, filePawns) {
			bonus += passedPawnBonus(sq, c)
		}
		if isChainedPawn(p, sq, c) {
			bonus += 5
		}

		if c == White {
			value += bonus
		} else {
			value -= bonus
		}
	}
	return value
}

func isPassedPawn(p *position.Position, sq Square, c Color, filePawns [2][8]int) bool {
	enemy := c.Flip()
	f := int(sq.FileOf())
	r := int(sq.RankOf())
	for df := -1; df <= 1; df++ {
		ef := f + df
		if ef < 0 || ef > 7 {
			continue
		}
		if filePawns[enemy][ef] == 0 {
			continue
		}
		for esq := SqA1; esq <= SqH8; esq++ {
			other := p.PieceAt(esq)
			if other != MakePiece(enemy, Pawn) || int(esq.FileOf()) != ef {
				continue
			}
			er := int(esq.RankOf())
			if c == White && er > r {
				return false
			}
			if c == Black && er < r {
				return false
			}
		}
	}
	return true
}

func passedPawnBonus(sq Square, c Color) Value {
	r := int(sq.RankOf())
	relativeRank := r
	if c == Black {
		relativeRank = 7 - r
	}
	bonuses := [8]Value{0, 10, 20, 35, 60, 100, 150, 0}
	return bonuses[relativeRank]
}

// isChainedPawn reports whether sq's pawn is defended by a friendly pawn
// one rank behind on an adjacent file.
func isChainedPawn(p *position.Position, sq Square, c Color) bool {
	f := int(sq.FileOf())
	r := int(sq.RankOf())
	backRank := r - 1
	if c == Black {
		backRank = r + 1
	}
	if backRank < 0 || backRank > 7 {
		return false
	}
	for _, df := range [2]int{-1, 1} {
		ff := f + df
		if ff < 0 || ff > 7 {
			continue
		}
		if p.PieceAt(SquareOf(File(ff), Rank(backRank))) == MakePiece(c, Pawn) {
			return true
		}
	}
	return false
}

// kingSafety penalizes kings missing their pawn shield.
func (e *Evaluator) kingSafety(p *position.Position) Value {
	var value Value
	for _, c := range [2]Color{White, Black} {
		ks := p.KingSquare(c)
		f := int(ks.FileOf())
		r := int(ks.RankOf())
		shieldRank := r + 1
		if c == Black {
			shieldRank = r - 1
		}
		if shieldRank < 0 || shieldRank > 7 {
			continue
		}
		shield := 0
		for df := -1; df <= 1; df++ {
			ff := f + df
			if ff < 0 || ff > 7 {
				continue
			}
			sq := SquareOf(File(ff), Rank(shieldRank))
			if p.PieceAt(sq) == MakePiece(c, Pawn) {
				shield++
			}
		}
		bonus := Value(shield) * Value(config.Settings.Eval.KingDefenderBonus)

		for df := -1; df <= 1; df++ {
			ff := f + df
			if ff < 0 || ff > 7 {
				continue
			}
			own, enemy := 0, 0
			for rr := Rank(0); rr <= 7; rr++ {
				pc := p.PieceAt(SquareOf(File(ff), rr))
				if pc.TypeOf() != Pawn {
					continue
				}
				if pc.ColorOf() == c {
					own++
				} else {
					enemy++
				}
			}
			switch {
			case own == 0 && enemy == 0:
				bonus -= 25
			case own == 0:
				bonus -= 15
			}
		}

		if c == White {
			value += bonus
		} else {
			value -= bonus
		}
	}
	return value
}

// pieceActivity rewards the bishop pair and well-placed rooks: on an open
// or semi-open file, on the 7th/2nd rank, or connected with another rook
// along an empty rank.
func (e *Evaluator) pieceActivity(p *position.Position) Value {
	var value Value

	for _, c := range [2]Color{White, Black} {
		bishops := 0
		var rookSquares []Square
		for sq := SqA1; sq <= SqH8; sq++ {
			pc := p.PieceAt(sq)
			if pc.ColorOf() != c {
				continue
			}
			switch pc.TypeOf() {
			case Bishop:
				bishops++
			case Rook:
				rookSquares = append(rookSquares, sq)
			}
		}

		bonus := Value(0)
		if bishops >= 2 {
			bonus += 50
		}

		seventh, second := Rank(6), Rank(1)
		if c == Black {
			seventh, second = Rank(1), Rank(6)
		}

		for _, sq := range rookSquares {
			f := sq.FileOf()
			own, enemy := 0, 0
			for r := Rank(0); r <= 7; r++ {
				pc := p.PieceAt(SquareOf(f, r))
				if pc.TypeOf() != Pawn {
					continue
				}
				if pc.ColorOf() == c {
					own++
				} else {
					enemy++
				}
			}
			switch {
			case own == 0 && enemy == 0:
				bonus += 25
			case own == 0:
				bonus += 15
			}
			if sq.RankOf() == seventh || sq.RankOf() == second {
				bonus += 30
			}
		}

		if len(rookSquares) == 2 && rookSquares[0].RankOf() == rookSquares[1].RankOf() {
			lo, hi := rookSquares[0], rookSquares[1]
			if lo > hi {
				lo, hi = hi, lo
			}
			connected := true
			for sq := lo + 1; sq < hi; sq++ {
				if p.PieceAt(sq) != PieceNone {
					connected = false
					break
				}
			}
			if connected {
				bonus += 15
			}
		}

		if c == White {
			value += bonus
		} else {
			value -= bonus
		}
	}

	return value
}
