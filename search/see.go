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
	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
)

// see runs a static exchange evaluation of move on p: it resolves the full
// capture sequence on move.To(), both sides always replying with their
// least valuable attacker, and returns the material balance for the side
// initiating the move. Positive means the initiating side gains material
// from the exchange.
//
// Unlike a bitboard engine, there is no occupancy bitboard to mask off a
// captured attacker and re-scan for revealed sliders; instead a removed-
// squares set is threaded through leastValuableAttacker so each lookup
// treats those squares as vacated without mutating the real position.
func see(p *position.Position, move Move) Value {
	if move.IsEnPassant {
		// en passant always wins at least a pawn; treat as a good capture
		// without resolving the (rare) exchange sequence in detail.
		return 100
	}

	var gain [32]Value
	var removed [SqLength]bool

	toSquare := move.To
	fromSquare := move.From
	movedPiece := p.PieceAt(fromSquare)
	side := p.SideToMove()

	gain[0] = Value(p.PieceAt(toSquare).TypeOf().ValueOf())

	ply := 0
	for {
		ply++
		side = side.Flip()
		removed[fromSquare] = true

		if move.IsPromotion() && ply == 1 {
			gain[ply] = Value(move.Promotion.ValueOf()-Pawn.ValueOf()) - gain[ply-1]
		} else {
			gain[ply] = Value(movedPiece.TypeOf().ValueOf()) - gain[ply-1]
		}

		// pruning: if even losing the moved piece can't improve on the
		// best the defender can already guarantee, stop the exchange.
		if maxValue(-gain[ply-1], gain[ply]) < 0 {
			break
		}

		next, pt := leastValuableAttacker(p, toSquare, side, &removed)
		if next == SqNone {
			break
		}
		fromSquare = next
		movedPiece = MakePiece(side, pt)
	}

	ply--
	for ply > 0 {
		gain[ply-1] = -maxValue(-gain[ply-1], gain[ply])
		ply--
	}
	return gain[0]
}

// leastValuableAttacker finds the cheapest piece of color by that attacks
// sq, ignoring any square marked in removed (as if vacated).
func leastValuableAttacker(p *position.Position, sq Square, by Color, removed *[SqLength]bool) (Square, PieceType) {
	pawnDir := DirNorth
	if by == Black {
		pawnDir = DirSouth
	}
	for _, file := range [2]int{DirEast, DirWest} {
		if from := sq.To(-pawnDir + file); from.IsValid() && !removed[from] {
			if pc := p.PieceAt(from); pc == MakePiece(by, Pawn) {
				return from, Pawn
			}
		}
	}
	for _, d := range KnightDeltas {
		if from := sq.To(d); from.IsValid() && !removed[from] {
			if pc := p.PieceAt(from); pc == MakePiece(by, Knight) {
				return from, Knight
			}
		}
	}
	if from := slidingAttackerAlong(p, sq, BishopDeltas[:], by, Bishop, Bishop, removed); from != SqNone {
		return from, Bishop
	}
	if from := slidingAttackerAlong(p, sq, RookDeltas[:], by, Rook, Rook, removed); from != SqNone {
		return from, Rook
	}
	if from := slidingAttackerAlong(p, sq, KingDeltas[:], by, Queen, Queen, removed); from != SqNone {
		return from, Queen
	}
	for _, d := range KingDeltas {
		if from := sq.To(d); from.IsValid() && !removed[from] {
			if pc := p.PieceAt(from); pc == MakePiece(by, King) {
				return from, King
			}
		}
	}
	return SqNone, PtNone
}

// slidingAttackerAlong walks each ray in deltas from sq, skipping removed
// squares as if vacated, and returns the first attacking piece of color by
// and type pt1 or pt2 it finds, or SqNone.
func slidingAttackerAlong(p *position.Position, sq Square, deltas []int, by Color, pt1, pt2 PieceType, removed *[SqLength]bool) Square {
	for _, d := range deltas {
		cur := sq
		for {
			cur = cur.To(d)
			if !cur.IsValid() {
				break
			}
			if removed[cur] {
				continue
			}
			pc := p.PieceAt(cur)
			if pc == PieceNone {
				continue
			}
			if pc.ColorOf() == by {
				t := pc.TypeOf()
				if t == pt1 || t == pt2 {
					return cur
				}
			}
			break
		}
	}
	return SqNone
}

func maxValue(x, y Value) Value {
	if x > y {
		return x
	}
	return y
}
