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

package evaluator

import (
	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
)

// endgamePieces holds the non-king pieces of one side, as seen by the
// known-endgame catalogue below.
type endgamePieces struct {
	pawns, knights, bishops, rooks, queens int
	bishopSquares                          []Square
}

func scan(p *position.Position, c Color) endgamePieces {
	var e endgamePieces
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := p.PieceAt(sq)
		if pc == PieceNone || pc.ColorOf() != c {
			continue
		}
		switch pc.TypeOf() {
		case Pawn:
			e.pawns++
		case Knight:
			e.knights++
		case Bishop:
			e.bishops++
			e.bishopSquares = append(e.bishopSquares, sq)
		case Rook:
			e.rooks++
		case Queen:
			e.queens++
		}
	}
	return e
}

func (e endgamePieces) bare() bool {
	return e.pawns == 0 && e.knights == 0 && e.bishops == 0 && e.rooks == 0 && e.queens == 0
}

// knownEndgame recognises a handful of elementary mating/drawing material
// balances that the general material+PST+mobility terms handle poorly,
// and returns a White-perspective score for them along with true. Returns
// (0, false) when none of the catalogued patterns match.
func (e *Evaluator) knownEndgame(p *position.Position) (Value, bool) {
	w := scan(p, White)
	b := scan(p, Black)

	switch {
	case w.bare() && b.bare():
		return ValueDraw, true
	case b.bare() && w.queens == 1 && w.rooks == 0 && w.bishops == 0 && w.knights == 0 && w.pawns == 0:
		return basicMate(p, White, Value(900)), true
	case w.bare() && b.queens == 1 && b.rooks == 0 && b.bishops == 0 && b.knights == 0 && b.pawns == 0:
		return -basicMate(p, Black, Value(900)), true
	case b.bare() && w.rooks == 1 && w.queens == 0 && w.bishops == 0 && w.knights == 0 && w.pawns == 0:
		return basicMate(p, White, Value(500)), true
	case w.bare() && b.rooks == 1 && b.queens == 0 && b.bishops == 0 && b.knights == 0 && b.pawns == 0:
		return -basicMate(p, Black, Value(500)), true
	case b.bare() && w.bishops == 1 && w.knights == 1 && w.rooks == 0 && w.queens == 0 && w.pawns == 0:
		return kbnk(p, White, w.bishopSquares[0]), true
	case w.bare() && b.bishops == 1 && b.knights == 1 && b.rooks == 0 && b.queens == 0 && b.pawns == 0:
		return -kbnk(p, Black, b.bishopSquares[0]), true
	case b.bare() && w.pawns == 1 && w.knights == 0 && w.bishops == 0 && w.rooks == 0 && w.queens == 0:
		return kpk(p, White), true
	case w.bare() && b.pawns == 1 && b.knights == 0 && b.bishops == 0 && b.rooks == 0 && b.queens == 0:
		return -kpk(p, Black), true
	case b.pawns == 1 && b.knights == 0 && b.bishops == 0 && b.rooks == 0 && b.queens == 0 && w.rooks == 1 && w.pawns == 0 && w.knights == 0 && w.bishops == 0 && w.queens == 0:
		return krkp(p, White), true
	case w.pawns == 1 && w.knights == 0 && w.bishops == 0 && w.rooks == 0 && w.queens == 0 && b.rooks == 1 && b.pawns == 0 && b.knights == 0 && b.bishops == 0 && b.queens == 0:
		return -krkp(p, Black), true
	}

	return 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func chebyshev(a, b Square) int {
	df := abs(int(a.FileOf()) - int(b.FileOf()))
	dr := abs(int(a.RankOf()) - int(b.RankOf()))
	if df > dr {
		return df
	}
	return dr
}

// cornerDistance returns how far sq is from the nearest board edge (0 on
// the edge, 3 in the centre), used to shape a drive-to-the-edge mating
// technique.
func cornerDistance(sq Square) int {
	f, r := int(sq.FileOf()), int(sq.RankOf())
	df := f
	if 7-f < df {
		df = 7 - f
	}
	dr := r
	if 7-r < dr {
		dr = 7 - r
	}
	if df < dr {
		return df
	}
	return dr
}

// basicMate drives the defending king to the edge of the board and the
// attacking king close to it: sufficient technique for KQK and KRK.
func basicMate(p *position.Position, strong Color, materialValue Value) Value {
	weak := strong.Flip()
	weakKing := p.KingSquare(weak)
	strongKing := p.KingSquare(strong)

	score := materialValue + p.Material(strong) - p.Material(weak)
	score += Value(30 * (3 - cornerDistance(weakKing)))
	score += Value(10 * (7 - chebyshev(strongKing, weakKing)))
	return score
}

// kbnk drives the weak king to the corner matching the bishop's square
// colour, the only corner a bishop-and-knight mate can be forced into.
func kbnk(p *position.Position, strong Color, bishopSq Square) Value {
	weak := strong.Flip()
	weakKing := p.KingSquare(weak)
	strongKing := p.KingSquare(strong)

	lightSquared := (int(bishopSq.FileOf())+int(bishopSq.RankOf()))%2 != 0

	corners := [2]Square{SqA1, SqH8}
	if lightSquared {
		corners = [2]Square{SqA8, SqH1}
	}
	best := 64
	for _, c := range corners {
		if d := chebyshev(weakKing, c); d < best {
			best = d
		}
	}

	score := Value(320 + 300)
	score += p.Material(strong) - p.Material(weak)
	score += Value(30 * (7 - best))
	score += Value(10 * (7 - chebyshev(strongKing, weakKing)))
	return score
}

// kpk scores king and pawn against king by the pawn's distance to its
// promotion square, with a rook-pawn penalty (a-/h-file pawns often can't
// be forced through when the defending king reaches the queening corner).
// Apart from that rook-pawn case the defending king's position is not
// considered: there is no rule-of-the-square test.
func kpk(p *position.Position, strong Color) Value {
	weak := strong.Flip()

	var pawnSq Square
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := p.PieceAt(sq)
		if pc == MakePiece(strong, Pawn) {
			pawnSq = sq
			break
		}
	}

	promoRank := Rank(7)
	if strong == Black {
		promoRank = Rank(0)
	}
	promoSq := SquareOf(pawnSq.FileOf(), promoRank)

	score := Value(100)
	plies := chebyshev(pawnSq, promoSq)
	score += Value(20 * (6 - plies))

	if pawnSq.FileOf() == FileA || pawnSq.FileOf() == FileH {
		weakKing := p.KingSquare(weak)
		if chebyshev(weakKing, promoSq) <= 1 {
			score = Value(30)
		}
	}

	return score
}

// krkp scores a rook against a lone pawn: usually winning for the rook
// side unless the pawn is far advanced and shepherded by its king.
func krkp(p *position.Position, strong Color) Value {
	weak := strong.Flip()

	var pawnSq Square
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := p.PieceAt(sq)
		if pc == MakePiece(weak, Pawn) {
			pawnSq = sq
			break
		}
	}

	promoRank := Rank(7)
	if weak == Black {
		promoRank = Rank(0)
	}
	distanceToPromotion := abs(int(promoRank) - int(pawnSq.RankOf()))

	score := Value(500) - Value(40*(6-distanceToPromotion))
	if distanceToPromotion <= 1 {
		weakKing := p.KingSquare(weak)
		if chebyshev(weakKing, SquareOf(pawnSq.FileOf(), promoRank)) <= 1 {
			score = Value(100)
		}
	}
	return score
}
