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

package types

// Move is an immutable record of one ply. Two moves are equal iff
// (From, To, Promotion) match; IsCastling and IsEnPassant are precomputed
// by the generator for fast dispatch in make/unmake and are not part of
// move identity.
type Move struct {
	From        Square
	To          Square
	Promotion   PieceType
	IsCastling  bool
	IsEnPassant bool
}

// MoveNone is the "no move" value, encoded on the wire as "0000".
var MoveNone = Move{From: SqNone, To: SqNone}

// NewMove creates a plain (non-castling, non-en-passant) move.
func NewMove(from, to Square, promotion PieceType) Move {
	return Move{From: from, To: to, Promotion: promotion}
}

// NewCastling creates a castling move (king two squares horizontally).
func NewCastling(from, to Square) Move {
	return Move{From: from, To: to, IsCastling: true}
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move{From: from, To: to, IsEnPassant: true}
}

// IsValid reports whether m carries a real from/to pair.
func (m Move) IsValid() bool {
	return m.From.IsValid() && m.To.IsValid()
}

// Equals reports move identity per the spec: same from, to and promotion.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// IsPromotion reports whether m promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion != PtNone
}

var promotionChar = map[PieceType]string{
	Queen:  "q",
	Rook:   "r",
	Bishop: "b",
	Knight: "n",
}

// String renders the UCI wire form: "<from><to>[qrbn]", or "0000" for
// the no-move value.
func (m Move) String() string {
	if !m.IsValid() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += promotionChar[m.Promotion]
	}
	return s
}
