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

package types

import (
	"fmt"

	"github.com/frankkopp/mailboxchess/assert"
)

// Square is one of the 64 squares of a mailbox board. SqNone (-1) marks
// "no square", used for an absent en passant target.
type Square int8

//noinspection GoUnusedConst
const (
	SqA1 Square = iota
	SqB1
	SqC1
	SqD1
	SqE1
	SqF1
	SqG1
	SqH1
	SqA2
	SqB2
	SqC2
	SqD2
	SqE2
	SqF2
	SqG2
	SqH2
	SqA3
	SqB3
	SqC3
	SqD3
	SqE3
	SqF3
	SqG3
	SqH3
	SqA4
	SqB4
	SqC4
	SqD4
	SqE4
	SqF4
	SqG4
	SqH4
	SqA5
	SqB5
	SqC5
	SqD5
	SqE5
	SqF5
	SqG5
	SqH5
	SqA6
	SqB6
	SqC6
	SqD6
	SqE6
	SqF6
	SqG6
	SqH6
	SqA7
	SqB7
	SqC7
	SqD7
	SqE7
	SqF7
	SqG7
	SqH7
	SqA8
	SqB8
	SqC8
	SqD8
	SqE8
	SqF8
	SqG8
	SqH8
)

// SqNone represents "no square", e.g. an absent en passant target.
const SqNone Square = -1

// IsValid checks a value of type Square represents a valid board square.
func (sq Square) IsValid() bool {
	return sq >= SqA1 && sq <= SqH8
}

// FileOf returns the file of the square.
func (sq Square) FileOf() File {
	return File(sq % 8)
}

// RankOf returns the rank of the square.
func (sq Square) RankOf() Rank {
	return Rank(sq / 8)
}

// MakeSquare returns a square based on the algebraic string given or
// SqNone if no valid square could be read from the string.
func MakeSquare(s string) Square {
	if assert.DEBUG {
		assert.Assert(len(s) == 2, "square string is not 2 characters long")
	}
	if len(s) != 2 {
		return SqNone
	}
	file := File(s[0] - 'a')
	rank := Rank(s[1] - '1')
	if !file.IsValid() || !rank.IsValid() {
		return SqNone
	}
	return SquareOf(file, rank)
}

// String returns the algebraic name of the square (e.g. "e5"), or "-" if
// the square is not valid.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return sq.FileOf().String() + sq.RankOf().String()
}

// SquareOf returns the square for the given file and rank, or SqNone for
// invalid files or ranks.
func SquareOf(f File, r Rank) Square {
	if !f.IsValid() || !r.IsValid() {
		return SqNone
	}
	return Square(int(r)*8 + int(f))
}

// mailbox move deltas, one per rank/file-bound direction.
const (
	DirNorth     = 8
	DirSouth     = -8
	DirEast      = 1
	DirWest      = -1
	DirNorthEast = 9
	DirNorthWest = 7
	DirSouthEast = -7
	DirSouthWest = -9
)

// KnightDeltas are the eight knight-move offsets.
var KnightDeltas = [8]int{17, 15, 10, 6, -6, -10, -15, -17}

// KingDeltas are the eight king-move offsets (also used for queen rays below).
var KingDeltas = [8]int{8, 9, 1, -7, -8, -9, -1, 7}

// BishopDeltas and RookDeltas are the ray directions for sliding pieces.
var BishopDeltas = [4]int{9, 7, -7, -9}
var RookDeltas = [4]int{8, -8, 1, -1}

// To returns the square reached by applying delta to sq, or SqNone if the
// step would wrap around a board edge. delta must be one of the deltas
// declared above (single-step king/rook/bishop direction or knight jump).
func (sq Square) To(delta int) Square {
	if !sq.IsValid() {
		return SqNone
	}
	to := int(sq) + delta
	if to < 0 || to > 63 {
		return SqNone
	}
	fileDelta := int(Square(to).FileOf()) - int(sq.FileOf())
	if fileDelta < 0 {
		fileDelta = -fileDelta
	}
	// A legal single king/rook/bishop step or knight jump never changes the
	// file by more than 2; anything larger means the delta wrapped a rank.
	maxFileDelta := 1
	switch delta {
	case 17, 15, -15, -17:
		maxFileDelta = 1
	case 10, 6, -6, -10:
		maxFileDelta = 2
	}
	if fileDelta > maxFileDelta {
		return SqNone
	}
	return Square(to)
}
