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

// Package position represents the chess board and its position as a
// mailbox array, plus all derived state needed for make/unmake, repetition
// detection and the incremental Zobrist hash used by the transposition
// table.
package position

import (
	"fmt"
	"strings"

	"github.com/frankkopp/mailboxchess/assert"
	. "github.com/frankkopp/mailboxchess/types"
)

// Key is a Zobrist hash key for a position.
type Key uint64

// StartFen is the FEN of the initial chess position.
const StartFen = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Position represents a chess position: a mailbox board, side to move,
// castling rights, en passant target, move clocks and the Zobrist hash
// history needed for repetition detection.
type Position struct {
	board           [SqLength]Piece
	whiteToMove     bool
	castlingRights  CastlingRights
	enPassantSquare Square
	halfmoveClock   int
	fullmoveNumber  int

	zobristKey Key
	// hashHistory holds the Zobrist hash of every position since the game
	// start (or, in practice, since the last irreversible move), appended
	// on Make and popped on Unmake. Used by IsRepetition.
	hashHistory []Key

	// kingSquare caches each side's king square; it is not part of the
	// spec's data model but every consumer needs it constantly and
	// recomputing it by scanning the board on each call is wasteful.
	kingSquare [2]Square

	// material, psqMid and psqEnd are maintained incrementally in
	// putPiece/removePiece so the evaluator never has to rescan the
	// board for its material and piece-square terms.
	material  [2]Value
	psqMid    [2]Value
	psqEnd    [2]Value
	gamePhase int
}

// UndoRecord captures everything needed to reverse one Make call.
type UndoRecord struct {
	Move                Move
	MovedPiece          Piece
	CapturedPiece       Piece
	CapturedSquare      Square
	PrevCastlingRights  CastlingRights
	PrevEnPassantSquare Square
	PrevHalfmoveClock   int
}

// New creates a position set up at the standard chess start position.
func New() *Position {
	p, err := NewFromFen(StartFen)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in start fen: %v", err))
	}
	return p
}

// NewFromFen creates a position from a FEN string. Returns an error
// describing the offending field on malformed input.
func NewFromFen(fen string) (*Position, error) {
	p := &Position{}
	if err := p.LoadFen(fen); err != nil {
		return nil, err
	}
	return p, nil
}

// WhiteToMove reports whether White is to move.
func (p *Position) WhiteToMove() bool {
	return p.whiteToMove
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	if p.whiteToMove {
		return White
	}
	return Black
}

// PieceAt returns the piece occupying sq (PieceNone if empty).
func (p *Position) PieceAt(sq Square) Piece {
	return p.board[sq]
}

// CastlingRights returns the current castling rights mask.
func (p *Position) CastlingRights() CastlingRights {
	return p.castlingRights
}

// EnPassantSquare returns the current en passant target square, or SqNone.
func (p *Position) EnPassantSquare() Square {
	return p.enPassantSquare
}

// HalfmoveClock returns the number of plies since the last pawn move or
// capture.
func (p *Position) HalfmoveClock() int {
	return p.halfmoveClock
}

// FullmoveNumber returns the current full move number.
func (p *Position) FullmoveNumber() int {
	return p.fullmoveNumber
}

// ZobristKey returns the current incremental Zobrist hash.
func (p *Position) ZobristKey() Key {
	return p.zobristKey
}

// KingSquare returns the square of color c's king.
func (p *Position) KingSquare(c Color) Square {
	return p.kingSquare[c]
}

// NextPlayer returns the color to move (an alias of SideToMove kept for
// callers that phrase evaluation in terms of "the next player").
func (p *Position) NextPlayer() Color {
	return p.SideToMove()
}

// Material returns the summed piece value of color c's pieces. The king
// contributes a fixed constant that cancels out in a White-Black
// difference, so it is not special-cased here.
func (p *Position) Material(c Color) Value {
	return p.material[c]
}

// PsqMidValue returns the summed middlegame piece-square value of color
// c's pieces.
func (p *Position) PsqMidValue(c Color) Value {
	return p.psqMid[c]
}

// PsqEndValue returns the summed endgame piece-square value of color c's
// pieces.
func (p *Position) PsqEndValue(c Color) Value {
	return p.psqEnd[c]
}

// GamePhase returns the current game phase, from 0 (bare kings) up to
// GamePhaseMax (full material), used to interpolate piece-square values
// and other phase-dependent evaluation terms.
func (p *Position) GamePhase() int {
	if p.gamePhase > GamePhaseMax {
		return GamePhaseMax
	}
	return p.gamePhase
}

// MaterialNonPawn returns the summed piece value of color c's pieces,
// excluding pawns and the king. Used by null move pruning to detect
// endgames prone to zugzwang, where passing the turn is unsafe.
func (p *Position) MaterialNonPawn(c Color) Value {
	var v Value
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := p.board[sq]
		if pc == PieceNone || pc.ColorOf() != c {
			continue
		}
		switch pc.TypeOf() {
		case Pawn, King:
		default:
			v += Value(pc.TypeOf().ValueOf())
		}
	}
	return v
}

// Clone returns an independent deep copy of the position.
func (p *Position) Clone() *Position {
	c := *p
	c.hashHistory = make([]Key, len(p.hashHistory))
	copy(c.hashHistory, p.hashHistory)
	return &c
}

// //////////////////////////////////////////////////////
// Make / Unmake
// //////////////////////////////////////////////////////

// Make commits a move to the board and returns the UndoRecord needed to
// reverse it. The move is assumed legal; Make does not re-validate it -
// that is the move generator's job.
func (p *Position) Make(m Move) UndoRecord {
	if assert.DEBUG {
		assert.Assert(m.IsValid(), "position Make: invalid move %s", m.String())
	}

	mover := p.SideToMove()
	movedPiece := p.board[m.From]
	undo := UndoRecord{
		Move:                m,
		MovedPiece:          movedPiece,
		PrevCastlingRights:  p.castlingRights,
		PrevEnPassantSquare: p.enPassantSquare,
		PrevHalfmoveClock:   p.halfmoveClock,
	}

	prevEp := p.enPassantSquare
	p.zobristKey ^= zobristEpFile(prevEp)
	p.enPassantSquare = SqNone

	switch {
	case m.IsCastling:
		p.doCastle(mover, m)
		p.halfmoveClock++
	case m.IsEnPassant:
		capSq := epVictimSquare(mover, m.To)
		undo.CapturedPiece = p.board[capSq]
		undo.CapturedSquare = capSq
		p.removePiece(capSq)
		p.relocatePiece(m.From, m.To)
		p.halfmoveClock = 0
	default:
		captured := p.board[m.To]
		if captured != PieceNone {
			undo.CapturedPiece = captured
			undo.CapturedSquare = m.To
			p.removePiece(m.To)
		}
		if movedPiece.TypeOf() == Pawn {
			p.halfmoveClock = 0
			if abs(int(m.To)-int(m.From)) == 16 {
				p.enPassantSquare = Square((int(m.From) + int(m.To)) / 2)
			}
		} else if captured != PieceNone {
			p.halfmoveClock = 0
		} else {
			p.halfmoveClock++
		}
		p.relocatePiece(m.From, m.To)
		if m.IsPromotion() {
			p.removePiece(m.To)
			p.putPiece(MakePiece(mover, m.Promotion), m.To)
		}
	}

	p.updateCastlingRights(m.From, m.To, movedPiece)
	p.zobristKey ^= zobristEpFile(p.enPassantSquare)

	p.whiteToMove = !p.whiteToMove
	p.zobristKey ^= zobristSideKey
	if mover == Black {
		p.fullmoveNumber++
	}

	p.hashHistory = append(p.hashHistory, p.zobristKey)
	return undo
}

// Unmake reverses a previous Make call given the move and its UndoRecord.
// After Make(m); Unmake(m, undo), the position is bit-identical to before
// Make, including hash-history length.
func (p *Position) Unmake(m Move, undo UndoRecord) {
	if assert.DEBUG {
		assert.Assert(len(p.hashHistory) > 0, "position Unmake: empty hash history")
	}
	p.hashHistory = p.hashHistory[:len(p.hashHistory)-1]

	p.whiteToMove = !p.whiteToMove
	mover := p.SideToMove()
	if mover == Black {
		p.fullmoveNumber--
	}

	switch {
	case m.IsCastling:
		p.undoCastle(mover, m)
	case m.IsEnPassant:
		p.relocatePiece(m.To, m.From)
		p.putPiece(undo.CapturedPiece, undo.CapturedSquare)
	default:
		if m.IsPromotion() {
			p.removePiece(m.To)
			p.putPiece(MakePiece(mover, Pawn), m.From)
		} else {
			p.relocatePiece(m.To, m.From)
		}
		if undo.CapturedPiece != PieceNone {
			p.putPiece(undo.CapturedPiece, undo.CapturedSquare)
		}
	}

	p.zobristKey ^= zobristCastlingKey(p.castlingRights)
	p.castlingRights = undo.PrevCastlingRights
	p.zobristKey ^= zobristCastlingKey(p.castlingRights)

	p.zobristKey ^= zobristEpFile(p.enPassantSquare)
	p.enPassantSquare = undo.PrevEnPassantSquare
	p.zobristKey ^= zobristEpFile(p.enPassantSquare)

	p.halfmoveClock = undo.PrevHalfmoveClock
	p.zobristKey ^= zobristSideKey
}

// NullUndoRecord captures the state MakeNullMove needs to reverse itself.
type NullUndoRecord struct {
	PrevEnPassantSquare Square
}

// MakeNullMove passes the turn to the opponent without moving a piece,
// used by null-move pruning during search. The board and material are
// untouched; only side to move and the en passant square change.
func (p *Position) MakeNullMove() NullUndoRecord {
	undo := NullUndoRecord{PrevEnPassantSquare: p.enPassantSquare}
	p.zobristKey ^= zobristEpFile(p.enPassantSquare)
	p.enPassantSquare = SqNone
	p.zobristKey ^= zobristEpFile(p.enPassantSquare)
	p.whiteToMove = !p.whiteToMove
	p.zobristKey ^= zobristSideKey
	return undo
}

// UnmakeNullMove reverses a previous MakeNullMove call.
func (p *Position) UnmakeNullMove(undo NullUndoRecord) {
	p.whiteToMove = !p.whiteToMove
	p.zobristKey ^= zobristSideKey
	p.zobristKey ^= zobristEpFile(p.enPassantSquare)
	p.enPassantSquare = undo.PrevEnPassantSquare
	p.zobristKey ^= zobristEpFile(p.enPassantSquare)
}

func (p *Position) doCastle(mover Color, m Move) {
	p.relocatePiece(m.From, m.To)
	rookFrom, rookTo := castlingRookSquares(m.To)
	p.relocatePiece(rookFrom, rookTo)
}

func (p *Position) undoCastle(mover Color, m Move) {
	p.relocatePiece(m.To, m.From)
	rookFrom, rookTo := castlingRookSquares(m.To)
	p.relocatePiece(rookTo, rookFrom)
}

// castlingRookSquares returns the rook's (from, to) squares for a
// castling move landing on kingTo.
func castlingRookSquares(kingTo Square) (Square, Square) {
	switch kingTo {
	case SqG1:
		return SqH1, SqF1
	case SqC1:
		return SqA1, SqD1
	case SqG8:
		return SqH8, SqF8
	case SqC8:
		return SqA8, SqD8
	default:
		panic(fmt.Sprintf("invalid castling destination %s", kingTo))
	}
}

// epVictimSquare returns the square of the pawn captured en passant, which
// lies on the rank the moving pawn departed from, not on the destination.
func epVictimSquare(mover Color, to Square) Square {
	if mover == White {
		return to.To(DirSouth)
	}
	return to.To(DirNorth)
}

func (p *Position) updateCastlingRights(from, to Square, movedPiece Piece) {
	if p.castlingRights == CastlingNone {
		return
	}
	if movedPiece.TypeOf() == King {
		if movedPiece.ColorOf() == White {
			p.setCastlingRights(p.castlingRights &^ CastlingWhite)
		} else {
			p.setCastlingRights(p.castlingRights &^ CastlingBlack)
		}
		return
	}
	erode := func(sq Square) {
		switch sq {
		case SqA1:
			p.setCastlingRights(p.castlingRights &^ CastlingWhiteOOO)
		case SqH1:
			p.setCastlingRights(p.castlingRights &^ CastlingWhiteOO)
		case SqA8:
			p.setCastlingRights(p.castlingRights &^ CastlingBlackOOO)
		case SqH8:
			p.setCastlingRights(p.castlingRights &^ CastlingBlackOO)
		}
	}
	erode(from)
	erode(to)
}

func (p *Position) setCastlingRights(cr CastlingRights) {
	if cr == p.castlingRights {
		return
	}
	p.zobristKey ^= zobristCastlingKey(p.castlingRights)
	p.castlingRights = cr
	p.zobristKey ^= zobristCastlingKey(p.castlingRights)
}

func (p *Position) removePiece(sq Square) {
	piece := p.board[sq]
	p.zobristKey ^= zobristPieceKey(piece, sq)
	p.board[sq] = PieceNone
	c := piece.ColorOf()
	p.material[c] -= Value(piece.TypeOf().ValueOf())
	p.psqMid[c] -= PsqMidValue(piece, sq)
	p.psqEnd[c] -= PsqEndValue(piece, sq)
	p.gamePhase -= piece.TypeOf().GamePhaseValue()
}

func (p *Position) putPiece(piece Piece, sq Square) {
	p.board[sq] = piece
	p.zobristKey ^= zobristPieceKey(piece, sq)
	if piece.TypeOf() == King {
		p.kingSquare[piece.ColorOf()] = sq
	}
	c := piece.ColorOf()
	p.material[c] += Value(piece.TypeOf().ValueOf())
	p.psqMid[c] += PsqMidValue(piece, sq)
	p.psqEnd[c] += PsqEndValue(piece, sq)
	p.gamePhase += piece.TypeOf().GamePhaseValue()
}

// relocatePiece moves a piece between squares without touching material
// or game phase, which depend only on piece identity, not square.
func (p *Position) relocatePiece(from, to Square) {
	piece := p.board[from]
	p.zobristKey ^= zobristPieceKey(piece, from)
	p.board[from] = PieceNone
	c := piece.ColorOf()
	p.psqMid[c] -= PsqMidValue(piece, from)
	p.psqEnd[c] -= PsqEndValue(piece, from)

	p.board[to] = piece
	p.zobristKey ^= zobristPieceKey(piece, to)
	if piece.TypeOf() == King {
		p.kingSquare[c] = to
	}
	p.psqMid[c] += PsqMidValue(piece, to)
	p.psqEnd[c] += PsqEndValue(piece, to)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// //////////////////////////////////////////////////////
// Draw predicates
// //////////////////////////////////////////////////////

// IsFiftyMoves reports whether the 50-move rule draw threshold has been
// reached (halfmove clock >= 100).
func (p *Position) IsFiftyMoves() bool {
	return p.halfmoveClock >= 100
}

// IsRepetition reports whether the current position's hash occurs at
// least 3 times (inclusive of the current one) in the hash history.
func (p *Position) IsRepetition() bool {
	return p.repetitionCount() >= 3
}

// IsApproachingRepetition reports whether the current hash has already
// occurred once before (a cheaper 2-occurrence test so search can apply
// contempt before the third, drawing repetition).
func (p *Position) IsApproachingRepetition() bool {
	return p.repetitionCount() >= 2
}

func (p *Position) repetitionCount() int {
	if len(p.hashHistory) == 0 {
		return 1
	}
	current := p.hashHistory[len(p.hashHistory)-1]
	count := 0
	// The hash history only needs to be scanned back to the last
	// irreversible move; the halfmove clock gives exactly that bound.
	limit := len(p.hashHistory) - 1 - p.halfmoveClock
	if limit < 0 {
		limit = 0
	}
	for i := len(p.hashHistory) - 1; i >= limit; i -= 2 {
		if p.hashHistory[i] == current {
			count++
		}
	}
	return count
}

// HasInsufficientMaterial reports whether neither side has enough
// material to force checkmate: K-vs-K, K+minor-vs-K, K+N+N-vs-K, or
// K+B-vs-K+B with same-colored bishops.
func (p *Position) HasInsufficientMaterial() bool {
	var minors [2]int
	var knights [2]int
	var bishopsOnLight [2]int
	var bishopsOnDark [2]int
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := p.board[sq]
		if pc == PieceNone {
			continue
		}
		switch pc.TypeOf() {
		case Pawn, Rook, Queen:
			return false
		case Knight:
			minors[pc.ColorOf()]++
			knights[pc.ColorOf()]++
		case Bishop:
			minors[pc.ColorOf()]++
			if isLightSquare(sq) {
				bishopsOnLight[pc.ColorOf()]++
			} else {
				bishopsOnDark[pc.ColorOf()]++
			}
		}
	}
	total := minors[White] + minors[Black]
	if total == 0 {
		return true
	}
	if total == 1 {
		return true
	}
	if total == 2 && (knights[White] == 2 || knights[Black] == 2) {
		return true
	}
	if total == 2 && minors[White] == 1 && minors[Black] == 1 {
		sameColorBishops := (bishopsOnLight[White] == 1 && bishopsOnLight[Black] == 1) ||
			(bishopsOnDark[White] == 1 && bishopsOnDark[Black] == 1)
		return sameColorBishops
	}
	return false
}

func isLightSquare(sq Square) bool {
	return (int(sq.FileOf())+int(sq.RankOf()))%2 != 0
}

// //////////////////////////////////////////////////////
// String representations
// //////////////////////////////////////////////////////

// String returns the FEN, a board matrix and move counters for p.
func (p *Position) String() string {
	var os strings.Builder
	os.WriteString(p.ToFen())
	os.WriteString("\n")
	os.WriteString(p.StringBoard())
	return os.String()
}

// StringBoard returns a visual 8x8 matrix of the board.
func (p *Position) StringBoard() string {
	var os strings.Builder
	os.WriteString("+---+---+---+---+---+---+---+---+\n")
	for r := Rank8; r >= Rank1; r-- {
		for f := FileA; f <= FileH; f++ {
			os.WriteString("| ")
			os.WriteString(p.board[SquareOf(f, r)].String())
			os.WriteString(" ")
		}
		os.WriteString("|\n+---+---+---+---+---+---+---+---+\n")
		if r == Rank1 {
			break
		}
	}
	return os.String()
}
