/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package movegen generates pseudo-legal and legal moves for a mailbox
// Position: per-piece-type move generation followed by a make/attacked
// check/unmake legality filter, plus perft support for move generator
// validation.
package movegen

import (
	"regexp"
	"strings"

	"github.com/frankkopp/mailboxchess/assert"
	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
)

// GenMode selects which classes of moves GeneratePseudoLegalMoves returns.
type GenMode int

// Generation mode bits. GenAll requests both captures and quiet moves.
const (
	GenCap    GenMode = 1 << iota
	GenNonCap GenMode = 1 << iota
	GenAll            = GenCap | GenNonCap
)

// MoveGenerator produces move lists for a position. It owns reusable
// backing slices so repeated calls during search do not allocate.
type MoveGenerator struct {
	pseudoLegal []Move
	legal       []Move
}

// New creates a move generator with move-list capacity sized for the
// largest realistic chess position.
func New() *MoveGenerator {
	return &MoveGenerator{
		pseudoLegal: make([]Move, 0, MaxMoves),
		legal:       make([]Move, 0, MaxMoves),
	}
}

// GeneratePseudoLegalMoves returns every move for the side to move that
// obeys piece movement rules, without checking whether the moving side's
// king ends up in check. The returned slice is owned by mg and is
// overwritten by the next call.
func (mg *MoveGenerator) GeneratePseudoLegalMoves(p *position.Position, mode GenMode) []Move {
	mg.pseudoLegal = mg.pseudoLegal[:0]
	us := p.SideToMove()
	generatePawnMoves(p, us, mode, &mg.pseudoLegal)
	for pt := Knight; pt <= Queen; pt++ {
		generatePieceMoves(p, us, pt, mode, &mg.pseudoLegal)
	}
	generateKingMoves(p, us, mode, &mg.pseudoLegal)
	if mode&GenNonCap != 0 {
		generateCastlingMoves(p, us, &mg.pseudoLegal)
	}
	return mg.pseudoLegal
}

// GenerateLegalMoves returns only moves that leave the moving side's own
// king safe, including the castling-specific "not through check" rule.
func (mg *MoveGenerator) GenerateLegalMoves(p *position.Position, mode GenMode) []Move {
	pseudo := mg.GeneratePseudoLegalMoves(p, mode)
	mg.legal = mg.legal[:0]
	for _, m := range pseudo {
		if IsLegal(p, m) {
			mg.legal = append(mg.legal, m)
		}
	}
	return mg.legal
}

var uciMovePattern = regexp.MustCompile(`^([a-h][1-8][a-h][1-8])([nbrqNBRQ])?$`)

// GetMoveFromUci generates all legal moves for p and matches uciMove (e.g.
// "e2e4" or "e7e8q") against them, returning the matching Move or MoveNone
// if uciMove is malformed or not legal in p.
func (mg *MoveGenerator) GetMoveFromUci(p *position.Position, uciMove string) Move {
	matches := uciMovePattern.FindStringSubmatch(uciMove)
	if matches == nil {
		return MoveNone
	}
	for _, m := range mg.GenerateLegalMoves(p, GenAll) {
		if m.String() == strings.ToLower(matches[1]+matches[2]) {
			return m
		}
	}
	return MoveNone
}

var regexSanMove = regexp.MustCompile(`([NBRQK])?([a-h])?([1-8])?x?([a-h][1-8]|O-O-O|O-O)(=?([NBRQ]))?([!?+#]*)?`)

// GetMoveFromSan generates all legal moves for p and matches sanMove (e.g.
// "Nf3", "exd5", "a8=Q", "O-O") against them, returning the matching Move
// or MoveNone if sanMove is malformed, ambiguous or not legal in p.
func (mg *MoveGenerator) GetMoveFromSan(p *position.Position, sanMove string) Move {
	matches := regexSanMove.FindStringSubmatch(sanMove)
	if matches == nil {
		return MoveNone
	}

	pieceChar := matches[1]
	disambFile := matches[2]
	disambRank := matches[3]
	toSquare := matches[4]
	promotionChar := matches[6]

	found := MoveNone
	count := 0

	for _, m := range mg.GenerateLegalMoves(p, GenAll) {
		if m.IsCastling {
			var castlingString string
			switch m.To {
			case SqG1, SqG8:
				castlingString = "O-O"
			case SqC1, SqC8:
				castlingString = "O-O-O"
			default:
				continue
			}
			if castlingString == toSquare {
				found = m
				count++
			}
			continue
		}

		if m.To.String() != toSquare {
			continue
		}

		movingType := p.PieceAt(m.From).TypeOf()
		movingChar := movingType.Char()
		if (len(pieceChar) == 0 && movingType != Pawn) ||
			(len(pieceChar) != 0 && movingChar != pieceChar) {
			continue
		}

		if len(disambFile) != 0 && m.From.FileOf().String() != disambFile {
			continue
		}
		if len(disambRank) != 0 && m.From.RankOf().String() != disambRank {
			continue
		}

		if (len(promotionChar) != 0 && (!m.IsPromotion() || m.Promotion.Char() != promotionChar)) ||
			(len(promotionChar) == 0 && m.IsPromotion()) {
			continue
		}

		found = m
		count++
	}

	if count != 1 {
		return MoveNone
	}
	return found
}

// HasLegalMove reports whether the side to move has at least one legal
// move, without building the full move list - used by the search and by
// checkmate/stalemate detection where only existence matters.
func (mg *MoveGenerator) HasLegalMove(p *position.Position) bool {
	pseudo := mg.GeneratePseudoLegalMoves(p, GenAll)
	for _, m := range pseudo {
		if IsLegal(p, m) {
			return true
		}
	}
	return false
}

// IsLegal reports whether pseudo-legal move m may actually be played: the
// moving side's king must not be in check immediately after, and a
// castling move must neither start in, pass through nor land on an
// attacked square.
func IsLegal(p *position.Position, m Move) bool {
	mover := p.SideToMove()
	opponent := mover.Flip()

	if m.IsCastling {
		if IsSquareAttacked(p, m.From, opponent) {
			return false
		}
		step := DirEast
		if m.To < m.From {
			step = DirWest
		}
		mid := m.From.To(step)
		if IsSquareAttacked(p, mid, opponent) {
			return false
		}
	}

	undo := p.Make(m)
	legal := !IsSquareAttacked(p, p.KingSquare(mover), opponent)
	p.Unmake(m, undo)
	return legal
}

// InCheck reports whether color c's king is currently attacked.
func InCheck(p *position.Position, c Color) bool {
	return IsSquareAttacked(p, p.KingSquare(c), c.Flip())
}

// IsSquareAttacked reports whether sq is attacked by any piece of color by.
func IsSquareAttacked(p *position.Position, sq Square, by Color) bool {
	// pawns: look from sq backwards along the attacker's capture direction
	pawnDir := DirNorth
	if by == Black {
		pawnDir = DirSouth
	}
	for _, file := range [2]int{DirEast, DirWest} {
		if from := sq.To(-pawnDir + file); from.IsValid() {
			if pc := p.PieceAt(from); pc == MakePiece(by, Pawn) {
				return true
			}
		}
	}

	for _, d := range KnightDeltas {
		if from := sq.To(d); from.IsValid() {
			if pc := p.PieceAt(from); pc == MakePiece(by, Knight) {
				return true
			}
		}
	}

	for _, d := range KingDeltas {
		if from := sq.To(d); from.IsValid() {
			if pc := p.PieceAt(from); pc == MakePiece(by, King) {
				return true
			}
		}
	}

	for _, d := range RookDeltas {
		if slidingAttackAlong(p, sq, d, by, Rook, Queen) {
			return true
		}
	}
	for _, d := range BishopDeltas {
		if slidingAttackAlong(p, sq, d, by, Bishop, Queen) {
			return true
		}
	}

	return false
}

// slidingAttackAlong walks from sq in direction d until it hits a piece or
// the board edge, reporting whether that piece belongs to by and is one of
// the two given sliding piece types.
func slidingAttackAlong(p *position.Position, sq Square, d int, by Color, pt1, pt2 PieceType) bool {
	cur := sq
	for {
		cur = cur.To(d)
		if !cur.IsValid() {
			return false
		}
		pc := p.PieceAt(cur)
		if pc == PieceNone {
			continue
		}
		if pc.ColorOf() != by {
			return false
		}
		t := pc.TypeOf()
		return t == pt1 || t == pt2
	}
}

func generatePawnMoves(p *position.Position, us Color, mode GenMode, out *[]Move) {
	them := us.Flip()
	forward := DirNorth
	startRank := Rank2
	promoRank := Rank8
	if us == Black {
		forward = DirSouth
		startRank = Rank7
		promoRank = Rank1
	}
	pawn := MakePiece(us, Pawn)

	for sq := SqA1; sq <= SqH8; sq++ {
		if p.PieceAt(sq) != pawn {
			continue
		}

		if mode&GenNonCap != 0 {
			if one := sq.To(forward); one.IsValid() && p.PieceAt(one) == PieceNone {
				addPawnMoves(out, sq, one, one.RankOf() == promoRank)
				if sq.RankOf() == startRank {
					if two := one.To(forward); two.IsValid() && p.PieceAt(two) == PieceNone {
						*out = append(*out, NewMove(sq, two, PtNone))
					}
				}
			}
		}

		if mode&GenCap != 0 {
			for _, side := range [2]int{DirEast, DirWest} {
				to := sq.To(forward + side)
				if !to.IsValid() {
					continue
				}
				if victim := p.PieceAt(to); victim != PieceNone && victim.ColorOf() == them {
					addPawnMoves(out, sq, to, to.RankOf() == promoRank)
				} else if to == p.EnPassantSquare() {
					*out = append(*out, NewEnPassant(sq, to))
				}
			}
		}
	}
}

func addPawnMoves(out *[]Move, from, to Square, promotes bool) {
	if !promotes {
		*out = append(*out, NewMove(from, to, PtNone))
		return
	}
	*out = append(*out, NewMove(from, to, Queen))
	*out = append(*out, NewMove(from, to, Rook))
	*out = append(*out, NewMove(from, to, Bishop))
	*out = append(*out, NewMove(from, to, Knight))
}

func generatePieceMoves(p *position.Position, us Color, pt PieceType, mode GenMode, out *[]Move) {
	them := us.Flip()
	piece := MakePiece(us, pt)
	sliding := pt == Bishop || pt == Rook || pt == Queen

	var deltas []int
	switch pt {
	case Knight:
		deltas = KnightDeltas[:]
	case Bishop:
		deltas = BishopDeltas[:]
	case Rook:
		deltas = RookDeltas[:]
	case Queen:
		deltas = append(append([]int{}, BishopDeltas[:]...), RookDeltas[:]...)
	}

	for sq := SqA1; sq <= SqH8; sq++ {
		if p.PieceAt(sq) != piece {
			continue
		}
		for _, d := range deltas {
			cur := sq
			for {
				to := cur.To(d)
				if !to.IsValid() {
					break
				}
				target := p.PieceAt(to)
				if target == PieceNone {
					if mode&GenNonCap != 0 {
						*out = append(*out, NewMove(sq, to, PtNone))
					}
				} else {
					if target.ColorOf() == them && mode&GenCap != 0 {
						*out = append(*out, NewMove(sq, to, PtNone))
					}
					break
				}
				if !sliding {
					break
				}
				cur = to
			}
		}
	}
}

func generateKingMoves(p *position.Position, us Color, mode GenMode, out *[]Move) {
	them := us.Flip()
	king := MakePiece(us, King)
	sq := p.KingSquare(us)
	if assert.DEBUG {
		assert.Assert(p.PieceAt(sq) == king, "movegen: king square cache out of sync")
	}
	for _, d := range KingDeltas {
		to := sq.To(d)
		if !to.IsValid() {
			continue
		}
		target := p.PieceAt(to)
		if target == PieceNone {
			if mode&GenNonCap != 0 {
				*out = append(*out, NewMove(sq, to, PtNone))
			}
		} else if target.ColorOf() == them && mode&GenCap != 0 {
			*out = append(*out, NewMove(sq, to, PtNone))
		}
	}
}

func generateCastlingMoves(p *position.Position, us Color, out *[]Move) {
	cr := p.CastlingRights()
	if cr == CastlingNone {
		return
	}
	if us == White {
		if cr.Has(CastlingWhiteOO) && castlingPathClear(p, SqF1, SqG1) {
			*out = append(*out, NewCastling(SqE1, SqG1))
		}
		if cr.Has(CastlingWhiteOOO) && castlingPathClear(p, SqD1, SqC1, SqB1) {
			*out = append(*out, NewCastling(SqE1, SqC1))
		}
	} else {
		if cr.Has(CastlingBlackOO) && castlingPathClear(p, SqF8, SqG8) {
			*out = append(*out, NewCastling(SqE8, SqG8))
		}
		if cr.Has(CastlingBlackOOO) && castlingPathClear(p, SqD8, SqC8, SqB8) {
			*out = append(*out, NewCastling(SqE8, SqC8))
		}
	}
}

func castlingPathClear(p *position.Position, squares ...Square) bool {
	for _, sq := range squares {
		if p.PieceAt(sq) != PieceNone {
			return false
		}
	}
	return true
}
