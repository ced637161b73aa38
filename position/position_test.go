/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package position

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/frankkopp/mailboxchess/types"
)

func TestNewFromFenStartPosition(t *testing.T) {
	p, err := NewFromFen(StartFen)
	assert.NoError(t, err)
	assert.Equal(t, White, p.SideToMove())
	assert.Equal(t, CastlingAny, p.CastlingRights())
	assert.Equal(t, SqNone, p.EnPassantSquare())
	assert.Equal(t, 0, p.HalfmoveClock())
	assert.Equal(t, 1, p.FullmoveNumber())
	assert.Equal(t, MakePiece(White, Rook), p.PieceAt(SqA1))
	assert.Equal(t, MakePiece(Black, King), p.PieceAt(SqE8))
	assert.Equal(t, StartFen, p.ToFen())
}

func TestNewFromFenComplexPosition(t *testing.T) {
	fen := "r3k2r/1ppn3p/2q1q1n1/4P3/2q1Pp2/6R1/pbp2PPP/1R4K1 b kq e3 0 14"
	p, err := NewFromFen(fen)
	assert.NoError(t, err)
	assert.Equal(t, Black, p.SideToMove())
	assert.Equal(t, CastlingBlack, p.CastlingRights())
	assert.Equal(t, SqE3, p.EnPassantSquare())
	assert.Equal(t, 0, p.HalfmoveClock())
	assert.Equal(t, 14, p.FullmoveNumber())
	assert.Equal(t, fen, p.ToFen())
}

func TestNewFromFenRejectsMalformedInput(t *testing.T) {
	_, err := NewFromFen("not a fen")
	assert.Error(t, err)

	_, err = NewFromFen("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN w KQkq - 0 1")
	assert.Error(t, err)
}

func TestPositionMakeUnmakeRestoresState(t *testing.T) {
	p := New()
	startFen := p.ToFen()
	startKey := p.ZobristKey()

	moves := []Move{
		NewMove(SqE2, SqE4, PtNone),
		NewMove(SqD7, SqD5, PtNone),
		NewMove(SqE4, SqD5, PtNone),
		NewMove(SqD8, SqD5, PtNone),
		NewMove(SqB1, SqC3, PtNone),
	}
	var undos []UndoRecord
	for _, m := range moves {
		undos = append(undos, p.Make(m))
	}
	for i := len(moves) - 1; i >= 0; i-- {
		p.Unmake(moves[i], undos[i])
	}

	assert.Equal(t, startFen, p.ToFen())
	assert.Equal(t, startKey, p.ZobristKey())
}

func TestPositionMakeMatchesIncrementalHash(t *testing.T) {
	p := New()
	p.Make(NewMove(SqE2, SqE4, PtNone))
	p.Make(NewMove(SqD7, SqD5, PtNone))

	want := zobristHash(p)
	assert.Equal(t, want, p.ZobristKey())
}

func TestPositionMakeNormalMove(t *testing.T) {
	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq e3 0 14"
	p, err := NewFromFen(fen)
	assert.NoError(t, err)
	p.Make(NewMove(SqC4, SqD4, PtNone))
	assert.Equal(t, "r3k2r/1ppn3p/2q1q1n1/8/3qPp2/B5R1/p1p2PPP/1R4K1 w kq - 1 15", p.ToFen())
}

func TestPositionMakeCastling(t *testing.T) {
	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq - 0 14"
	p, err := NewFromFen(fen)
	assert.NoError(t, err)
	p.Make(NewCastling(SqE8, SqG8))
	assert.Equal(t, "r4rk1/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 w - - 1 15", p.ToFen())
}

func TestPositionMakeCastlingQueenside(t *testing.T) {
	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq - 0 14"
	p, err := NewFromFen(fen)
	assert.NoError(t, err)
	p.Make(NewCastling(SqE8, SqC8))
	assert.Equal(t, "2kr3r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 w - - 1 15", p.ToFen())
}

func TestPositionMakeEnPassant(t *testing.T) {
	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq e3 0 14"
	p, err := NewFromFen(fen)
	assert.NoError(t, err)
	p.Make(NewEnPassant(SqF4, SqE3))
	assert.Equal(t, "r3k2r/1ppn3p/2q1q1n1/8/2q5/B3p1R1/p1p2PPP/1R4K1 w kq - 0 15", p.ToFen())
}

func TestPositionMakePromotion(t *testing.T) {
	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq - 0 14"
	p, err := NewFromFen(fen)
	assert.NoError(t, err)
	p.Make(NewMove(SqA2, SqA1, Queen))
	assert.Equal(t, "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/2p2PPP/qR4K1 w kq - 0 15", p.ToFen())
}

func TestPositionMakeUnmakeEnPassantRestoresCapturedPawn(t *testing.T) {
	fen := "r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/B5R1/p1p2PPP/1R4K1 b kq e3 0 14"
	p, err := NewFromFen(fen)
	assert.NoError(t, err)
	startFen := p.ToFen()
	startKey := p.ZobristKey()
	m := NewEnPassant(SqF4, SqE3)
	undo := p.Make(m)
	p.Unmake(m, undo)
	assert.Equal(t, startFen, p.ToFen())
	assert.Equal(t, startKey, p.ZobristKey())
}

func TestPositionIsRepetition(t *testing.T) {
	p := New()
	p.Make(NewMove(SqE2, SqE4, PtNone))
	p.Make(NewMove(SqE7, SqE5, PtNone))
	for i := 0; i < 2; i++ {
		p.Make(NewMove(SqG1, SqF3, PtNone))
		p.Make(NewMove(SqB8, SqC6, PtNone))
		p.Make(NewMove(SqF3, SqG1, PtNone))
		p.Make(NewMove(SqC6, SqB8, PtNone))
	}
	assert.False(t, p.IsRepetition())
	p.Make(NewMove(SqG1, SqF3, PtNone))
	p.Make(NewMove(SqB8, SqC6, PtNone))
	p.Make(NewMove(SqF3, SqG1, PtNone))
	p.Make(NewMove(SqC6, SqB8, PtNone))
	assert.True(t, p.IsRepetition())
}

func TestPositionIsFiftyMoves(t *testing.T) {
	p, err := NewFromFen("8/8/4k3/8/8/4K3/8/3R4 w - - 99 50")
	assert.NoError(t, err)
	assert.False(t, p.IsFiftyMoves())
	p.Make(NewMove(SqD1, SqD2, PtNone))
	assert.True(t, p.IsFiftyMoves())
}

func TestHasInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/3k4/8/8/8/8/4K3/8 w - - 0 1", true},
		{"8/3k4/8/8/8/2B5/4K3/8 w - - 0 1", true},
		{"8/8/4K3/8/8/2b5/4k3/8 b - - 0 1", true},
		{"8/8/3BK3/8/8/2b5/4k3/8 b - - 0 1", true},
		{"8/8/2B1K3/2B5/8/8/2n1k3/8 b - - 0 1", false},
		{"8/8/2NNK3/8/8/8/4k3/8 w - - 0 1", true},
		{"8/8/2n1kn2/8/8/8/4K3/4B3 w - - 0 1", false},
		{"8/8/3bk1b1/8/8/8/4K3/4B3 w - - 0 1", false},
		{"8/8/3bk1n1/8/8/8/4K3/4N3 w - - 0 1", false},
	}
	for _, c := range cases {
		p, err := NewFromFen(c.fen)
		assert.NoError(t, err, c.fen)
		assert.Equal(t, c.want, p.HasInsufficientMaterial(), c.fen)
	}
}

func TestPositionClone(t *testing.T) {
	p := New()
	p.Make(NewMove(SqE2, SqE4, PtNone))
	c := p.Clone()
	assert.Equal(t, p.ToFen(), c.ToFen())
	c.Make(NewMove(SqE7, SqE5, PtNone))
	assert.NotEqual(t, p.ToFen(), c.ToFen())
}
