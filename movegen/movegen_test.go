/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package movegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
)

func TestGeneratePseudoLegalMovesStartPosition(t *testing.T) {
	p := position.New()
	mg := New()
	moves := mg.GeneratePseudoLegalMoves(p, GenAll)
	assert.Equal(t, 20, len(moves))
}

func TestGenerateLegalMovesStartPosition(t *testing.T) {
	p := position.New()
	mg := New()
	moves := mg.GenerateLegalMoves(p, GenAll)
	assert.Equal(t, 20, len(moves))
}

func TestGenerateLegalMovesPinnedPieceCannotMove(t *testing.T) {
	p, err := position.NewFromFen("4k3/8/8/8/8/4r3/4B3/4K3 w - - 0 1")
	assert.NoError(t, err)
	mg := New()
	moves := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range moves {
		assert.NotEqual(t, SqE2, m.From, "pinned bishop must not move")
	}
}

func TestGenerateLegalMovesCastlingBlockedByCheck(t *testing.T) {
	p, err := position.NewFromFen("r3k2r/8/8/8/4R3/8/8/4K3 b kq - 0 1")
	assert.NoError(t, err)
	mg := New()
	moves := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range moves {
		assert.False(t, m.IsCastling, "cannot castle while in check")
	}
}

func TestGenerateLegalMovesCastlingThroughCheckIsIllegal(t *testing.T) {
	p, err := position.NewFromFen("r3k2r/8/8/8/8/8/5R2/4K3 b kq - 0 1")
	assert.NoError(t, err)
	mg := New()
	moves := mg.GenerateLegalMoves(p, GenAll)
	for _, m := range moves {
		if m.IsCastling {
			assert.NotEqual(t, SqG8, m.To, "king may not castle through an attacked square")
		}
	}
}

func TestGenerateLegalMovesEnPassantCapture(t *testing.T) {
	p, err := position.NewFromFen("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1")
	assert.NoError(t, err)
	mg := New()
	moves := mg.GenerateLegalMoves(p, GenAll)
	found := false
	for _, m := range moves {
		if m.IsEnPassant {
			assert.Equal(t, SqE5, m.From)
			assert.Equal(t, SqD6, m.To)
			found = true
		}
	}
	assert.True(t, found, "expected an en passant capture to be generated")
}

func TestIsSquareAttacked(t *testing.T) {
	p, err := position.NewFromFen("r3k2r/1ppn3p/2q1q1n1/8/2q1Pp2/6R1/p1p2PPP/1R4K1 b kq e3 0 1")
	assert.NoError(t, err)
	assert.True(t, IsSquareAttacked(p, SqG3, White))
	assert.True(t, IsSquareAttacked(p, SqB1, Black))
	assert.False(t, IsSquareAttacked(p, SqG1, Black))
}

func TestHasLegalMoveDetectsStalemate(t *testing.T) {
	p, err := position.NewFromFen("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	assert.NoError(t, err)
	mg := New()
	assert.False(t, mg.HasLegalMove(p))
	assert.False(t, InCheck(p, Black))
}

func TestHasLegalMoveDetectsCheckmate(t *testing.T) {
	p, err := position.NewFromFen("6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	assert.NoError(t, err)
	m := NewMove(SqA1, SqA8, PtNone)
	p.Make(m)
	mg := New()
	assert.True(t, InCheck(p, Black))
	assert.False(t, mg.HasLegalMove(p))
}
