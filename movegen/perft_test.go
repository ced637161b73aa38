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
)

// Node counts below are the well-known perft reference values for the
// starting position at depths 1-4.
func TestPerftStartPosition(t *testing.T) {
	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}
	for _, c := range cases {
		p := NewPerft()
		p.StartPerft(position.StartFen, c.depth)
		assert.Equal(t, c.nodes, p.Nodes, "depth %d", c.depth)
	}
}

// The "Kiwipete" position exercises castling, en passant and promotions
// heavily and is a standard second perft reference position.
func TestPerftKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	p := NewPerft()
	p.StartPerft(fen, 1)
	assert.Equal(t, uint64(48), p.Nodes)
	p.StartPerft(fen, 2)
	assert.Equal(t, uint64(2039), p.Nodes)
}

