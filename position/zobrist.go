/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package position

import (
	"math/rand"

	. "github.com/frankkopp/mailboxchess/types"
)

// zobristSeed fixes the random source used to build the key tables so the
// hash is stable and reproducible across runs - a hard requirement for the
// transposition table and for comparing search traces between versions.
const zobristSeed = 1066

var (
	zobristPieceKeys    [PieceLength][SqLength]Key
	zobristCastlingKeys [CastlingLength]Key
	zobristEpKeys       [8]Key
	zobristSideKey      Key
)

func init() {
	rnd := rand.New(rand.NewSource(zobristSeed))
	for piece := PieceNone; piece < PieceLength; piece++ {
		for sq := SqA1; sq <= SqH8; sq++ {
			zobristPieceKeys[piece][sq] = Key(rnd.Uint64())
		}
	}
	for cr := CastlingRights(0); cr < CastlingLength; cr++ {
		zobristCastlingKeys[cr] = Key(rnd.Uint64())
	}
	for f := FileA; f <= FileH; f++ {
		zobristEpKeys[f] = Key(rnd.Uint64())
	}
	zobristSideKey = Key(rnd.Uint64())
}

// zobristPieceKey returns the key toggled when piece is placed on or
// removed from sq. PieceNone always contributes the zero key so that
// touching empty squares is a no-op.
func zobristPieceKey(piece Piece, sq Square) Key {
	if piece == PieceNone {
		return 0
	}
	return zobristPieceKeys[piece][sq]
}

// zobristCastlingKey returns the key for a given castling rights mask.
func zobristCastlingKey(cr CastlingRights) Key {
	return zobristCastlingKeys[cr]
}

// zobristEpFile returns the key for the en passant file of sq, or zero if
// sq is SqNone. Only the file matters: a position can have at most one
// en passant target per side to move, so no rank component is needed.
func zobristEpFile(sq Square) Key {
	if sq == SqNone {
		return 0
	}
	return zobristEpKeys[sq.FileOf()]
}

// zobristHash computes the full Zobrist hash of p from scratch. Used only
// to build the initial key when a position is loaded from FEN; during
// search the key is maintained incrementally by Make/Unmake.
func zobristHash(p *Position) Key {
	var key Key
	for sq := SqA1; sq <= SqH8; sq++ {
		key ^= zobristPieceKey(p.board[sq], sq)
	}
	key ^= zobristCastlingKey(p.castlingRights)
	key ^= zobristEpFile(p.enPassantSquare)
	if !p.whiteToMove {
		key ^= zobristSideKey
	}
	return key
}
