/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package types

// Piece-square tables, laid out as printed with the top row being the
// owning side's eighth rank. White pieces look up index 63-sq and Black
// pieces index sq, so the files of the White lookup are mirrored as
// well. Separate tables are
// kept for middlegame and endgame so the evaluator can interpolate them
// by game phase.

var pawnMidGame = [SqLength]Value{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 5, 5, 5, 5, 5, 5, 0,
	5, 5, 10, 30, 30, 10, 5, 5,
	0, 0, 0, 30, 30, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -30, -30, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var pawnEndGame = [SqLength]Value{
	0, 0, 0, 0, 0, 0, 0, 0,
	90, 90, 90, 90, 90, 90, 90, 90,
	40, 50, 50, 60, 60, 50, 50, 40,
	20, 30, 30, 40, 40, 30, 30, 20,
	10, 10, 20, 20, 20, 10, 10, 10,
	5, 10, 10, 10, 10, 10, 10, 5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightMidGame = [SqLength]Value{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -25, -20, -30, -30, -20, -25, -50,
}

var knightEndGame = [SqLength]Value{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -20, -30, -30, -20, -40, -50,
}

var bishopMidGame = [SqLength]Value{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -40, -10, -10, -40, -10, -20,
}

var bishopEndGame = [SqLength]Value{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookMidGame = [SqLength]Value{
	5, 5, 5, 5, 5, 5, 5, 5,
	10, 10, 10, 10, 10, 10, 10, 10,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	-15, -10, 15, 15, 15, 15, -10, -15,
}

var rookEndGame = [SqLength]Value{
	5, 5, 5, 5, 5, 5, 5, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var queenMidGame = [SqLength]Value{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-5, 0, 2, 2, 2, 2, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var queenEndGame = [SqLength]Value{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidGame = [SqLength]Value{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -30, -30, -30, -20, -10,
	0, 0, -20, -20, -20, -20, 0, 0,
	20, 50, 0, -20, -20, 0, 50, 20,
}

var kingEndGame = [SqLength]Value{
	-50, -30, -30, -20, -20, -30, -30, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var midGameTable = [PtLength]*[SqLength]Value{
	King:   &kingMidGame,
	Pawn:   &pawnMidGame,
	Knight: &knightMidGame,
	Bishop: &bishopMidGame,
	Rook:   &rookMidGame,
	Queen:  &queenMidGame,
}

var endGameTable = [PtLength]*[SqLength]Value{
	King:   &kingEndGame,
	Pawn:   &pawnEndGame,
	Knight: &knightEndGame,
	Bishop: &bishopEndGame,
	Rook:   &rookEndGame,
	Queen:  &queenEndGame,
}

// PsqMidValue returns the middlegame piece-square value for piece p on
// square sq, from the moving side's own perspective.
func PsqMidValue(p Piece, sq Square) Value {
	pt := p.TypeOf()
	if pt == PtNone {
		return 0
	}
	table := midGameTable[pt]
	if p.ColorOf() == White {
		return table[63-sq]
	}
	return table[sq]
}

// PsqEndValue returns the endgame piece-square value for piece p on
// square sq, from the moving side's own perspective.
func PsqEndValue(p Piece, sq Square) Value {
	pt := p.TypeOf()
	if pt == PtNone {
		return 0
	}
	table := endGameTable[pt]
	if p.ColorOf() == White {
		return table[63-sq]
	}
	return table[sq]
}
