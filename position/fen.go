/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package position

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/frankkopp/mailboxchess/types"
)

// LoadFen resets p to the position described by fen. Returns an error on
// malformed input; p is left in an undefined state on error.
func (p *Position) LoadFen(fen string) error {
	fields := strings.Fields(strings.TrimSpace(fen))
	if len(fields) < 2 {
		return fmt.Errorf("invalid fen %q: expected at least piece placement and side to move", fen)
	}
	for len(fields) < 6 {
		// castling, en passant, halfmove and fullmove fields are optional
		// trailing fields in many shortened FENs used by test suites.
		switch len(fields) {
		case 2:
			fields = append(fields, "-")
		case 3:
			fields = append(fields, "-")
		case 4:
			fields = append(fields, "0")
		case 5:
			fields = append(fields, "1")
		}
	}

	var board [SqLength]Piece
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid fen %q: expected 8 ranks, got %d", fen, len(ranks))
	}
	for i, rankStr := range ranks {
		r := Rank8 - Rank(i)
		f := FileA
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				f += File(c - '0')
				continue
			}
			piece := pieceFromFenChar(c)
			if piece == PieceNone || f > FileH {
				return fmt.Errorf("invalid fen %q: bad piece placement field %q", fen, rankStr)
			}
			board[SquareOf(f, r)] = piece
			f++
		}
		if f != FileNone {
			return fmt.Errorf("invalid fen %q: rank %q does not sum to 8 files", fen, rankStr)
		}
	}

	var whiteToMove bool
	switch fields[1] {
	case "w":
		whiteToMove = true
	case "b":
		whiteToMove = false
	default:
		return fmt.Errorf("invalid fen %q: side to move must be 'w' or 'b', got %q", fen, fields[1])
	}

	var castlingRights CastlingRights
	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				castlingRights.Add(CastlingWhiteOO)
			case 'Q':
				castlingRights.Add(CastlingWhiteOOO)
			case 'k':
				castlingRights.Add(CastlingBlackOO)
			case 'q':
				castlingRights.Add(CastlingBlackOOO)
			default:
				return fmt.Errorf("invalid fen %q: bad castling field %q", fen, fields[2])
			}
		}
	}

	enPassantSquare := SqNone
	if fields[3] != "-" {
		enPassantSquare = MakeSquare(fields[3])
		if enPassantSquare == SqNone {
			return fmt.Errorf("invalid fen %q: bad en passant field %q", fen, fields[3])
		}
	}

	halfmoveClock, err := strconv.Atoi(fields[4])
	if err != nil || halfmoveClock < 0 {
		return fmt.Errorf("invalid fen %q: bad halfmove clock field %q", fen, fields[4])
	}

	fullmoveNumber, err := strconv.Atoi(fields[5])
	if err != nil || fullmoveNumber < 1 {
		return fmt.Errorf("invalid fen %q: bad fullmove number field %q", fen, fields[5])
	}

	p.board = board
	p.whiteToMove = whiteToMove
	p.castlingRights = castlingRights
	p.enPassantSquare = enPassantSquare
	p.halfmoveClock = halfmoveClock
	p.fullmoveNumber = fullmoveNumber

	p.material = [2]Value{}
	p.psqMid = [2]Value{}
	p.psqEnd = [2]Value{}
	p.gamePhase = 0
	for sq := SqA1; sq <= SqH8; sq++ {
		pc := board[sq]
		if pc == PieceNone {
			continue
		}
		if pc.TypeOf() == King {
			p.kingSquare[pc.ColorOf()] = sq
		}
		c := pc.ColorOf()
		p.material[c] += Value(pc.TypeOf().ValueOf())
		p.psqMid[c] += PsqMidValue(pc, sq)
		p.psqEnd[c] += PsqEndValue(pc, sq)
		p.gamePhase += pc.TypeOf().GamePhaseValue()
	}

	p.zobristKey = zobristHash(p)
	p.hashHistory = []Key{p.zobristKey}
	return nil
}

// pieceFromFenChar maps a single FEN board character to a Piece, or
// PieceNone if c is not a recognized piece letter.
func pieceFromFenChar(c rune) Piece {
	switch c {
	case 'P':
		return MakePiece(White, Pawn)
	case 'N':
		return MakePiece(White, Knight)
	case 'B':
		return MakePiece(White, Bishop)
	case 'R':
		return MakePiece(White, Rook)
	case 'Q':
		return MakePiece(White, Queen)
	case 'K':
		return MakePiece(White, King)
	case 'p':
		return MakePiece(Black, Pawn)
	case 'n':
		return MakePiece(Black, Knight)
	case 'b':
		return MakePiece(Black, Bishop)
	case 'r':
		return MakePiece(Black, Rook)
	case 'q':
		return MakePiece(Black, Queen)
	case 'k':
		return MakePiece(Black, King)
	default:
		return PieceNone
	}
}

var fenPieceChars = map[Piece]rune{
	MakePiece(White, Pawn):   'P',
	MakePiece(White, Knight): 'N',
	MakePiece(White, Bishop): 'B',
	MakePiece(White, Rook):   'R',
	MakePiece(White, Queen):  'Q',
	MakePiece(White, King):   'K',
	MakePiece(Black, Pawn):   'p',
	MakePiece(Black, Knight): 'n',
	MakePiece(Black, Bishop): 'b',
	MakePiece(Black, Rook):   'r',
	MakePiece(Black, Queen):  'q',
	MakePiece(Black, King):   'k',
}

// ToFen renders p as a FEN string.
func (p *Position) ToFen() string {
	var os strings.Builder
	for r := Rank8; ; r-- {
		empty := 0
		for f := FileA; f <= FileH; f++ {
			pc := p.board[SquareOf(f, r)]
			if pc == PieceNone {
				empty++
				continue
			}
			if empty > 0 {
				os.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			os.WriteRune(fenPieceChars[pc])
		}
		if empty > 0 {
			os.WriteString(strconv.Itoa(empty))
		}
		if r == Rank1 {
			break
		}
		os.WriteString("/")
	}

	os.WriteString(" ")
	os.WriteString(p.SideToMove().String())

	os.WriteString(" ")
	if p.castlingRights == CastlingNone {
		os.WriteString("-")
	} else {
		if p.castlingRights.Has(CastlingWhiteOO) {
			os.WriteString("K")
		}
		if p.castlingRights.Has(CastlingWhiteOOO) {
			os.WriteString("Q")
		}
		if p.castlingRights.Has(CastlingBlackOO) {
			os.WriteString("k")
		}
		if p.castlingRights.Has(CastlingBlackOOO) {
			os.WriteString("q")
		}
	}

	os.WriteString(" ")
	os.WriteString(p.enPassantSquare.String())

	fmt.Fprintf(&os, " %d %d", p.halfmoveClock, p.fullmoveNumber)
	return os.String()
}
