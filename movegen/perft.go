/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package movegen

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
)

var perftOut = message.NewPrinter(language.English)

// Perft counts leaf nodes reachable from a position at a fixed depth, a
// standard move generator correctness check: its node counts at each depth
// are publicly known for a handful of reference positions.
type Perft struct {
	Nodes            uint64
	CheckCounter     uint64
	CheckMateCounter uint64
	CaptureCounter   uint64
	EnpassantCounter uint64
	CastleCounter    uint64
	PromotionCounter uint64
	stopFlag         bool
}

// NewPerft creates a new empty Perft instance.
func NewPerft() *Perft {
	return &Perft{}
}

// Stop interrupts an in-progress StartPerft/StartPerftMulti run, for use
// when it was launched in its own goroutine.
func (p *Perft) Stop() {
	p.stopFlag = true
}

// StartPerftMulti runs StartPerft for every depth in [startDepth, endDepth].
func (p *Perft) StartPerftMulti(fen string, startDepth, endDepth int) {
	p.stopFlag = false
	for d := startDepth; d <= endDepth; d++ {
		if p.stopFlag {
			perftOut.Print("perft multi-depth run stopped\n")
			return
		}
		p.StartPerft(fen, d)
	}
}

// StartPerft runs a single-depth perft from fen and prints a results
// summary. depth below 1 is treated as 1.
func (p *Perft) StartPerft(fen string, depth int) {
	p.stopFlag = false
	if depth <= 0 {
		depth = 1
	}

	p.resetCounters()
	pos, err := position.NewFromFen(fen)
	if err != nil {
		perftOut.Printf("perft: invalid fen %q: %v\n", fen, err)
		return
	}
	mgList := make([]*MoveGenerator, depth+1)
	for i := 0; i <= depth; i++ {
		mgList[i] = New()
	}

	perftOut.Printf("Performing PERFT Test for Depth %d\n", depth)
	perftOut.Printf("-----------------------------------------\n")

	start := time.Now()
	result := p.miniMax(depth, pos, mgList)
	elapsed := time.Since(start)

	if p.stopFlag {
		perftOut.Print("perft stopped\n")
		return
	}

	p.Nodes = result
	perftOut.Printf("Time         : %d ms\n", elapsed.Milliseconds())
	perftOut.Printf("NPS          : %d nps\n", (p.Nodes*uint64(time.Second.Nanoseconds()))/uint64(elapsed.Nanoseconds()+1))
	perftOut.Printf("Results:\n")
	perftOut.Printf("   Nodes     : %d\n", p.Nodes)
	perftOut.Printf("   Captures  : %d\n", p.CaptureCounter)
	perftOut.Printf("   EnPassant : %d\n", p.EnpassantCounter)
	perftOut.Printf("   Checks    : %d\n", p.CheckCounter)
	perftOut.Printf("   CheckMates: %d\n", p.CheckMateCounter)
	perftOut.Printf("   Castles   : %d\n", p.CastleCounter)
	perftOut.Printf("   Promotions: %d\n", p.PromotionCounter)
	perftOut.Printf("-----------------------------------------\n")
	perftOut.Printf("Finished PERFT Test for Depth %d\n\n", depth)
}

func (p *Perft) miniMax(depth int, pos *position.Position, mgList []*MoveGenerator) uint64 {
	var totalNodes uint64
	moves := mgList[depth].GenerateLegalMoves(pos, GenAll)

	for _, m := range moves {
		if p.stopFlag {
			return 0
		}
		if depth > 1 {
			undo := pos.Make(m)
			totalNodes += p.miniMax(depth-1, pos, mgList)
			pos.Unmake(m, undo)
			continue
		}

		capture := pos.PieceAt(m.To) != PieceNone
		undo := pos.Make(m)
		totalNodes++
		if m.IsEnPassant {
			p.EnpassantCounter++
			p.CaptureCounter++
		} else if capture {
			p.CaptureCounter++
		}
		if m.IsCastling {
			p.CastleCounter++
		}
		if m.IsPromotion() {
			p.PromotionCounter++
		}
		if InCheck(pos, pos.SideToMove()) {
			p.CheckCounter++
			if !mgList[0].HasLegalMove(pos) {
				p.CheckMateCounter++
			}
		}
		pos.Unmake(m, undo)
	}
	return totalNodes
}

func (p *Perft) resetCounters() {
	p.Nodes = 0
	p.CheckCounter = 0
	p.CheckMateCounter = 0
	p.CaptureCounter = 0
	p.EnpassantCounter = 0
	p.CastleCounter = 0
	p.PromotionCounter = 0
}
