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

package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/frankkopp/mailboxchess/config"
	"github.com/frankkopp/mailboxchess/moveslice"
	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
	"github.com/frankkopp/mailboxchess/util"
)

func Test_savePV(t *testing.T) {
	src := moveslice.New(10)
	dest := moveslice.New(10)

	src.PushBack(NewMove(SqE2, SqE4, PtNone))
	src.PushBack(NewMove(SqE7, SqE5, PtNone))
	src.PushBack(NewMove(SqG1, SqF3, PtNone))
	src.PushBack(NewMove(SqB8, SqC6, PtNone))

	savePV(NewMove(SqD2, SqD4, PtNone), &src, &dest)

	// logTest.Debug(dest.String())
	assert.EqualValues(t, 5, dest.Len())
	assert.EqualValues(t, NewMove(SqD2, SqD4, PtNone), dest.At(0))
	assert.EqualValues(t, NewMove(SqB8, SqC6, PtNone), dest.At(4))
}

func TestMate(t *testing.T) {
	s:= NewSearch()
	p, _ := position.NewFromFen("8/8/8/8/8/3K4/R7/5k2 w - -")
	sl:=NewSearchLimits()
	sl.Depth = 8
	s.StartSearch(*p, *sl)
	s.WaitWhileSearching()
	assert.EqualValues(t, ValueCheckMate-7, s.lastSearchResult.BestValue)
}

func TestTiming(t *testing.T) {
	config.Settings.Eval.UseMobility = true
	config.Settings.Eval.UseAdvancedPieceEval = true
	s:= NewSearch()
	p := position.New()
	sl:=NewSearchLimits()
	// sl.Depth = 10
	sl.TimeControl = true
	sl.MoveTime = 60 * time.Second
	s.StartSearch(*p, *sl)
	s.WaitWhileSearching()
	out.Println("TT  : ", s.tt.String())
	out.Println("NPS : ", util.Nps(s.nodesVisited, s.lastSearchResult.SearchTime))
}


