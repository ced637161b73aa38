/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frankkopp/mailboxchess/config"
	"github.com/frankkopp/mailboxchess/position"
)

func init() {
	config.Setup()
}

func TestStartPositionIsBalanced(t *testing.T) {
	p := position.New()
	e := NewEvaluator()
	assert.EqualValues(t, 0, e.Evaluate(p))
}

func TestMirroredPositionIsBalanced(t *testing.T) {
	p, err := position.NewFromFen("r1bq1rk1/pppp1pp1/2n2n1p/1B2p3/1b2P3/2N2N1P/PPPP1PP1/R1BQ1RK1 w - - 0 1")
	assert.NoError(t, err)
	e := NewEvaluator()
	assert.EqualValues(t, 0, e.Evaluate(p))
}

func TestEvaluateFavorsExtraQueen(t *testing.T) {
	p, err := position.NewFromFen("4k3/8/8/8/8/8/8/4KQ2 w - - 0 1")
	assert.NoError(t, err)
	e := NewEvaluator()
	assert.Greater(t, int(e.Evaluate(p)), 800)
}

func TestEvaluateIsSideToMoveRelative(t *testing.T) {
	white, err := position.NewFromFen("4k3/8/8/8/8/8/8/4KQ2 w - - 0 1")
	assert.NoError(t, err)
	black, err := position.NewFromFen("4k3/8/8/8/8/8/8/4KQ2 b - - 0 1")
	assert.NoError(t, err)
	e := NewEvaluator()
	assert.EqualValues(t, e.Evaluate(white), -e.Evaluate(black))
}

func TestEvaluateInsufficientMaterialIsDraw(t *testing.T) {
	p, err := position.NewFromFen("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	assert.NoError(t, err)
	e := NewEvaluator()
	assert.EqualValues(t, 0, e.Evaluate(p))
}

func TestEvaluatePassedPawnOutweighsIsolatedPawn(t *testing.T) {
	withPassed, err := position.NewFromFen("4k3/8/8/4P3/8/8/8/4K3 w - - 0 1")
	assert.NoError(t, err)
	withBlocked, err := position.NewFromFen("4k3/4p3/8/4P3/8/8/8/4K3 w - - 0 1")
	assert.NoError(t, err)
	e := NewEvaluator()
	assert.Greater(t, int(e.Evaluate(withPassed)), int(e.Evaluate(withBlocked)))
}
