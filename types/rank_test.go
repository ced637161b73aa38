/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankIsValid(t *testing.T) {
	assert.True(t, Rank1.IsValid())
	assert.True(t, Rank8.IsValid())
	assert.False(t, RankNone.IsValid())
}

func TestRankString(t *testing.T) {
	assert.Equal(t, "1", Rank1.String())
	assert.Equal(t, "8", Rank8.String())
}

func TestRankRelative(t *testing.T) {
	assert.Equal(t, Rank1, Rank1.Relative(White))
	assert.Equal(t, Rank8, Rank1.Relative(Black))
	assert.Equal(t, Rank4, Rank4.Relative(White))
	assert.Equal(t, Rank5, Rank4.Relative(Black))
}
