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

func TestFileIsValid(t *testing.T) {
	assert.True(t, FileA.IsValid())
	assert.True(t, FileH.IsValid())
	assert.False(t, FileNone.IsValid())
}

func TestFileString(t *testing.T) {
	assert.Equal(t, "a", FileA.String())
	assert.Equal(t, "h", FileH.String())
	assert.Equal(t, "-", FileNone.String())
}

func TestFileDistance(t *testing.T) {
	assert.Equal(t, 7, FileA.Distance(FileH))
	assert.Equal(t, 0, FileD.Distance(FileD))
}
