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

func TestColorFlip(t *testing.T) {
	assert.Equal(t, Black, White.Flip())
	assert.Equal(t, White, Black.Flip())
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "w", White.String())
	assert.Equal(t, "b", Black.String())
}

func TestColorDirection(t *testing.T) {
	assert.Equal(t, 1, White.Direction())
	assert.Equal(t, -1, Black.Direction())
}
