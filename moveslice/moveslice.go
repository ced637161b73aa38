/*
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 */

// Package moveslice provides a slice facade for chess moves used for move
// lists, killer slots and principal variation lines throughout search and
// move generation.
package moveslice

import (
	"fmt"
	"strings"

	. "github.com/frankkopp/mailboxchess/types"
)

// MoveSlice is a slice of moves with deque-style helpers.
type MoveSlice []Move

// New creates a new move slice with the given capacity and 0 elements.
func New(cap int) MoveSlice {
	return make([]Move, 0, cap)
}

// PushBack appends an element at the end of the slice.
func (ma *MoveSlice) PushBack(m Move) {
	*ma = append(*ma, m)
}

// PopBack removes and returns the move from the back of the slice. Panics
// if the slice is empty.
func (ma *MoveSlice) PopBack() Move {
	if len(*ma) == 0 {
		panic("moveslice: PopBack on empty slice")
	}
	m := (*ma)[len(*ma)-1]
	*ma = (*ma)[:len(*ma)-1]
	return m
}

// PushFront prepends an element at the beginning of the slice.
func (ma *MoveSlice) PushFront(m Move) {
	*ma = append(*ma, MoveNone)
	copy((*ma)[1:], *ma)
	(*ma)[0] = m
}

// PopFront removes and returns the move from the front of the slice.
// Panics if the slice is empty.
func (ma *MoveSlice) PopFront() Move {
	if len(*ma) == 0 {
		panic("moveslice: PopFront on empty slice")
	}
	m := (*ma)[0]
	*ma = (*ma)[1:]
	return m
}

// Front returns the move at the front of the slice. Panics if empty.
func (ma *MoveSlice) Front() Move {
	if len(*ma) == 0 {
		panic("moveslice: Front on empty slice")
	}
	return (*ma)[0]
}

// Back returns the move at the back of the slice. Panics if empty.
func (ma *MoveSlice) Back() Move {
	if len(*ma) == 0 {
		panic("moveslice: Back on empty slice")
	}
	return (*ma)[len(*ma)-1]
}

// At returns the move at index i without bounds checking.
func (ma *MoveSlice) At(i int) Move {
	return (*ma)[i]
}

// Set stores move at index i without bounds checking.
func (ma *MoveSlice) Set(i int, move Move) {
	(*ma)[i] = move
}

// Len returns the number of moves currently held.
func (ma *MoveSlice) Len() int {
	return len(*ma)
}

// Contains reports whether m is already present (by move identity).
func (ma *MoveSlice) Contains(m Move) bool {
	for _, x := range *ma {
		if x.Equals(m) {
			return true
		}
	}
	return false
}

// Filter keeps only the elements for which f returns true, rebuilding the
// slice in place over its existing backing array.
func (ma *MoveSlice) Filter(f func(index int) bool) {
	b := (*ma)[:0]
	for i, x := range *ma {
		if f(i) {
			b = append(b, x)
		}
	}
	*ma = b
}

// ForEach calls f once per element in stored order.
func (ma *MoveSlice) ForEach(f func(index int)) {
	for i := range *ma {
		f(i)
	}
}

// Data exposes the underlying slice for range loops. Use with care: the
// returned slice aliases ma's backing array.
func (ma *MoveSlice) Data() []Move {
	return *ma
}

// Clear empties the slice while retaining its capacity, avoiding
// reallocation when reused at high frequency during search.
func (ma *MoveSlice) Clear() {
	*ma = (*ma)[:0]
}

// String returns a human-readable listing of the moves.
func (ma *MoveSlice) String() string {
	var os strings.Builder
	fmt.Fprintf(&os, "MoveSlice: [%d] { ", len(*ma))
	for i, m := range *ma {
		if i > 0 {
			os.WriteString(", ")
		}
		os.WriteString(m.String())
	}
	os.WriteString(" }")
	return os.String()
}

// StringUci returns a space separated list of moves in UCI wire format.
func (ma *MoveSlice) StringUci() string {
	var os strings.Builder
	for i, m := range *ma {
		if i > 0 {
			os.WriteString(" ")
		}
		os.WriteString(m.String())
	}
	return os.String()
}
