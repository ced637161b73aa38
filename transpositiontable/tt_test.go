/*
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

package transpositiontable

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
)

func TestEntrySize(t *testing.T) {
	e := TtEntry{
		Key:        0,
		Move:       MoveNone,
		Value:      0,
		Depth:      0,
		Age:        0,
		Type:       Vnone,
		MateThreat: false,
	}
	assert.EqualValues(t, TtEntrySize, unsafe.Sizeof(e))
}

func TestResizeIsPowerOfTwo(t *testing.T) {
	tt := NewTtTable(2)
	assert.EqualValues(t, 0, tt.maxNumberOfEntries&(tt.maxNumberOfEntries-1))
	assert.Equal(t, int(tt.maxNumberOfEntries), cap(tt.data))

	tt = NewTtTable(64)
	assert.EqualValues(t, 0, tt.maxNumberOfEntries&(tt.maxNumberOfEntries-1))
	assert.Equal(t, int(tt.maxNumberOfEntries), cap(tt.data))

	tt = NewTtTable(100)
	assert.EqualValues(t, 0, tt.maxNumberOfEntries&(tt.maxNumberOfEntries-1))

	tt = NewTtTable(0)
	assert.EqualValues(t, 0, tt.maxNumberOfEntries)
	assert.EqualValues(t, 0, tt.Hashfull())
}

func TestGetAndProbe(t *testing.T) {
	tt := NewTtTable(64)

	pos := position.New()
	move := NewMove(SqE2, SqE4, PtNone)
	tt.data[tt.hash(pos.ZobristKey())] = TtEntry{
		Key:        pos.ZobristKey(),
		Move:       move,
		Value:      0,
		Depth:      5,
		Age:        1,
		Type:       Vnone,
		MateThreat: false,
	}
	tt.numberOfEntries++

	// unaltered entry
	e := tt.GetEntry(pos.ZobristKey())
	assert.Equal(t, pos.ZobristKey(), e.Key)
	assert.Equal(t, move, e.Move)
	assert.EqualValues(t, 5, e.Depth)
	assert.EqualValues(t, 1, e.Age)
	assert.Equal(t, Vnone, e.Type)

	// age must be reduced by 1 on probe
	e = tt.Probe(pos.ZobristKey())
	assert.Equal(t, pos.ZobristKey(), e.Key)
	assert.EqualValues(t, 0, e.Age)

	// age does not go below 0
	e = tt.Probe(pos.ZobristKey())
	assert.EqualValues(t, 0, e.Age)

	// a key that was never stored misses
	e = tt.Probe(position.Key(uint64(pos.ZobristKey()) + 1 + tt.maxNumberOfEntries))
	assert.Nil(t, e)
}

func TestClear(t *testing.T) {
	tt := NewTtTable(1)

	pos := position.New()
	move := NewMove(SqE2, SqE4, PtNone)
	tt.Put(pos.ZobristKey(), move, Value(5), 5, Vnone, false, false)

	e := tt.Probe(pos.ZobristKey())
	assert.NotNil(t, e)
	assert.EqualValues(t, 1, tt.numberOfEntries)

	tt.Clear()

	e = tt.Probe(pos.ZobristKey())
	assert.Nil(t, e)
	assert.EqualValues(t, 0, tt.numberOfEntries)
}

func TestAgeEntries(t *testing.T) {
	tt := NewTtTable(4)

	startTime := time.Now()
	for i := range tt.data {
		tt.data[i].Key = position.Key(i + 1)
		tt.data[i].Age = 1
	}
	tt.data[0].Key = 0 // leave one slot empty, must not be aged
	elapsed := time.Since(startTime)
	log.Debug(out.Sprintf("filled tt of %d elements in %d ms", len(tt.data), elapsed.Milliseconds()))
	tt.numberOfEntries = uint64(len(tt.data) - 1)

	tt.AgeEntries()

	assert.EqualValues(t, 1, tt.data[0].Age)
	assert.EqualValues(t, 2, tt.data[1].Age)
	assert.EqualValues(t, 2, tt.data[len(tt.data)-1].Age)
}

func TestPut(t *testing.T) {
	tt := NewTtTable(4)
	move := NewMove(SqE2, SqE4, PtNone)

	// new entry
	tt.Put(111, move, Value(111), 4, ALPHA, false, false)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 1, tt.Stats.numberOfPuts)
	e := tt.Probe(111)
	assert.EqualValues(t, 111, e.Key)
	assert.Equal(t, move, e.Move)
	assert.EqualValues(t, 111, e.Value)
	assert.EqualValues(t, 4, e.Depth)
	assert.Equal(t, ALPHA, e.Type)
	assert.EqualValues(t, false, e.MateThreat)

	// same key -> refresh
	tt.Put(111, move, Value(112), 5, BETA, true, false)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 2, tt.Stats.numberOfPuts)
	assert.EqualValues(t, 1, tt.Stats.numberOfUpdates)
	assert.EqualValues(t, 0, tt.Stats.numberOfCollisions)
	e = tt.Probe(111)
	assert.EqualValues(t, 112, e.Value)
	assert.EqualValues(t, 5, e.Depth)
	assert.Equal(t, BETA, e.Type)
	assert.EqualValues(t, true, e.MateThreat)

	// collision with a deeper entry overwrites
	collisionKey := position.Key(111 + tt.maxNumberOfEntries)
	tt.Put(collisionKey, move, Value(113), 6, EXACT, false, false)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 3, tt.Stats.numberOfPuts)
	assert.EqualValues(t, 1, tt.Stats.numberOfCollisions)
	assert.EqualValues(t, 1, tt.Stats.numberOfOverwrites)
	e = tt.Probe(collisionKey)
	assert.EqualValues(t, collisionKey, e.Key)
	assert.EqualValues(t, 113, e.Value)
	assert.EqualValues(t, 6, e.Depth)
	assert.Equal(t, EXACT, e.Type)

	// collision with a shallower, unforced entry is rejected
	collisionKey2 := position.Key(111 + 2*tt.maxNumberOfEntries)
	tt.Put(collisionKey2, move, Value(114), 4, BETA, true, false)
	assert.EqualValues(t, 1, tt.Len())
	assert.EqualValues(t, 4, tt.Stats.numberOfPuts)
	assert.EqualValues(t, 2, tt.Stats.numberOfCollisions)
	assert.EqualValues(t, 1, tt.Stats.numberOfOverwrites)
	e = tt.Probe(collisionKey2)
	assert.Nil(t, e)
	e = tt.Probe(collisionKey)
	assert.EqualValues(t, collisionKey, e.Key)
	assert.EqualValues(t, 113, e.Value)
}

func TestHashfull(t *testing.T) {
	tt := NewTtTable(4)
	assert.EqualValues(t, 0, tt.Hashfull())
	move := NewMove(SqE2, SqE4, PtNone)
	for i := 0; i < 10; i++ {
		tt.Put(position.Key(i), move, Value(i), 1, EXACT, false, false)
	}
	assert.Greater(t, tt.Hashfull(), 0)
}
