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

// Package transpositiontable implements a transposition table (cache)
// data structure and functionality for a chess engine search.
// The TtTable class is not thread safe and needs to be synchronized
// externally if used from multiple threads. Is especially relevant
// for Resize and Clear which should not be called in parallel
// while searching.
package transpositiontable

import (
	"math"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/frankkopp/mailboxchess/assert"
	"github.com/frankkopp/mailboxchess/logging"
	"github.com/frankkopp/mailboxchess/position"
	. "github.com/frankkopp/mailboxchess/types"
	"github.com/frankkopp/mailboxchess/util"
)

var out = message.NewPrinter(language.German)
var log = logging.GetLog()

// TtEntry is the data structure for each entry in the transposition
// table.
type TtEntry struct {
	Key        position.Key // 64-bit Zobrist key
	Move       Move         // best/refutation move found for this position
	Value      Value        // search value, relative to the position's side to move
	Depth      int8         // remaining depth this entry was searched to
	Age        int8         // 0=freshly used, 1=generated, >1 older generation
	Type       ValueType    // None, Exact, Alpha (upper), Beta (lower)
	MateThreat bool
}

const (
	// TtEntrySize is the size in bytes for each TtEntry.
	TtEntrySize = 24

	// MaxSizeInMB is the maximal memory usage of the tt.
	MaxSizeInMB = 65_536
)

// TtTable is the actual transposition table object holding data and
// state. Create with NewTtTable().
type TtTable struct {
	data               []TtEntry
	sizeInByte         uint64
	hashKeyMask        uint64
	maxNumberOfEntries uint64
	numberOfEntries    uint64
	Stats              TtStats
}

// TtStats holds statistical data on tt usage.
type TtStats struct {
	numberOfPuts       uint64
	numberOfCollisions uint64
	numberOfOverwrites uint64
	numberOfUpdates    uint64
	numberOfProbes     uint64
	numberOfHits       uint64
	numberOfMisses     uint64
}

// NewTtTable creates a new TtTable with the given number of megabytes as a
// maximum of memory usage. Actual size will be determined by the number
// of elements fitting into this size, which needs to be a power of 2
// for efficient hashing/addressing via bit masks.
func NewTtTable(sizeInMByte int) *TtTable {
	tt := TtTable{}
	tt.Resize(sizeInMByte)
	return &tt
}

// Resize resizes the tt table. All entries will be cleared.
func (tt *TtTable) Resize(sizeInMByte int) {
	if sizeInMByte > MaxSizeInMB {
		log.Error(out.Sprintf("Requested size for TT of %d MB reduced to max of %d MB", sizeInMByte, MaxSizeInMB))
		sizeInMByte = MaxSizeInMB
	}

	tt.sizeInByte = uint64(sizeInMByte) * MB
	if tt.sizeInByte == 0 {
		tt.maxNumberOfEntries = 0
	} else {
		tt.maxNumberOfEntries = 1 << uint64(math.Floor(math.Log2(float64(tt.sizeInByte/TtEntrySize))))
	}
	tt.hashKeyMask = tt.maxNumberOfEntries - 1

	tt.sizeInByte = tt.maxNumberOfEntries * TtEntrySize
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)

	log.Info(out.Sprintf("TT Size %d MByte, Capacity %d entries (size=%dByte) (Requested were %d MBytes)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, unsafe.Sizeof(TtEntry{}), sizeInMByte))
	log.Debug(util.MemStat())
}

// GetEntry returns a pointer to the corresponding tt entry. The entry
// could be an empty entry with Key==0. Does not change statistics.
func (tt *TtTable) GetEntry(key position.Key) *TtEntry {
	return &tt.data[tt.hash(key)]
}

// Probe returns a pointer to the corresponding tt entry, or nil if it
// was not found. Decreases TtEntry.Age by 1 on a hit.
func (tt *TtTable) Probe(key position.Key) *TtEntry {
	tt.Stats.numberOfProbes++
	e := &tt.data[tt.hash(key)]
	if e.Key == key {
		e.Age--
		if e.Age < 0 {
			e.Age = 0
		}
		tt.Stats.numberOfHits++
		return e
	}
	tt.Stats.numberOfMisses++
	return nil
}

// Put stores a TtEntry into the tt.
func (tt *TtTable) Put(key position.Key, move Move, value Value, depth int8, valueType ValueType, mateThreat bool, forced bool) {
	if assert.DEBUG {
		assert.Assert(depth >= 0, "TT:put Depth must be >= 0")
	}
	if tt.maxNumberOfEntries == 0 {
		return
	}

	tt.Stats.numberOfPuts++
	e := tt.GetEntry(key)

	if e.Key == 0 {
		tt.numberOfEntries++
		*e = TtEntry{Key: key, Move: move, Value: value, Depth: depth, Age: 1, Type: valueType, MateThreat: mateThreat}
		return
	}

	if e.Key != key {
		tt.Stats.numberOfCollisions++
		if depth > e.Depth || (depth == e.Depth && (forced || e.Age > 1)) {
			tt.Stats.numberOfOverwrites++
			*e = TtEntry{Key: key, Move: move, Value: value, Depth: depth, Age: 1, Type: valueType, MateThreat: mateThreat}
		}
		return
	}

	// same key -> refresh the entry. We always update since the stored
	// value can't be better than what the current search just found,
	// otherwise this probe/store cycle would not have happened.
	tt.Stats.numberOfUpdates++
	*e = TtEntry{Key: key, Move: move, Value: value, Depth: depth, Age: 1, Type: valueType, MateThreat: mateThreat}
}

// Clear clears all entries of the tt.
func (tt *TtTable) Clear() {
	tt.data = make([]TtEntry, tt.maxNumberOfEntries)
	tt.numberOfEntries = 0
	tt.Stats = TtStats{}
}

// Hashfull returns how full the transposition table is in permill, as
// reported by the UCI "hashfull" info field.
func (tt *TtTable) Hashfull() int {
	if tt.maxNumberOfEntries == 0 {
		return 0
	}
	return int((1000 * tt.numberOfEntries) / tt.maxNumberOfEntries)
}

// String returns a string representation of this TtTable instance.
func (tt *TtTable) String() string {
	return out.Sprintf("TT: size %d MB max entries %d of size %d Bytes entries %d (%d) puts %d "+
		"updates %d collisions %d overwrites %d probes %d hits %d (%d) misses %d (%d)",
		tt.sizeInByte/MB, tt.maxNumberOfEntries, unsafe.Sizeof(TtEntry{}), tt.numberOfEntries, tt.Hashfull(),
		tt.Stats.numberOfPuts, tt.Stats.numberOfUpdates, tt.Stats.numberOfCollisions, tt.Stats.numberOfOverwrites, tt.Stats.numberOfProbes,
		tt.Stats.numberOfHits, (tt.Stats.numberOfHits*100)/(1+tt.Stats.numberOfProbes),
		tt.Stats.numberOfMisses, (tt.Stats.numberOfMisses*100)/(1+tt.Stats.numberOfProbes))
}

// Len returns the number of non-empty entries in the tt.
func (tt *TtTable) Len() uint64 {
	return tt.numberOfEntries
}

// ///////////////////////////////////////////////////////////
// Private
// ///////////////////////////////////////////////////////////

func (tt *TtTable) hash(key position.Key) uint64 {
	return uint64(key) & tt.hashKeyMask
}

// AgeEntries ages every occupied entry in the tt, spreading the work
// across a fixed number of goroutines over slices of the backing array.
func (tt *TtTable) AgeEntries() {
	startTime := time.Now()
	if tt.numberOfEntries > 0 {
		numberOfGoroutines := uint64(32)
		var wg sync.WaitGroup
		wg.Add(int(numberOfGoroutines))
		slice := tt.maxNumberOfEntries / numberOfGoroutines
		for i := uint64(0); i < numberOfGoroutines; i++ {
			go func(i uint64) {
				defer wg.Done()
				start := i * slice
				end := start + slice
				if i == numberOfGoroutines-1 {
					end = tt.maxNumberOfEntries
				}
				for n := start; n < end; n++ {
					if tt.data[n].Key != 0 {
						tt.data[n].Age++
					}
				}
			}(i)
		}
		wg.Wait()
	}
	elapsed := time.Since(startTime)
	log.Debug(out.Sprintf("Aged %d entries of %d in %d ms\n", tt.numberOfEntries, len(tt.data), elapsed.Milliseconds()))
}
