//
// input.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package psi

import (
	"os"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// ReadInput reads count input bits from the file.
func ReadInput(path string, count int) (*bitset.BitSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseInput(data, count)
}

// ParseInput parses count input bits from the data. The byte '0'
// is the bit 0 and any other byte is the bit 1. Any data after the
// first count bytes is ignored.
func ParseInput(data []byte, count int) (*bitset.BitSet, error) {
	if len(data) < count {
		return nil, errors.Errorf("input too short: got %d bits, need %d",
			len(data), count)
	}
	result := bitset.New(uint(count))
	for i := 0; i < count; i++ {
		if data[i] != '0' {
			result.Set(uint(i))
		}
	}
	return result, nil
}

// Bools returns the first count bits of the bitset.
func Bools(bits *bitset.BitSet, count int) []bool {
	result := make([]bool, count)
	for i := range result {
		result[i] = bits.Test(uint(i))
	}
	return result
}
