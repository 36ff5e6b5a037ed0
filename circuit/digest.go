//
// digest.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"github.com/markkurossi/gcpsi/ot"
	"github.com/zeebo/blake3"
)

// Digest computes a digest over the garbled material of the circuit:
// the garbled table, the fixed-wire seed, and the garbling key. Both
// parties compute the same digest after a successful transfer.
func (c *Circuit) Digest() []byte {
	h := blake3.New()

	var data ot.LabelData
	for _, row := range c.Table {
		h.Write(row[0].Bytes(&data))
		h.Write(row[1].Bytes(&data))
	}
	h.Write(c.FixedSeed.Bytes(&data))
	h.Write(c.Key.Bytes(&data))

	return h.Sum(nil)
}
