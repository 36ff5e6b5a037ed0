//
// label.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Wire implements a wire with 0 and 1 labels.
type Wire struct {
	L0 Label
	L1 Label
}

func (w Wire) String() string {
	return fmt.Sprintf("%s/%s", w.L0, w.L1)
}

// Delta returns the XOR offset between the wire's labels.
func (w Wire) Delta() Label {
	d := w.L0
	d.Xor(w.L1)
	return d
}

// Label implements a 128 bit wire label. The D0 holds the most
// significant 64 bits and D1 the least significant 64 bits.
type Label struct {
	D0 uint64
	D1 uint64
}

// LabelData contains lable data as byte array.
type LabelData [16]byte

func (l Label) String() string {
	return fmt.Sprintf("%016x%016x", l.D0, l.D1)
}

// Equal test if the labels are equal.
func (l Label) Equal(o Label) bool {
	return l.D0 == o.D0 && l.D1 == o.D1
}

// NewLabel creates a new random label.
func NewLabel(rand io.Reader) (Label, error) {
	var buf LabelData
	var label Label

	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return label, err
	}
	label.SetData(&buf)
	return label, nil
}

// NewDelta creates a new random free-XOR offset. The offset has its
// point-and-permute bit set so that the two labels of every wire have
// different S bits.
func NewDelta(rand io.Reader) (Label, error) {
	delta, err := NewLabel(rand)
	if err != nil {
		return delta, err
	}
	delta.SetS(true)
	return delta, nil
}

// NewTweak creates a new label from the tweak value. The tweak is
// placed in the high half of the block.
func NewTweak(tweak uint64) Label {
	return Label{
		D0: tweak,
	}
}

// S returns the label's point-and-permute bit, the least significant
// bit of the label.
func (l Label) S() bool {
	return (l.D1 & 1) != 0
}

// SetS sets the label's point-and-permute bit.
func (l *Label) SetS(set bool) {
	if set {
		l.D1 |= 1
	} else {
		l.D1 &^= 1
	}
}

// Bit returns the label's bit i. Bit 0 is the least significant bit.
func (l Label) Bit(i int) uint {
	if i < 64 {
		return uint((l.D1 >> i) & 1)
	}
	return uint((l.D0 >> (i - 64)) & 1)
}

// SetBit sets the label's bit i to the value v.
func (l *Label) SetBit(i int, v uint) {
	if i < 64 {
		l.D1 &^= 1 << i
		l.D1 |= uint64(v&1) << i
	} else {
		l.D0 &^= 1 << (i - 64)
		l.D0 |= uint64(v&1) << (i - 64)
	}
}

// Double multiplies the label by x in GF(2^128) with the reduction
// polynomial x^128 + x^7 + x^2 + x + 1.
func (l *Label) Double() {
	carry := l.D0 >> 63
	l.D0 <<= 1
	l.D0 |= (l.D1 >> 63)
	l.D1 <<= 1
	l.D1 ^= carry * 0x87
}

// Xor xors the label with the argument label.
func (l *Label) Xor(o Label) {
	l.D0 ^= o.D0
	l.D1 ^= o.D1
}

// GetData gets the labels as label data.
func (l Label) GetData(buf *LabelData) {
	binary.BigEndian.PutUint64(buf[0:8], l.D0)
	binary.BigEndian.PutUint64(buf[8:16], l.D1)
}

// SetData sets the labels from label data.
func (l *Label) SetData(data *LabelData) {
	l.D0 = binary.BigEndian.Uint64((*data)[0:8])
	l.D1 = binary.BigEndian.Uint64((*data)[8:16])
}

// Bytes returns the label data as bytes.
func (l Label) Bytes(buf *LabelData) []byte {
	l.GetData(buf)
	return buf[:]
}

// SetBytes sets the label data from bytes.
func (l *Label) SetBytes(data []byte) {
	l.D0 = binary.BigEndian.Uint64(data[0:8])
	l.D1 = binary.BigEndian.Uint64(data[8:16])
}
