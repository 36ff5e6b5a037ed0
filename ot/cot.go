//
// cot.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"io"

	"github.com/pkg/errors"
)

var (
	_ COT = &IKNP{}
)

// IKNP implements the COT interface with the IKNP OT extension over
// a base OT.
type IKNP struct {
	base  OT
	r     io.Reader
	iknpS *IKNPSender
	iknpR *IKNPReceiver
}

// NewIKNP creates a new correlated OT using the base OT for the IKNP
// setup. The r is the source of randomness for the receiver's base OT
// seeds.
func NewIKNP(base OT, r io.Reader) *IKNP {
	return &IKNP{
		base: base,
		r:    r,
	}
}

// InitSender initializes the OT sender with the correlation offset.
func (cot *IKNP) InitSender(io IO, delta Label) error {
	if cot.iknpS != nil || cot.iknpR != nil {
		return errors.New("already initialized")
	}
	err := cot.base.InitSender(io)
	if err != nil {
		return err
	}
	s, err := NewIKNPSender(cot.base, io, delta)
	if err != nil {
		return err
	}
	cot.iknpS = s
	return nil
}

// InitReceiver initializes the OT receiver.
func (cot *IKNP) InitReceiver(io IO) error {
	if cot.iknpS != nil || cot.iknpR != nil {
		return errors.New("already initialized")
	}
	err := cot.base.InitReceiver(io)
	if err != nil {
		return err
	}
	r, err := NewIKNPReceiver(cot.base, io, cot.r)
	if err != nil {
		return err
	}
	cot.iknpR = r
	return nil
}

// Send creates len(zero) correlated label pairs.
func (cot *IKNP) Send(zero, one []Label) error {
	if cot.iknpS == nil {
		return errors.New("not initialized as sender")
	}
	if len(zero) != len(one) {
		return errors.Errorf("label count mismatch: %d != %d",
			len(zero), len(one))
	}
	if err := cot.iknpS.Send(zero); err != nil {
		return err
	}
	for i := range zero {
		one[i] = zero[i]
		one[i].Xor(cot.iknpS.Delta)
	}
	return nil
}

// Receive receives the labels selected by the flag values.
func (cot *IKNP) Receive(flags []bool, result []Label) error {
	if cot.iknpR == nil {
		return errors.New("not initialized as receiver")
	}
	return cot.iknpR.Receive(flags, result)
}
