//
// ot.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.

// Package ot implements oblivious transfer protocols.
package ot

// OT defines the base 1-out-of-2 Oblivious Transfer protocol. The
// sender uses the Send function to send a []Wire array where each
// wire has zero and one Label. The receiver calls Receive with a
// []bool array of selection bits. The higher level protocol must
// ensure the []Wire and []bool array lengths match.
type OT interface {
	// InitSender initializes the OT sender.
	InitSender(io IO) error

	// InitReceiver initializes the OT receiver.
	InitReceiver(io IO) error

	// Send sends the wire labels with OT.
	Send(wires []Wire) error

	// Receive receives the wire labels with OT based on the flag values.
	Receive(flags []bool, result []Label) error
}

// COT defines the correlated 1-out-of-2 Oblivious Transfer. The
// sender fixes the correlation offset delta when it initializes the
// protocol. Each Send produces label pairs where one[i] = zero[i] ⊕
// delta and the receiver gets zero[i] or one[i] depending on its
// selection flag. The sender never learns the flags and the receiver
// never learns the unselected labels.
type COT interface {
	// InitSender initializes the OT sender with the correlation
	// offset.
	InitSender(io IO, delta Label) error

	// InitReceiver initializes the OT receiver.
	InitReceiver(io IO) error

	// Send creates len(zero) correlated label pairs. The zero and one
	// arrays must have the same length.
	Send(zero, one []Label) error

	// Receive receives the labels selected by the flag values.
	Receive(flags []bool, result []Label) error
}
