//
// hash.go
//
// Copyright (c) 2026 Markku Rossi
//
// All rights reserved.
//

package circuit

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/markkurossi/gcpsi/ot"
)

// hasher implements the fixed-key block cipher hash of the garbling
// scheme.
type hasher struct {
	alg cipher.Block
	in  ot.LabelData
	out ot.LabelData
}

func newHasher(key ot.Label) (*hasher, error) {
	var data ot.LabelData
	alg, err := aes.NewCipher(key.Bytes(&data))
	if err != nil {
		return nil, err
	}
	return &hasher{
		alg: alg,
	}, nil
}

// encrypt encrypts the label with the block cipher.
func (h *hasher) encrypt(l ot.Label) ot.Label {
	l.GetData(&h.in)
	h.alg.Encrypt(h.out[:], h.in[:])

	var result ot.Label
	result.SetData(&h.out)
	return result
}

// hash computes H(2l ⊕ t) = E(2l ⊕ t) ⊕ 2l ⊕ t where 2l is the label
// doubled in GF(2^128).
func (h *hasher) hash(l, tweak ot.Label) ot.Label {
	l.Double()
	l.Xor(tweak)

	result := h.encrypt(l)
	result.Xor(l)
	return result
}

// fixedLabel returns the label of the idx:th fixed wire.
func (h *hasher) fixedLabel(idx int) ot.Label {
	return h.encrypt(ot.Label{
		D0: uint64(idx),
	})
}
