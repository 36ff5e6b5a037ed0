//
// ot_test.go
//
// Copyright (c) 2023-2026 Markku Rossi
//
// All rights reserved.
//

package ot

import (
	"crypto/rand"
	"fmt"
	"testing"
	"time"
)

func testOT(sender, receiver OT, size int, t *testing.T) {
	wires := make([]Wire, size)
	flags := make([]bool, size)
	labels := make([]Label, size)

	done := make(chan error)

	for i := 0; i < len(wires); i++ {
		var data LabelData
		_, err := rand.Read(data[:])
		if err != nil {
			t.Fatal(err)
		}
		wires[i].L0.SetData(&data)

		_, err = rand.Read(data[:])
		if err != nil {
			t.Fatal(err)
		}
		wires[i].L1.SetData(&data)

		flags[i] = i%2 == 0
	}

	pipe, rPipe := NewPipe()

	go func(pipe *Pipe) {
		err := receiver.InitReceiver(pipe)
		if err != nil {
			pipe.Close()
			pipe.Drain()
			done <- err
			return
		}
		err = receiver.Receive(flags, labels)
		if err != nil {
			pipe.Close()
			pipe.Drain()
			done <- err
			return
		}
		for i := 0; i < len(flags); i++ {
			var expected Label
			if flags[i] {
				expected = wires[i].L1
			} else {
				expected = wires[i].L0
			}
			if !labels[i].Equal(expected) {
				err := fmt.Errorf("label %d mismatch %v %v,%v", i,
					labels[i], wires[i].L0, wires[i].L1)
				pipe.Close()
				done <- err
				return
			}
		}

		done <- nil
	}(rPipe)

	sent := make(chan error, 1)
	go func() {
		err := sender.InitSender(pipe)
		if err == nil {
			err = sender.Send(wires)
		}
		if err != nil {
			pipe.Close()
			pipe.Drain()
		}
		sent <- err
	}()

	timeout := time.After(30 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case err := <-sent:
			if err != nil {
				t.Fatalf("sender failed: %v", err)
			}
		case err := <-done:
			if err != nil {
				t.Fatalf("receiver failed: %v", err)
			}
		case <-timeout:
			t.Fatalf("OT of %d wires did not complete", size)
		}
	}
}

func TestOTCO(t *testing.T) {
	testOT(NewCO(rand.Reader), NewCO(rand.Reader), 64, t)
}

// The pipe does not buffer writes so the sender must read all receiver
// points before it writes any ciphertexts.
func TestOTCOSynchronousPipe(t *testing.T) {
	for _, size := range []int{1, 2, 3, 17} {
		testOT(NewCO(rand.Reader), NewCO(rand.Reader), size, t)
	}
}

func benchmarkOT(sender, receiver OT, batchSize int, b *testing.B) {
	wires := make([]Wire, batchSize)
	flags := make([]bool, batchSize)
	labels := make([]Label, batchSize)

	for i := 0; i < len(wires); i++ {
		wires[i].L0, _ = NewLabel(rand.Reader)
		wires[i].L1, _ = NewLabel(rand.Reader)
		flags[i] = i%2 == 0
	}

	pipe, rPipe := NewPipe()
	done := make(chan error)

	go func(pipe *Pipe) {
		err := receiver.InitReceiver(pipe)
		if err != nil {
			done <- err
			pipe.Close()
			return
		}
		for i := 0; i < b.N; i++ {
			err = receiver.Receive(flags, labels)
			if err != nil {
				done <- err
				pipe.Close()
				return
			}
		}
		done <- nil
	}(rPipe)

	err := sender.InitSender(pipe)
	if err != nil {
		b.Fatalf("InitSender: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err = sender.Send(wires)
		if err != nil {
			b.Fatalf("Send: %v", err)
		}
	}
	err = <-done
	if err != nil {
		b.Errorf("receiver failed: %v", err)
	}
}

func BenchmarkOTCO_1(b *testing.B) {
	benchmarkOT(NewCO(rand.Reader), NewCO(rand.Reader), 1, b)
}

func BenchmarkOTCO_8(b *testing.B) {
	benchmarkOT(NewCO(rand.Reader), NewCO(rand.Reader), 8, b)
}

func BenchmarkOTCO_64(b *testing.B) {
	benchmarkOT(NewCO(rand.Reader), NewCO(rand.Reader), 64, b)
}
