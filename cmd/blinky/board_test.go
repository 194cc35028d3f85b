package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errKeysClosed = errors.New("keys closed")

type fakeKeys struct {
	runes  chan rune
	closed chan struct{}
	once   sync.Once
}

func newFakeKeys(runes ...rune) *fakeKeys {
	k := &fakeKeys{runes: make(chan rune, len(runes)), closed: make(chan struct{})}
	for _, r := range runes {
		k.runes <- r
	}
	return k
}

func (k *fakeKeys) ReadRune() (rune, error) {
	select {
	case <-k.closed:
		return 0, errKeysClosed
	default:
	}
	select {
	case r := <-k.runes:
		return r, nil
	case <-k.closed:
		return 0, errKeysClosed
	}
}

func (k *fakeKeys) Close() error {
	k.once.Do(func() { close(k.closed) })
	return nil
}

func (k *fakeKeys) isClosed() bool {
	select {
	case <-k.closed:
		return true
	default:
		return false
	}
}

func catch(f func()) (v any) {
	defer func() { v = recover() }()
	f()
	return nil
}

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	i := newInjector(defaultConfig(), &bytes.Buffer{})
	fw, err := invokeFirmware(i)
	if err != nil {
		t.Fatal(err)
	}
	return fw.board
}

func TestPress(t *testing.T) {
	b := newTestBoard(t)

	if b.Held() {
		t.FailNow()
	}

	b.Press()

	if !b.Held() {
		t.Fatal("First press did not hold.")
	}

	b.Press()

	if b.Held() {
		t.Fatal("Second press did not release the hold.")
	}
}

func TestRunKeys(t *testing.T) {
	t.Run("Quit", func(t *testing.T) {
		b := newTestBoard(t)
		src := newFakeKeys('a', 'b', 'c', 'q')

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := b.RunKeys(ctx, &Keys{src: src}, cancel); err != nil {
			t.Fatal(err)
		}

		if ctx.Err() == nil {
			t.Fatal("q did not call quit.")
		}
		if !b.Held() {
			t.Fatal("Three presses did not leave the hold on.")
		}
	})
	t.Run("Toggle", func(t *testing.T) {
		b := newTestBoard(t)
		src := newFakeKeys('a', 'b', 'q')

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		if err := b.RunKeys(ctx, &Keys{src: src}, cancel); err != nil {
			t.Fatal(err)
		}

		if b.Held() {
			t.Fatal("A second press did not release the hold.")
		}
	})
	t.Run("CanceledRestoresTerminal", func(t *testing.T) {
		b := newTestBoard(t)
		src := newFakeKeys()
		keys := &Keys{src: src}

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- b.RunKeys(ctx, keys, func() {}) }()

		cancel()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("RunKeys returned %v after cancel.", err)
			}
		case <-time.After(time.Second):
			t.Fatal("RunKeys did not return after cancel.")
		}

		if !src.isClosed() {
			t.Fatal("Cancel did not close the terminal.")
		}
		if err := keys.Close(); err != nil {
			t.Fatal("A second Close failed.")
		}
	})
	t.Run("ReadError", func(t *testing.T) {
		b := newTestBoard(t)
		src := newFakeKeys()
		src.Close()

		if err := b.RunKeys(context.Background(), &Keys{src: src}, func() {}); !errors.Is(err, errKeysClosed) {
			t.Fatalf("err = %v.", err)
		}
	})
}
