package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-tty"
	"github.com/samber/do"

	"github.com/b97tsk/coop"
)

// Board holds what firmware would find in peripherals: the tick counter the
// timer interrupt advances, the event register it sets, a button, and LEDs.
type Board struct {
	Ticks coop.Ticks
	Event coop.Event
	LEDs  [3]*LED

	tick time.Duration
	held atomic.Bool
}

// An LED prints its changes instead of driving a pin.
type LED struct {
	index int
	on    bool
	out   io.Writer
	ticks *coop.Ticks
}

// Set turns l on or off.
func (l *LED) Set(on bool) {
	l.on = on
	state := "off"
	if on {
		state = "on"
	}
	fmt.Fprintf(l.out, "tick=%d led%d=%s\n", l.ticks.Now(), l.index, state)
}

// On reports whether l is lit.
func (l *LED) On() bool {
	return l.on
}

func newBoard(i *do.Injector) (*Board, error) {
	cfg := do.MustInvoke[Config](i)
	out := do.MustInvoke[io.Writer](i)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tick, _ := cfg.tickPeriod()

	b := &Board{tick: tick}
	for n := range b.LEDs {
		b.LEDs[n] = &LED{index: n, out: out, ticks: &b.Ticks}
	}

	return b, nil
}

// RunTimer is the timer interrupt: it advances Ticks and sets Event once
// per tick period until ctx is done. It sets Event one last time on the
// way out so that a sleeping parent notices.
func (b *Board) RunTimer(ctx context.Context) {
	t := time.NewTicker(b.tick)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			b.Ticks.Advance()
			b.Event.Signal()
		case <-ctx.Done():
			b.Event.Signal()
			return
		}
	}
}

// Press is the button interrupt: it toggles the button and sets Event.
func (b *Board) Press() {
	b.held.Store(!b.held.Load())
	b.Event.Signal()
}

// Held reports whether the button is toggled on.
func (b *Board) Held() bool {
	return b.held.Load()
}

// keySource is what Keys reads from; *tty.TTY in the command.
type keySource interface {
	ReadRune() (rune, error)
	Close() error
}

// Keys is the controlling terminal put in raw mode for single key presses.
// Close restores the terminal and must be called before the process exits.
type Keys struct {
	src  keySource
	once sync.Once
	err  error
}

// OpenKeys opens the controlling terminal.
func OpenKeys() (*Keys, error) {
	t, err := tty.Open()
	if err != nil {
		return nil, err
	}
	return &Keys{src: t}, nil
}

// Close restores the terminal. It is safe to call more than once and from
// any goroutine; a read blocked in RunKeys fails once it returns.
func (k *Keys) Close() error {
	k.once.Do(func() { k.err = k.src.Close() })
	return k.err
}

// RunKeys reads k until ctx is done or k is closed: q calls quit, any
// other key presses the button. It closes k when ctx is done.
func (b *Board) RunKeys(ctx context.Context, k *Keys, quit context.CancelFunc) error {
	stop := context.AfterFunc(ctx, func() { k.Close() })
	defer stop()

	for {
		r, err := k.src.ReadRune()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if r == 'q' {
			quit()
			return nil
		}
		b.Press()
	}
}

func newInjector(cfg Config, out io.Writer) *do.Injector {
	i := do.New()
	do.ProvideValue(i, cfg)
	do.ProvideValue(i, out)
	do.Provide(i, newBoard)
	do.Provide(i, newFirmware)
	return i
}

func invokeFirmware(i *do.Injector) (*Firmware, error) {
	return do.Invoke[*Firmware](i)
}
