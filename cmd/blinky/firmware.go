package main

import (
	"context"

	"github.com/samber/do"

	"github.com/b97tsk/coop"
)

// Firmware is the program that would be flashed: a parent superloop and the
// two LED tasks it manages.
type Firmware struct {
	s     coop.Scheduler
	board *Board
	cfg   Config

	led1Task *coop.Task
	led2Task *coop.Task

	// Written by the parent, read by the tasks. Tasks only run while the
	// parent is suspended in Yield, so plain fields are enough.
	led2Wanted bool
	stopping   bool

	tasks coop.WaitGroup
}

func newFirmware(i *do.Injector) (*Firmware, error) {
	cfg := do.MustInvoke[Config](i)
	board, err := do.Invoke[*Board](i)
	if err != nil {
		return nil, err
	}

	led1Task, err := coop.NewTask(coop.NewStack(cfg.StackSize))
	if err != nil {
		return nil, err
	}
	led2Task, err := coop.NewTask(coop.NewStack(cfg.StackSize))
	if err != nil {
		return nil, err
	}

	return &Firmware{board: board, cfg: cfg, led1Task: led1Task, led2Task: led2Task}, nil
}

// Run runs the superloop until ctx is done, then asks both tasks to stop
// and waits for them.
func (fw *Firmware) Run(ctx context.Context) {
	b := fw.board

	fw.s.Idle(b.Event.Wait)

	fw.start(fw.led1Task, fw.blinkLED1)

	var (
		prev  uint32
		led0  bool
		rate  = fw.cfg.BlinkRate
		mask  = fw.cfg.StopMask
		led2T = fw.led2Task
	)

	for ctx.Err() == nil {
		now := b.Ticks.Now()

		if now-prev >= rate {
			led0 = !led0
			b.LEDs[0].Set(led0)
			prev += rate
		}

		fw.led2Wanted = now&mask == 0 && !b.Held()

		if fw.led2Wanted && !led2T.IsRunning() {
			fw.start(led2T, fw.blinkLED2)
		}

		fw.s.Yield()
	}

	fw.stopping = true
	fw.led2Wanted = false

	// The timer is gone; keep passes coming without sleeping.
	fw.s.Idle(nil)
	fw.tasks.Wait(&fw.s)
}

func (fw *Firmware) start(t *coop.Task, body func()) {
	fw.tasks.Add(1)
	fw.s.Start(t, func() {
		defer fw.tasks.Done()
		body()
	})
}

// delay is Scheduler.Delay that gives up early when the firmware stops.
func (fw *Firmware) delay(n uint32) {
	ticks := &fw.board.Ticks
	start := ticks.Now()
	fw.s.Until(func() bool { return fw.stopping || ticks.Now()-start >= n })
}

func (fw *Firmware) blinkLED1() {
	led, p := fw.board.LEDs[1], fw.cfg.LED1

	for !fw.stopping {
		led.Set(true)
		fw.delay(p.On)

		led.Set(false)
		fw.delay(p.Off)
	}
}

func (fw *Firmware) blinkLED2() {
	led, p := fw.board.LEDs[2], fw.cfg.LED2

	for fw.led2Wanted {
		led.Set(true)
		fw.delay(p.On)

		led.Set(false)
		fw.delay(p.Off)
	}
}
