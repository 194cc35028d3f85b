package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var (
	rootOpts = struct {
		config    string
		tick      time.Duration
		duration  time.Duration
		blinkRate uint32
		stopMask  uint32
		keys      bool
	}{}

	rootCmd = &cobra.Command{
		Use:   "blinky",
		Short: "Blink LEDs from cooperative tasks",
		Long: "Run the three-LED cooperative multitasking demo. LED changes are printed as\n" +
			"\"tick=<n> led<i>=on|off\" lines; a ticker stands in for the timer interrupt.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultConfig()

			if rootOpts.config != "" {
				if err := loadConfig(rootOpts.config, &cfg); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			if flags.Changed("tick") {
				cfg.Tick = rootOpts.tick.String()
			}
			if flags.Changed("blink-rate") {
				cfg.BlinkRate = rootOpts.blinkRate
			}
			if flags.Changed("stop-mask") {
				cfg.StopMask = rootOpts.stopMask
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			if rootOpts.duration > 0 {
				ctx, cancel = context.WithTimeout(ctx, rootOpts.duration)
				defer cancel()
			}

			return run(ctx, cancel, cfg, rootOpts.keys)
		},
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&rootOpts.config, "config", "c", "", "config file (.yaml, .yml or .toml)")
	flags.DurationVar(&rootOpts.tick, "tick", 0, "timer interrupt period (default 62.5ms)")
	flags.DurationVarP(&rootOpts.duration, "duration", "d", 0, "stop after this long; 0 runs until interrupted")
	flags.Uint32Var(&rootOpts.blinkRate, "blink-rate", 0, "ticks between LED0 toggles (default 5)")
	flags.Uint32Var(&rootOpts.stopMask, "stop-mask", 0, "LED2 task runs while ticks&mask == 0 (default 128)")
	flags.BoolVar(&rootOpts.keys, "keys", false, "read the terminal: any key toggles a hold on LED2's task, q quits")
}

func run(ctx context.Context, cancel context.CancelFunc, cfg Config, keys bool) error {
	i := newInjector(cfg, os.Stdout)
	defer func() {
		if err := i.Shutdown(); err != nil {
			log.Print(err)
		}
	}()

	fw, err := invokeFirmware(i)
	if err != nil {
		return err
	}

	go fw.board.RunTimer(ctx)

	if keys {
		k, err := OpenKeys()
		if err != nil {
			return err
		}

		done := make(chan error, 1)
		go func() { done <- fw.board.RunKeys(ctx, k, cancel) }()

		defer func() {
			if err := k.Close(); err != nil {
				log.Printf("keys: %v", err)
			}
			select {
			case err := <-done:
				if err != nil {
					log.Printf("keys: %v", err)
				}
			case <-time.After(keysGrace):
				// The terminal is restored; a read that Close could not
				// interrupt dies with the process.
			}
		}()
	}

	fw.Run(ctx)

	return nil
}

// keysGrace bounds how long run waits for RunKeys after closing the
// terminal.
const keysGrace = 100 * time.Millisecond
