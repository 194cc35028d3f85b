// Command blinky runs the classic three-LED cooperative multitasking demo on
// the host: a parent superloop blinking one LED, a task blinking a second LED
// forever, and a task blinking a third LED that the parent periodically starts
// and asks to stop. LED changes are printed instead of driving pins, and a
// ticker goroutine stands in for the timer interrupt.
package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("blinky: ")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
