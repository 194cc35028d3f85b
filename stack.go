package coop

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"
)

const (
	// StackAlign is the alignment required of a task stack, both of its
	// base address and of its size.
	StackAlign = 8

	// SpillSize is the number of bytes a context switch may push onto a
	// suspended task's stack: r4-r11 and lr, plus s16-s31 on a Cortex-M
	// with an FPU in use.
	SpillSize = 104

	// MinStackSize is the smallest stack a task can be created with.
	// Real tasks need room for their deepest call chain on top of this,
	// and for the largest interrupt handler too unless interrupts run on a
	// stack of their own.
	MinStackSize = SpillSize + frameSize
)

const (
	frameSize  = 8
	frameMagic = 0x504f4f43 // "COOP"
)

var (
	// ErrStackSize is returned by NewTask when a stack is too small.
	ErrStackSize = errors.New("coop: stack too small")

	// ErrStackAlign is returned by NewTask when a stack's base address or
	// size is not a multiple of StackAlign.
	ErrStackAlign = errors.New("coop: stack misaligned")
)

// NewStack allocates a stack region of at least size bytes, rounded up to
// a multiple of StackAlign, whose base address is StackAlign-aligned.
func NewStack(size int) []byte {
	if size < 0 {
		panic("coop: negative stack size")
	}
	n := (size + StackAlign - 1) / StackAlign
	if n == 0 {
		return []byte{}
	}
	words := make([]uint64, n)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n*StackAlign)
}

func checkStack(stack []byte) error {
	if len(stack) < MinStackSize {
		return fmt.Errorf("%w: %d bytes, need at least %d", ErrStackSize, len(stack), MinStackSize)
	}
	if len(stack)%StackAlign != 0 {
		return fmt.Errorf("%w: size %d is not a multiple of %d", ErrStackAlign, len(stack), StackAlign)
	}
	if p := uintptr(unsafe.Pointer(unsafe.SliceData(stack))); p%StackAlign != 0 {
		return fmt.Errorf("%w: base address %#x", ErrStackAlign, p)
	}
	return nil
}

// The frame record occupies the last frameSize bytes of a task's stack,
// right below its saved-context slot, where a hardware switch leaves the
// return address of a suspended task. It holds frameMagic and the number
// of times the task has suspended since it was last started.

func (t *Task) frame() []byte {
	return t.stack[len(t.stack)-frameSize:]
}

func (t *Task) resetFrame() {
	f := t.frame()
	binary.LittleEndian.PutUint32(f, frameMagic)
	binary.LittleEndian.PutUint32(f[4:], 0)
}

func (t *Task) pushFrame() {
	f := t.frame()
	binary.LittleEndian.PutUint32(f[4:], binary.LittleEndian.Uint32(f[4:])+1)
}

// Suspends reports how many times t has suspended itself by calling Yield
// since it was last started.
func (t *Task) Suspends() int {
	if t.state == NotStarted {
		return 0
	}
	return int(binary.LittleEndian.Uint32(t.frame()[4:]))
}
