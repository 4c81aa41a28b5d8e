// Package operation implements the bounded queue of pending state changes
// the renderer drains one at a time, each frame.
package operation

import (
	"errors"

	"github.com/myrtio/light-composer/internal/composer/color"
	"github.com/myrtio/light-composer/internal/composer/effect"
)

// Kind tags which field of an Operation is meaningful.
type Kind int

const (
	KindSetBrightness Kind = iota
	KindSwitchEffect
	KindSetColor
	KindPowerOff
	KindPowerOn
)

// Operation is one state change the renderer applies on its next tick.
type Operation struct {
	Kind       Kind
	Brightness uint8
	EffectID   effect.EffectID
	Color      color.RGB
}

// SetBrightness builds a brightness-change operation.
func SetBrightness(brightness uint8) Operation {
	return Operation{Kind: KindSetBrightness, Brightness: brightness}
}

// SwitchEffect builds an effect-switch operation.
func SwitchEffect(id effect.EffectID) Operation {
	return Operation{Kind: KindSwitchEffect, EffectID: id}
}

// SetColor builds a color-change operation.
func SetColor(c color.RGB) Operation {
	return Operation{Kind: KindSetColor, Color: c}
}

// PowerOff builds a power-off (fade to 0) operation.
func PowerOff() Operation { return Operation{Kind: KindPowerOff} }

// PowerOn builds a power-on (fade in to target brightness) operation.
func PowerOn() Operation { return Operation{Kind: KindPowerOn} }

// ErrQueueFull is returned by Push/PushEffect when the stack has no room
// for the operation(s) being enqueued.
var ErrQueueFull = errors.New("operation: queue full")

// Stack is a bounded FIFO of pending operations. The zero value is not
// usable; build one with NewStack.
type Stack struct {
	buf     []Operation
	head    int
	length  int
	current *Operation
}

// NewStack builds a stack with room for capacity operations.
func NewStack(capacity int) *Stack {
	return &Stack{buf: make([]Operation, capacity)}
}

// Capacity returns the maximum number of operations the stack can hold.
func (s *Stack) Capacity() int { return len(s.buf) }

// Len returns the number of operations currently queued.
func (s *Stack) Len() int { return s.length }

// FreeSlots returns how many more operations can be queued.
func (s *Stack) FreeSlots() int { return len(s.buf) - s.length }

// Push enqueues op, returning ErrQueueFull if the stack has no room.
func (s *Stack) Push(op Operation) error {
	if s.length == len(s.buf) {
		return ErrQueueFull
	}
	idx := (s.head + s.length) % len(s.buf)
	s.buf[idx] = op
	s.length++
	if s.current == nil {
		cur := op
		s.current = &cur
	}
	return nil
}

// Pop dequeues the current operation, advances the head to whatever
// operation is next in line (or clears it if the stack is now empty), and
// returns the dequeued operation. Callers that need the new head call
// Current afterward.
func (s *Stack) Pop() (Operation, bool) {
	if s.length == 0 {
		s.current = nil
		return Operation{}, false
	}
	op := s.buf[s.head]
	s.head = (s.head + 1) % len(s.buf)
	s.length--
	if s.length > 0 {
		next := s.buf[s.head]
		s.current = &next
	} else {
		s.current = nil
	}
	return op, true
}

// Current returns the head of the queue (observational; does not dequeue).
func (s *Stack) Current() (Operation, bool) {
	if s.current == nil {
		return Operation{}, false
	}
	return *s.current, true
}

// PushBrightness enqueues a brightness change.
func (s *Stack) PushBrightness(brightness uint8) error {
	return s.Push(SetBrightness(brightness))
}

// PushColor enqueues a color change.
func (s *Stack) PushColor(c color.RGB) error {
	return s.Push(SetColor(c))
}

// PushEffect atomically enqueues a fade-out, effect switch, and fade-back-in
// to brightness as three operations, so the renderer never shows the new
// effect at the old brightness or pops the queue mid-switch. Requires at
// least 3 free slots; otherwise nothing is enqueued and ErrQueueFull is
// returned.
func (s *Stack) PushEffect(id effect.EffectID, brightness uint8) error {
	if s.FreeSlots() < 3 {
		return ErrQueueFull
	}
	_ = s.Push(SetBrightness(0))
	_ = s.Push(SwitchEffect(id))
	_ = s.Push(SetBrightness(brightness))
	return nil
}

// PushPowerOff enqueues a power-off operation.
func (s *Stack) PushPowerOff() error {
	return s.Push(PowerOff())
}

// PushPowerOn enqueues a power-on operation.
func (s *Stack) PushPowerOn() error {
	return s.Push(PowerOn())
}
