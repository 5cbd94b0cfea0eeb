/*
Package history implements the undo/redo log that wraps every state-mutating
operation in the payroll engine.

PURPOSE:
  Every mutation is executed as a command: a forward action paired with an
  inverse action (in practice a deep pre-mutation snapshot of the employee
  store, installed wholesale on undo). The log keeps two LIFO stacks with
  strict ownership transfer: a command lives on exactly one of them, and a
  newly executed command empties the redo stack.

ATOMICITY CONTRACT:
  The forward action must be atomic: either it completes and commits, or it
  fails leaving no observable change. The log enforces the bookkeeping half
  of that contract - a failed forward action is never pushed.

CONCURRENCY:
  The log itself is not synchronized; the engine is single-writer by
  construction. Callers exposing it over a network surface must serialize
  Execute/Undo/Redo (see api.Handler).
*/
package history

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNothingToUndo is returned when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Command pairs a forward action with its inverse. The inverse cannot fail:
// it reinstalls previously captured state.
type Command struct {
	ID      uuid.UUID
	Name    string
	forward func() error
	inverse func()
}

// Log is the two-stack undo/redo state machine.
type Log struct {
	undo []*Command
	redo []*Command
}

func NewLog() *Log {
	return &Log{}
}

// Execute runs the forward action. On success the command is pushed onto the
// undo stack and the redo stack is discarded. On failure the error is
// propagated and nothing is recorded.
func (l *Log) Execute(name string, forward func() error, inverse func()) error {
	cmd := &Command{ID: uuid.New(), Name: name, forward: forward, inverse: inverse}
	if err := cmd.forward(); err != nil {
		return err
	}
	l.undo = append(l.undo, cmd)
	l.redo = nil
	return nil
}

// Undo pops the most recent command, runs its inverse, and moves it to the
// redo stack.
func (l *Log) Undo() error {
	if len(l.undo) == 0 {
		return ErrNothingToUndo
	}
	cmd := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	cmd.inverse()
	l.redo = append(l.redo, cmd)
	return nil
}

// Redo pops the most recently undone command, re-runs its forward action,
// and moves it back to the undo stack. A forward action that fails on redo
// is dropped from both stacks; the error is propagated.
func (l *Log) Redo() error {
	if len(l.redo) == 0 {
		return ErrNothingToRedo
	}
	cmd := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	if err := cmd.forward(); err != nil {
		return err
	}
	l.undo = append(l.undo, cmd)
	return nil
}

// UndoDepth and RedoDepth expose stack sizes for the API surface and tests.
func (l *Log) UndoDepth() int { return len(l.undo) }
func (l *Log) RedoDepth() int { return len(l.redo) }

// PeekUndo returns the name of the command on top of the undo stack, or "".
func (l *Log) PeekUndo() string {
	if len(l.undo) == 0 {
		return ""
	}
	return l.undo[len(l.undo)-1].Name
}
