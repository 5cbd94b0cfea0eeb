package history_test

import (
	"errors"
	"testing"

	"github.com/warp/payroll-engine/history"
)

// counter wires commands to an observable integer so the tests can watch the
// stack machinery act on real state.
type counter struct {
	value int
}

func (c *counter) setCommand(l *history.Log, name string, to int) error {
	prev := c.value
	return l.Execute(name,
		func() error { c.value = to; return nil },
		func() { c.value = prev },
	)
}

// =============================================================================
// STACK DISCIPLINE TESTS
// =============================================================================

func TestLog_ExecuteUndoRedo_RoundTrip(t *testing.T) {
	// GIVEN: Two executed commands
	// WHEN: Undoing twice and redoing twice
	// THEN: The state retraces its history exactly

	l := history.NewLog()
	c := &counter{}

	if err := c.setCommand(l, "set 1", 1); err != nil {
		t.Fatal(err)
	}
	if err := c.setCommand(l, "set 2", 2); err != nil {
		t.Fatal(err)
	}
	if c.value != 2 {
		t.Fatalf("value = %d, want 2", c.value)
	}

	steps := []struct {
		op   func() error
		want int
	}{
		{l.Undo, 1},
		{l.Undo, 0},
		{l.Redo, 1},
		{l.Redo, 2},
	}
	for i, step := range steps {
		if err := step.op(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if c.value != step.want {
			t.Fatalf("step %d: value = %d, want %d", i, c.value, step.want)
		}
	}
}

func TestLog_NewCommand_DiscardsRedoStack(t *testing.T) {
	// GIVEN: A command undone (redo stack non-empty)
	// WHEN: Executing a new command
	// THEN: Redo is empty and the new command is on top of undo

	l := history.NewLog()
	c := &counter{}

	_ = c.setCommand(l, "set 1", 1)
	_ = c.setCommand(l, "set 2", 2)
	_ = l.Undo()
	if l.RedoDepth() != 1 {
		t.Fatalf("RedoDepth = %d, want 1", l.RedoDepth())
	}

	_ = c.setCommand(l, "set 3", 3)
	if l.RedoDepth() != 0 {
		t.Errorf("RedoDepth = %d, want 0 after new command", l.RedoDepth())
	}
	if got := l.PeekUndo(); got != "set 3" {
		t.Errorf("PeekUndo = %q, want \"set 3\"", got)
	}
	if err := l.Redo(); !errors.Is(err, history.ErrNothingToRedo) {
		t.Errorf("Redo = %v, want ErrNothingToRedo", err)
	}
}

func TestLog_FailedForward_NotRecorded(t *testing.T) {
	// GIVEN: A forward action that fails
	// WHEN: Executing it
	// THEN: The error propagates and the undo stack is untouched

	l := history.NewLog()
	boom := errors.New("boom")

	err := l.Execute("failing", func() error { return boom }, func() {})
	if !errors.Is(err, boom) {
		t.Fatalf("Execute = %v, want boom", err)
	}
	if l.UndoDepth() != 0 {
		t.Errorf("UndoDepth = %d, want 0", l.UndoDepth())
	}
}

func TestLog_EmptyStacks_ReturnSentinels(t *testing.T) {
	l := history.NewLog()
	if err := l.Undo(); !errors.Is(err, history.ErrNothingToUndo) {
		t.Errorf("Undo = %v, want ErrNothingToUndo", err)
	}
	if err := l.Redo(); !errors.Is(err, history.ErrNothingToRedo) {
		t.Errorf("Redo = %v, want ErrNothingToRedo", err)
	}
	if got := l.PeekUndo(); got != "" {
		t.Errorf("PeekUndo = %q, want empty", got)
	}
}

func TestLog_FailedRedo_DroppedFromBothStacks(t *testing.T) {
	// GIVEN: An undone command whose forward action now fails
	// WHEN: Redoing
	// THEN: The error propagates and the command is on neither stack

	l := history.NewLog()
	fail := false
	boom := errors.New("boom")

	err := l.Execute("flaky",
		func() error {
			if fail {
				return boom
			}
			return nil
		},
		func() {},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Undo(); err != nil {
		t.Fatal(err)
	}

	fail = true
	if err := l.Redo(); !errors.Is(err, boom) {
		t.Fatalf("Redo = %v, want boom", err)
	}
	if l.UndoDepth() != 0 || l.RedoDepth() != 0 {
		t.Errorf("depths = %d/%d, want 0/0", l.UndoDepth(), l.RedoDepth())
	}
}
