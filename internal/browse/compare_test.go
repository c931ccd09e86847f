package browse

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func kb(id int64, name string) Keyboard {
	return Keyboard{ID: id, Name: name}
}

func TestToggleSelectsAndDeselects(t *testing.T) {
	sel := NewSelection()

	selected, err := sel.Toggle(kb(1, "corne"))
	if err != nil || !selected {
		t.Fatalf("first toggle = (%v, %v), want (true, nil)", selected, err)
	}
	if !sel.Contains(1) {
		t.Error("keyboard 1 not selected after toggle")
	}

	selected, err = sel.Toggle(kb(1, "corne"))
	if err != nil || selected {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", selected, err)
	}
	if sel.Contains(1) {
		t.Error("keyboard 1 still selected after double toggle")
	}
	if len(sel.Keyboards()) != 0 {
		t.Errorf("selection = %v after double toggle, want empty", sel.IDs())
	}
}

func TestThirdSelectionRejected(t *testing.T) {
	sel := NewSelection()
	sel.Toggle(kb(1, "corne"))
	sel.Toggle(kb(2, "lily58"))

	selected, err := sel.Toggle(kb(3, "sofle"))
	if selected {
		t.Error("third keyboard reported selected")
	}
	var policyErr *PolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("third toggle err = %v, want PolicyError", err)
	}

	ids := sel.IDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("selection = %v after rejected add, want [1 2]", ids)
	}
}

func TestModalRequiresFullPair(t *testing.T) {
	sel := NewSelection()

	if sel.OpenModal() {
		t.Error("modal opened with empty selection")
	}

	sel.Toggle(kb(1, "corne"))
	if sel.OpenModal() {
		t.Error("modal opened with one keyboard")
	}

	sel.Toggle(kb(2, "lily58"))
	if !sel.OpenModal() {
		t.Error("modal did not open with a full pair")
	}

	a, b, ok := sel.Pair()
	if !ok || a.ID != 1 || b.ID != 2 {
		t.Errorf("Pair() = (%d, %d, %v), want (1, 2, true)", a.ID, b.ID, ok)
	}
}

// Deselecting one side of an open comparison breaks the pair and must
// close the modal.
func TestBreakingPairClosesModal(t *testing.T) {
	sel := NewSelection()
	sel.Toggle(kb(1, "corne"))
	sel.Toggle(kb(2, "lily58"))
	sel.OpenModal()

	sel.Toggle(kb(1, "corne"))

	if sel.ModalOpen() {
		t.Error("modal still open after pair was broken")
	}
	ids := sel.IDs()
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("selection = %v, want [2]", ids)
	}
}

func TestClearResetsEverything(t *testing.T) {
	sel := NewSelection()
	sel.Toggle(kb(1, "corne"))
	sel.Toggle(kb(2, "lily58"))
	sel.OpenModal()

	sel.Clear()

	if sel.ModalOpen() {
		t.Error("modal open after clear")
	}
	if len(sel.Keyboards()) != 0 {
		t.Errorf("selection = %v after clear, want empty", sel.IDs())
	}
}

func TestProperty_SelectionNeverExceedsTwo(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("any toggle sequence keeps at most two selected", prop.ForAll(
		func(ids []int64) bool {
			sel := NewSelection()
			for _, id := range ids {
				sel.Toggle(kb(id, ""))
				if n := len(sel.Keyboards()); n > 2 {
					t.Logf("FAIL: %d keyboards selected after toggling %v", n, ids)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 5)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
