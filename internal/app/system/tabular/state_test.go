package tabular

import "testing"

func TestMenuState_Exclusive(t *testing.T) {
	var m MenuState

	m.Toggle("a")
	if !m.IsOpen("a") {
		t.Fatal("expected row a's menu open")
	}

	// Opening row b implicitly closes row a.
	m.Toggle("b")
	if m.IsOpen("a") {
		t.Error("row a's menu should be closed after opening row b")
	}
	if !m.IsOpen("b") {
		t.Error("row b's menu should be open")
	}

	// Toggling the open row closes it.
	m.Toggle("b")
	if m.Open() != "" {
		t.Errorf("expected no open menu, got %q", m.Open())
	}
}

func TestModalState_OneAtATime(t *testing.T) {
	var m ModalState[rec]

	if m.Kind() != ModalNone {
		t.Fatalf("zero value kind: got %v, want ModalNone", m.Kind())
	}

	m.View(rec{ID: 7, Title: "view me"})
	if m.Kind() != ModalViewing || m.Record().ID != 7 {
		t.Errorf("viewing: kind=%v record=%v", m.Kind(), m.Record())
	}

	m.ConfirmDelete("7")
	if m.Kind() != ModalConfirmingDelete || m.DeleteID() != "7" {
		t.Errorf("confirm delete: kind=%v id=%q", m.Kind(), m.DeleteID())
	}
	if m.Record().ID != 0 {
		t.Error("record should be cleared when switching modals")
	}

	m.Edit(rec{})
	if m.Kind() != ModalEditing || m.DeleteID() != "" {
		t.Errorf("editing: kind=%v deleteID=%q", m.Kind(), m.DeleteID())
	}

	m.Dismiss()
	if m.Kind() != ModalNone {
		t.Errorf("dismissed: kind=%v, want ModalNone", m.Kind())
	}
}
