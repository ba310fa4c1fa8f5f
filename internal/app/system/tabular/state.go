// internal/app/system/tabular/state.go
package tabular

// MenuState tracks which row's action menu is open in a list view. At most
// one menu is open at a time; toggling the open row closes it, toggling a
// different row switches to it.
type MenuState struct {
	openID string
}

// Toggle opens the menu for id, or closes it if id is already open.
func (m *MenuState) Toggle(id string) {
	if m.openID == id {
		m.openID = ""
		return
	}
	m.openID = id
}

// Close closes any open menu.
func (m *MenuState) Close() { m.openID = "" }

// Open returns the id of the open row, or "" if none.
func (m *MenuState) Open() string { return m.openID }

// IsOpen reports whether the menu for id is open.
func (m *MenuState) IsOpen(id string) bool { return m.openID != "" && m.openID == id }

// ModalKind enumerates the list-view modals. Only one modal is visible at a
// time; opening a new one replaces the previous.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalViewing
	ModalEditing
	ModalConfirmingDelete
)

// ModalState is the tagged union over the list-view modals: none,
// viewing(record), editing(record or blank), confirmingDelete(id).
type ModalState[T any] struct {
	kind     ModalKind
	record   T
	deleteID string
}

// Kind returns which modal is visible.
func (m *ModalState[T]) Kind() ModalKind { return m.kind }

// View opens the read-only modal for rec.
func (m *ModalState[T]) View(rec T) {
	m.kind = ModalViewing
	m.record = rec
	m.deleteID = ""
}

// Edit opens the edit form pre-populated with rec. Pass the zero value for
// a blank "add" form.
func (m *ModalState[T]) Edit(rec T) {
	m.kind = ModalEditing
	m.record = rec
	m.deleteID = ""
}

// ConfirmDelete opens the delete confirmation for id.
func (m *ModalState[T]) ConfirmDelete(id string) {
	var zero T
	m.kind = ModalConfirmingDelete
	m.record = zero
	m.deleteID = id
}

// Dismiss closes any open modal.
func (m *ModalState[T]) Dismiss() {
	var zero T
	m.kind = ModalNone
	m.record = zero
	m.deleteID = ""
}

// Record returns the record shown by the viewing/editing modal.
func (m *ModalState[T]) Record() T { return m.record }

// DeleteID returns the id pending delete confirmation, or "".
func (m *ModalState[T]) DeleteID() string { return m.deleteID }
