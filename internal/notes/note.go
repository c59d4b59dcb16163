// Package notes holds the client-side state of the note-taking app: the
// ordered note collection, the open-note selection and the deletion
// workflow with its "ask before delete" preference.
//
// All three are plain owned objects. The presentation layer reads their
// current state and subscribes to their change signals; nothing here
// renders or schedules work.
package notes

const (
	// DefaultTitle is given to every newly created note.
	DefaultTitle = "New note"

	// NoSelection is the selection sentinel. Note IDs are always positive.
	NoSelection int64 = 0

	// KeyNotes and KeyAsk are the persisted key-value entries.
	KeyNotes = "notes"
	KeyAsk   = "ask"
)

// Note is a user-authored record. ID is assigned once by Store.Create and
// never changes or gets reused.
type Note struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Body  string `json:"data"`
}

// ChangeKind describes a mutation of the note collection.
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota + 1
	ChangeUpdated
	ChangeDeleted
)

// String returns the display name for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is emitted by Store after every applied mutation. Note holds the
// state after the change (or the removed note for ChangeDeleted).
type Change struct {
	Kind ChangeKind
	Note Note
}
