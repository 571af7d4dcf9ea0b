package project

type PriorityRequest struct {
	Priority string `json:"priority"`
}

// PauseRequest clears the pause when Reason is null.
type PauseRequest struct {
	Reason *string `json:"reason"`
}

type NotesRequest struct {
	NoteType string `json:"note_type"`
	Content  string `json:"content"`
}

type DniStatusRequest struct {
	ProjectTaskNo string `json:"project_task_no"`
	Description   string `json:"description"`
	Completed     bool   `json:"completed"`
}

// ExtraDetails wraps the three free text notes of a project.
type ExtraDetails struct {
	Notes NoteSet `json:"notes"`
}

type NoteSet struct {
	Notes                string `json:"notes"`
	ElectrificationNotes string `json:"electrification_notes"`
	ControlNotes         string `json:"control_notes"`
}

type PhotoView struct {
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	UploadedAt string `json:"uploaded_at"`
}

// InventoryStatus tells whether a work order of the assembly center can be
// built from stock.
type InventoryStatus struct {
	CanBeMade   bool   `json:"can_be_made"`
	Description string `json:"description"`
}
