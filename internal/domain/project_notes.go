package domain

// Task is one of the two tracked assembly tasks of a project.
type Task string

const (
	TaskElectrification Task = "electrification"
	TaskControl         Task = "control"
)

func (t Task) StatusColumn() string      { return string(t) + "_status" }
func (t Task) CompletedAtColumn() string { return string(t) + "_completed_at" }

const StatusReady = "Ready"

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Pause reasons; a nil reason clears the pause.
const (
	PauseMissingParts      = "Missing Parts"
	PauseConstructionError = "Construction Error"
	PausePaused            = "Paused"
)

// NoteType names one of the free text note columns.
type NoteType string

const (
	NoteGeneral         NoteType = "notes"
	NoteElectrification NoteType = "electrification_notes"
	NoteControl         NoteType = "control_notes"
)

// Validation rules for the enum columns, in validator tag syntax.
const (
	TaskRule        = "oneof=electrification control"
	PriorityRule    = "oneof=Low Normal High Urgent"
	PauseReasonRule = "oneof='Missing Parts' 'Construction Error' Paused"
	NoteTypeRule    = "oneof=notes electrification_notes control_notes"
)

// ProjectNotes is the per project completion record. Timestamps are
// ISO-8601 strings so that lexicographic order is chronological.
type ProjectNotes struct {
	ProjectTaskNo              string  `gorm:"column:project_task_no;type:text;primaryKey" json:"project_task_no"`
	Notes                      *string `gorm:"column:notes;type:text" json:"notes"`
	ElectrificationNotes       *string `gorm:"column:electrification_notes;type:text" json:"electrification_notes"`
	ControlNotes               *string `gorm:"column:control_notes;type:text" json:"control_notes"`
	ElectrificationStatus      *string `gorm:"column:electrification_status;type:text" json:"electrification_status"`
	ControlStatus              *string `gorm:"column:control_status;type:text" json:"control_status"`
	ElectrificationCompletedAt *string `gorm:"column:electrification_completed_at;type:text" json:"electrification_completed_at"`
	ControlCompletedAt         *string `gorm:"column:control_completed_at;type:text" json:"control_completed_at"`
	PackagingStatus            *string `gorm:"column:packaging_status;type:text" json:"packaging_status"`
	Priority                   *string `gorm:"column:priority;type:text" json:"priority"`
	PauseStatus                *string `gorm:"column:pause_status;type:text" json:"pause_status"`
	LastNoteUpdatedAt          *string `gorm:"column:last_note_updated_at;type:text" json:"last_note_updated_at"`
	LastDniUpdatedAt           *string `gorm:"column:last_dni_updated_at;type:text" json:"last_dni_updated_at"`
}

func (ProjectNotes) TableName() string { return "project_notes" }

// TaskStatus returns the status and completion timestamp of a task.
func (n *ProjectNotes) TaskStatus(t Task) (status, completedAt *string) {
	if n == nil {
		return nil, nil
	}
	switch t {
	case TaskElectrification:
		return n.ElectrificationStatus, n.ElectrificationCompletedAt
	case TaskControl:
		return n.ControlStatus, n.ControlCompletedAt
	}
	return nil, nil
}

// HasNotes reports whether any of the free text notes is non-empty.
func (n *ProjectNotes) HasNotes() bool {
	if n == nil {
		return false
	}
	for _, s := range []*string{n.Notes, n.ElectrificationNotes, n.ControlNotes} {
		if s != nil && *s != "" {
			return true
		}
	}
	return false
}

// CompletionFields is the subset merged into layout items at read time.
func (n *ProjectNotes) CompletionFields() map[string]any {
	return map[string]any{
		"project_task_no":              n.ProjectTaskNo,
		"electrification_status":       n.ElectrificationStatus,
		"control_status":               n.ControlStatus,
		"electrification_completed_at": n.ElectrificationCompletedAt,
		"control_completed_at":         n.ControlCompletedAt,
		"packaging_status":             n.PackagingStatus,
		"priority":                     n.Priority,
		"pause_status":                 n.PauseStatus,
		"last_note_updated_at":         n.LastNoteUpdatedAt,
		"last_dni_updated_at":          n.LastDniUpdatedAt,
	}
}

// DniStatus is the manual completion flag of one work order.
type DniStatus struct {
	WorkOrderNo   string `gorm:"column:work_order_no;type:text;primaryKey" json:"work_order_no"`
	ProjectTaskNo string `gorm:"column:project_task_no;type:text;not null;index" json:"project_task_no"`
	Description   string `gorm:"column:description;type:text" json:"description"`
	IsCompleted   bool   `gorm:"column:is_completed;type:boolean;not null" json:"is_completed"`
}

func (DniStatus) TableName() string { return "dni_status" }

type ProjectPhoto struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ProjectTaskNo string `gorm:"column:project_task_no;type:text;not null;index" json:"project_task_no"`
	Filename      string `gorm:"column:filename;type:text;not null" json:"filename"`
	UploadedAt    string `gorm:"column:uploaded_at;type:text;not null" json:"uploaded_at"`
}

func (ProjectPhoto) TableName() string { return "project_photos" }

// PhotoStats aggregates the photos of one project.
type PhotoStats struct {
	ProjectTaskNo   string  `gorm:"column:project_task_no"`
	PhotoCount      int     `gorm:"column:photo_count"`
	LastPhotoUpload *string `gorm:"column:last_photo_upload"`
}
