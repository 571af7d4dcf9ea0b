package domain

// EventFinalize marks a work order as finished on the time clock.
const EventFinalize = "Zaključi"

// TimeEntry is a time clock event from the cas database.
type TimeEntry struct {
	RefDocNo      string `gorm:"column:ref_doc_no;type:text;index" json:"ref_doc_no"`
	WorkerName    string `gorm:"column:worker_name;type:text" json:"worker_name"`
	EventDatetime string `gorm:"column:event_datetime;type:text" json:"event_datetime"`
	EventType     string `gorm:"column:event_type;type:text" json:"event_type"`
}

func (TimeEntry) TableName() string { return "time_entries" }

// LatestEntry is the most recent event recorded against one work order.
type LatestEntry struct {
	RefDocNo   string `gorm:"column:ref_doc_no"`
	WorkerName string `gorm:"column:worker_name"`
	Timestamp  string `gorm:"column:max_ts"`
}
