package progress

import "time"

type EventType string

const (
	EventScanStarted       EventType = "scan_started"
	EventDiscoveryFinished EventType = "discovery_finished"
	EventFileScanned       EventType = "file_scanned"
	EventScanWarning       EventType = "scan_warning"
	EventScanFinished      EventType = "scan_finished"
)

type Event struct {
	Type       EventType `json:"type"`
	At         time.Time `json:"at"`
	Root       string    `json:"root,omitempty"`
	Path       string    `json:"path,omitempty"`
	Status     string    `json:"status,omitempty"`
	Message    string    `json:"message,omitempty"`
	Error      string    `json:"error,omitempty"`
	FileCount  int       `json:"file_count,omitempty"`
	Skipped    int       `json:"skipped,omitempty"`
	IssueCount int       `json:"issue_count,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
}
