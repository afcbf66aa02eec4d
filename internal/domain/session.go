package domain

import (
	"time"

	"github.com/google/uuid"
)

// CommitProgress tracks sequential inserts of a commit.
type CommitProgress struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// UploadSession is the transient state of one bulk upload. It is held in
// memory only; the records it produces are what gets persisted.
type UploadSession struct {
	ID                uuid.UUID          `json:"id"`
	OwnerID           uuid.UUID          `json:"owner_id"`
	OwnerEmail        string             `json:"-"`
	FileName          string             `json:"file_name"`
	Encoding          string             `json:"encoding"`
	Headers           []string           `json:"headers"`
	Rows              []RawRow           `json:"-"`
	Mapping           ColumnMapping      `json:"mapping"`
	MissingFields     []string           `json:"missing_fields,omitempty"`
	GroupCount        int                `json:"group_count"`
	ValidCount        int                `json:"valid_count"`
	Preview           []InventoryRecord  `json:"preview,omitempty"`
	ValidationErrors  []ValidationError  `json:"validation_errors,omitempty"`
	Duplicates        []string           `json:"duplicates,omitempty"`
	Blocked           bool               `json:"blocked"`
	State             SessionState       `json:"state"`
	Progress          CommitProgress     `json:"progress"`
	PersistenceErrors []PersistenceError `json:"persistence_errors,omitempty"`
	ReportURL         string             `json:"report_url,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	ExpiresAt         time.Time          `json:"expires_at"`

	// Version is bumped by the store on every write; a write carrying an
	// older version is rejected.
	Version int `json:"-"`
}

// Clone returns a copy whose slices and maps are not shared with s.
func (s *UploadSession) Clone() *UploadSession {
	c := *s
	c.Headers = append([]string(nil), s.Headers...)
	c.Rows = append([]RawRow(nil), s.Rows...)
	c.Mapping = s.Mapping.Clone()
	c.MissingFields = append([]string(nil), s.MissingFields...)
	c.Preview = append([]InventoryRecord(nil), s.Preview...)
	c.ValidationErrors = append([]ValidationError(nil), s.ValidationErrors...)
	c.Duplicates = append([]string(nil), s.Duplicates...)
	c.PersistenceErrors = append([]PersistenceError(nil), s.PersistenceErrors...)
	return &c
}

// CommitSummary is what the owner is told once a commit finishes.
type CommitSummary struct {
	SessionID uuid.UUID          `json:"session_id"`
	FileName  string             `json:"file_name"`
	State     SessionState       `json:"state"`
	Progress  CommitProgress     `json:"progress"`
	Failures  []PersistenceError `json:"failures,omitempty"`
	ReportURL string             `json:"report_url,omitempty"`
}
