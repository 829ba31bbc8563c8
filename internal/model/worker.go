package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Worker struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LastName   string    `gorm:"size:100;not null;index" json:"last_name"`
	FirstName  string    `gorm:"size:100;not null" json:"first_name"`
	MiddleName string    `gorm:"size:100" json:"middle_name"`
	// EmployeeNumber is the personnel (табельный) number.
	EmployeeNumber *string   `gorm:"size:32;uniqueIndex" json:"employee_number,omitempty"`
	Workshop       string    `gorm:"size:64" json:"workshop"`
	SearchKey      string    `gorm:"size:512;index" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Worker) TableName() string { return "workers" }

func (w *Worker) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

func (w Worker) FullName() string {
	return joinNonEmpty(" ", w.LastName, w.FirstName, w.MiddleName)
}

// ShortName renders "Иванов И.И.".
func (w Worker) ShortName() string {
	initials := initial(w.FirstName) + initial(w.MiddleName)
	if initials == "" {
		return w.LastName
	}
	return joinNonEmpty(" ", w.LastName, initials)
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	for _, r := range name {
		return string(r) + "."
	}
	return ""
}

func joinNonEmpty(sep string, parts ...string) string {
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return strings.Join(result, sep)
}

func (w *Worker) BeforeSave(*gorm.DB) error {
	w.SearchKey = FoldSearch(w.LastName, w.FirstName, w.MiddleName, derefString(w.EmployeeNumber), w.Workshop)
	return nil
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
