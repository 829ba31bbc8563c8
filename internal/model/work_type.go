package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkUnit string

const (
	WorkUnitPieces WorkUnit = "штуки"
	WorkUnitSets   WorkUnit = "комплекты"
)

func (u WorkUnit) Valid() bool {
	return u == WorkUnitPieces || u == WorkUnitSets
}

type WorkType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name"`
	Unit      WorkUnit  `gorm:"size:32;not null" json:"unit"`
	Price     float64   `gorm:"not null" json:"price"`
	ValidFrom time.Time `gorm:"not null" json:"valid_from"`
	SearchKey string    `gorm:"size:512;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WorkType) TableName() string { return "work_types" }

func (t *WorkType) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *WorkType) BeforeSave(*gorm.DB) error {
	t.SearchKey = FoldSearch(t.Name)
	return nil
}
