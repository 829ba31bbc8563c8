package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Number           string    `gorm:"size:64;not null;index" json:"number"`
	Type             string    `gorm:"size:128" json:"type"`
	AdditionalNumber string    `gorm:"size:64" json:"additional_number"`
	SearchKey        string    `gorm:"size:512;index" json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p Product) Label() string {
	return joinNonEmpty(" ", p.Number, p.Type, p.AdditionalNumber)
}

func (p *Product) BeforeSave(*gorm.DB) error {
	p.SearchKey = FoldSearch(p.Number, p.Type, p.AdditionalNumber)
	return nil
}
