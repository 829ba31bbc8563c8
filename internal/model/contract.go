package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Contract struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Number      string     `gorm:"size:64;not null;uniqueIndex" json:"number"`
	StartDate   time.Time  `gorm:"not null" json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `gorm:"type:text" json:"description"`
	SearchKey   string     `gorm:"size:512;index" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Contract) TableName() string { return "contracts" }

func (c *Contract) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Contract) BeforeSave(*gorm.DB) error {
	c.SearchKey = FoldSearch(c.Number, c.Description)
	return nil
}
