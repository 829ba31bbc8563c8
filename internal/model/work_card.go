package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkCard struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Number      int64            `gorm:"not null;uniqueIndex" json:"number"`
	Date        time.Time        `gorm:"not null;index" json:"date"`
	ProductID   *uuid.UUID       `gorm:"type:uuid;index" json:"product_id,omitempty"`
	ContractID  *uuid.UUID       `gorm:"type:uuid;index" json:"contract_id,omitempty"`
	TotalAmount float64          `gorm:"not null" json:"total_amount"`
	Product     *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Contract    *Contract        `gorm:"foreignKey:ContractID" json:"contract,omitempty"`
	Items       []WorkCardItem   `gorm:"foreignKey:WorkCardID;constraint:OnDelete:CASCADE" json:"items"`
	Workers     []WorkCardWorker `gorm:"foreignKey:WorkCardID;constraint:OnDelete:CASCADE" json:"workers"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (WorkCard) TableName() string { return "work_cards" }

func (c *WorkCard) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type WorkCardItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkCardID uuid.UUID `gorm:"type:uuid;not null;index" json:"work_card_id"`
	WorkTypeID uuid.UUID `gorm:"type:uuid;not null;index" json:"work_type_id"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	Quantity   float64   `gorm:"not null" json:"quantity"`
	// Price is the work type price in force on the card date.
	Price    float64   `gorm:"not null" json:"price"`
	Amount   float64   `gorm:"not null" json:"amount"`
	WorkType *WorkType `gorm:"foreignKey:WorkTypeID" json:"work_type,omitempty"`
}

func (WorkCardItem) TableName() string { return "work_card_items" }

func (i *WorkCardItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type WorkCardWorker struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WorkCardID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_work_card_worker" json:"work_card_id"`
	WorkerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_work_card_worker;index" json:"worker_id"`
	Position   int       `gorm:"not null;default:0" json:"position"`
	Amount     float64   `gorm:"not null" json:"amount"`
	Worker     *Worker   `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
}

func (WorkCardWorker) TableName() string { return "work_card_workers" }

func (w *WorkCardWorker) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type WorkCardFilter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	WorkerID   *uuid.UUID
	ProductID  *uuid.UUID
	ContractID *uuid.UUID
}
