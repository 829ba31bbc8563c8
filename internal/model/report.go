package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportFormat string

const (
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatHTML ReportFormat = "html"
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatCSV  ReportFormat = "csv"
)

// ReportFilter selects work cards for a report. Nil fields are not filtered on.
// DateTo is inclusive.
type ReportFilter struct {
	WorkerID   *uuid.UUID `json:"worker_id,omitempty"`
	DateFrom   *time.Time `json:"date_from,omitempty"`
	DateTo     *time.Time `json:"date_to,omitempty"`
	WorkTypeID *uuid.UUID `json:"work_type_id,omitempty"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	ContractID *uuid.UUID `json:"contract_id,omitempty"`
}

// ReportRow is one worker's share of one work card.
type ReportRow struct {
	CardID                  uuid.UUID `json:"card_id"`
	CardNumber              int64     `json:"card_number"`
	CardDate                time.Time `json:"card_date"`
	WorkerID                uuid.UUID `json:"worker_id"`
	LastName                string    `json:"-"`
	FirstName               string    `json:"-"`
	MiddleName              string    `json:"-"`
	WorkerName              string    `json:"worker_name" gorm:"-"`
	ProductNumber           *string   `json:"-"`
	ProductType             *string   `json:"-"`
	ProductAdditionalNumber *string   `json:"-"`
	Product                 string    `json:"product" gorm:"-"`
	ContractNumber          *string   `json:"contract_number,omitempty"`
	CardTotal               float64   `json:"card_total"`
	WorkerAmount            float64   `json:"worker_amount"`
	WorkTypes               string    `json:"work_types" gorm:"-"`
}

// ReportItemRow is one work type line of a selected work card.
type ReportItemRow struct {
	CardID       uuid.UUID `json:"card_id"`
	CardNumber   int64     `json:"card_number"`
	WorkTypeID   uuid.UUID `json:"work_type_id"`
	WorkTypeName string    `json:"work_type_name"`
	Unit         WorkUnit  `json:"unit"`
	Quantity     float64   `json:"quantity"`
	Price        float64   `json:"price"`
	Amount       float64   `json:"amount"`
}

type WorkerGroup struct {
	WorkerID   uuid.UUID   `json:"worker_id"`
	WorkerName string      `json:"worker_name"`
	CardCount  int         `json:"card_count"`
	Amount     float64     `json:"amount"`
	Rows       []ReportRow `json:"rows"`
}

type WorkTypeTotal struct {
	WorkTypeID uuid.UUID `json:"work_type_id"`
	Name       string    `json:"name"`
	Unit       WorkUnit  `json:"unit"`
	Quantity   float64   `json:"quantity"`
	Amount     float64   `json:"amount"`
}

type WorkReport struct {
	Filter      ReportFilter    `json:"filter"`
	GeneratedAt time.Time       `json:"generated_at"`
	TotalAmount float64         `json:"total_amount"`
	CardCount   int             `json:"card_count"`
	WorkerCount int             `json:"worker_count"`
	Rows        []ReportRow     `json:"rows"`
	Groups      []WorkerGroup   `json:"groups"`
	WorkTypes   []WorkTypeTotal `json:"work_types"`
}
