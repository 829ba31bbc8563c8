package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/sdelka/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportRowsQuery = `
	SELECT
		wc.id AS card_id,
		wc.number AS card_number,
		wc.date AS card_date,
		w.id AS worker_id,
		w.last_name,
		w.first_name,
		w.middle_name,
		p.number AS product_number,
		p.type AS product_type,
		p.additional_number AS product_additional_number,
		c.number AS contract_number,
		wc.total_amount AS card_total,
		wcw.amount AS worker_amount
	FROM work_cards wc
	JOIN work_card_workers wcw ON wcw.work_card_id = wc.id
	JOIN workers w ON w.id = wcw.worker_id
	LEFT JOIN products p ON p.id = wc.product_id
	LEFT JOIN contracts c ON c.id = wc.contract_id
	WHERE 1 = 1
`

const reportItemsQuery = `
	SELECT
		wc.id AS card_id,
		wc.number AS card_number,
		wt.id AS work_type_id,
		wt.name AS work_type_name,
		wt.unit,
		i.quantity,
		i.price,
		i.amount
	FROM work_cards wc
	JOIN work_card_items i ON i.work_card_id = wc.id
	JOIN work_types wt ON wt.id = i.work_type_id
	WHERE 1 = 1
`

// BuildReportRowsQuery returns the per (card, worker) query for filter.
func BuildReportRowsQuery(filter model.ReportFilter) (string, []interface{}) {
	query, args := appendReportFilter(reportRowsQuery, nil, filter, "wcw.worker_id = ?")
	return query + " ORDER BY wc.date ASC, wc.number ASC, wcw.position ASC", args
}

// BuildReportItemsQuery returns the per (card, item) query for filter. The
// worker filter keeps whole cards the worker took part in.
func BuildReportItemsQuery(filter model.ReportFilter) (string, []interface{}) {
	query, args := appendReportFilter(reportItemsQuery, nil, filter,
		"EXISTS (SELECT 1 FROM work_card_workers fw WHERE fw.work_card_id = wc.id AND fw.worker_id = ?)")
	return query + " ORDER BY wc.date ASC, wc.number ASC, i.position ASC", args
}

// appendReportFilter adds a clause and its argument for every filter field
// that is set. workerClause carries the single placeholder for the worker id.
func appendReportFilter(baseQuery string, args []interface{}, filter model.ReportFilter, workerClause string) (string, []interface{}) {
	if filter.WorkerID != nil {
		baseQuery += " AND " + workerClause
		args = append(args, *filter.WorkerID)
	}
	if filter.DateFrom != nil {
		baseQuery += " AND wc.date >= ?"
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		baseQuery += " AND wc.date < ?"
		args = append(args, filter.DateTo.Add(24*time.Hour))
	}
	if filter.WorkTypeID != nil {
		baseQuery += " AND EXISTS (SELECT 1 FROM work_card_items fi WHERE fi.work_card_id = wc.id AND fi.work_type_id = ?)"
		args = append(args, *filter.WorkTypeID)
	}
	if filter.ProductID != nil {
		baseQuery += " AND wc.product_id = ?"
		args = append(args, *filter.ProductID)
	}
	if filter.ContractID != nil {
		baseQuery += " AND wc.contract_id = ?"
		args = append(args, *filter.ContractID)
	}
	return baseQuery, args
}

func (r *ReportRepository) ListRows(ctx context.Context, filter model.ReportFilter) ([]model.ReportRow, error) {
	query, args := BuildReportRowsQuery(filter)

	var rows []model.ReportRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReportRepository) ListItems(ctx context.Context, filter model.ReportFilter) ([]model.ReportItemRow, error) {
	query, args := BuildReportItemsQuery(filter)

	var rows []model.ReportItemRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
