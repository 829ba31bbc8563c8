package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/sdelka/internal/model"
)

func TestBuildReportRowsQuery_NoFilter(t *testing.T) {
	query, args := BuildReportRowsQuery(model.ReportFilter{})

	assert.Empty(t, args)
	assert.NotContains(t, query, " AND ")
	assert.True(t, strings.HasSuffix(query, "ORDER BY wc.date ASC, wc.number ASC, wcw.position ASC"))
}

func TestBuildReportRowsQuery_AllFilters(t *testing.T) {
	workerID, workTypeID, productID, contractID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	from, to := day(2024, 1, 1), day(2024, 1, 31)

	query, args := BuildReportRowsQuery(model.ReportFilter{
		WorkerID:   &workerID,
		DateFrom:   &from,
		DateTo:     &to,
		WorkTypeID: &workTypeID,
		ProductID:  &productID,
		ContractID: &contractID,
	})

	assert.Equal(t, []interface{}{workerID, from, day(2024, 2, 1), workTypeID, productID, contractID}, args)
	assert.Equal(t, len(args), strings.Count(query, "?"))
	for _, clause := range []string{
		"AND wcw.worker_id = ?",
		"AND wc.date >= ?",
		"AND wc.date < ?",
		"fi.work_type_id = ?",
		"AND wc.product_id = ?",
		"AND wc.contract_id = ?",
	} {
		assert.Contains(t, query, clause)
	}
}

func TestBuildReportItemsQuery_WorkerKeepsWholeCard(t *testing.T) {
	workerID := uuid.New()
	query, args := BuildReportItemsQuery(model.ReportFilter{WorkerID: &workerID})

	assert.Equal(t, []interface{}{workerID}, args)
	assert.Contains(t, query, "EXISTS (SELECT 1 FROM work_card_workers fw")
	assert.NotContains(t, query, "wcw.worker_id")
}

func TestReportRepository_Filters(t *testing.T) {
	database := newTestDB(t)
	f := seedCatalog(t, database)
	cards := NewWorkCardRepository(database)
	repo := NewReportRepository(database)
	ctx := context.Background()

	require.NoError(t, cards.Create(ctx, newCard(1, day(2024, 2, 1), &f.products[0], &f.contracts[0],
		[]model.WorkCardItem{item(f.workTypes[0], 2)}, f.workers[0], f.workers[1])))
	require.NoError(t, cards.Create(ctx, newCard(2, day(2024, 2, 20), &f.products[1], &f.contracts[0],
		[]model.WorkCardItem{item(f.workTypes[1], 1), item(f.workTypes[0], 1)}, f.workers[1])))
	require.NoError(t, cards.Create(ctx, newCard(3, day(2024, 3, 5), nil, nil,
		[]model.WorkCardItem{item(f.workTypes[1], 2)}, f.workers[2])))

	rows, err := repo.ListRows(ctx, model.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, int64(1), rows[0].CardNumber)
	assert.Equal(t, "Иванов", rows[0].LastName)
	assert.InDelta(t, 150.0, rows[0].WorkerAmount, 1e-9)
	assert.InDelta(t, 300.0, rows[0].CardTotal, 1e-9)
	require.NotNil(t, rows[0].ProductNumber)
	assert.Equal(t, "П-1", *rows[0].ProductNumber)
	require.NotNil(t, rows[0].ContractNumber)
	assert.Equal(t, "Д-2024/1", *rows[0].ContractNumber)
	assert.Nil(t, rows[3].ProductNumber)
	assert.Nil(t, rows[3].ContractNumber)
	assert.True(t, rows[3].CardDate.Equal(day(2024, 3, 5)))

	rows, err = repo.ListRows(ctx, model.ReportFilter{WorkerID: idPtr(f.workers[1].ID)})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = repo.ListRows(ctx, model.ReportFilter{DateFrom: timePtr(day(2024, 2, 20)), DateTo: timePtr(day(2024, 3, 5))})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].CardNumber)
	assert.Equal(t, int64(3), rows[1].CardNumber)

	rows, err = repo.ListRows(ctx, model.ReportFilter{WorkTypeID: idPtr(f.workTypes[0].ID)})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = repo.ListRows(ctx, model.ReportFilter{ProductID: idPtr(f.products[1].ID), ContractID: idPtr(f.contracts[0].ID)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].CardNumber)

	items, err := repo.ListItems(ctx, model.ReportFilter{WorkerID: idPtr(f.workers[1].ID)})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Сборка корпуса", items[0].WorkTypeName)
	assert.Equal(t, model.WorkUnitPieces, items[0].Unit)
	assert.InDelta(t, 2.0, items[0].Quantity, 1e-9)
	assert.Equal(t, "Покраска", items[1].WorkTypeName)

	items, err = repo.ListItems(ctx, model.ReportFilter{ContractID: idPtr(uuid.New())})
	require.NoError(t, err)
	assert.Empty(t, items)
}
