package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/sdelka/internal/model"
)

const contentTypePDF = "application/pdf"

// ReportSource runs the two report queries for one filter.
type ReportSource interface {
	ListRows(ctx context.Context, filter model.ReportFilter) ([]model.ReportRow, error)
	ListItems(ctx context.Context, filter model.ReportFilter) ([]model.ReportItemRow, error)
}

type ReportGenerator interface {
	Generate(report model.WorkReport) ([]byte, error)
	ContentType() string
}

type ReportService struct {
	source     ReportSource
	generators map[model.ReportFormat]ReportGenerator
	now        func() time.Time
}

func NewReportService(source ReportSource, generators map[model.ReportFormat]ReportGenerator) *ReportService {
	return &ReportService{
		source:     source,
		generators: generators,
		now:        time.Now,
	}
}

// Build runs the report queries concurrently and aggregates the result.
func (s *ReportService) Build(ctx context.Context, filter model.ReportFilter) (*model.WorkReport, error) {
	filter, err := normalizeReportFilter(filter)
	if err != nil {
		return nil, err
	}

	var (
		rows  []model.ReportRow
		items []model.ReportItemRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.source.ListRows(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.source.ListItems(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := aggregateReport(filter, rows, items)
	report.GeneratedAt = s.now().UTC()
	return &report, nil
}

func (s *ReportService) Export(ctx context.Context, filter model.ReportFilter, format model.ReportFormat) (*FileResult, error) {
	format = model.ReportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	generator, ok := s.generators[format]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported report format %q", ErrInvalidInput, format)
	}

	report, err := s.Build(ctx, filter)
	if err != nil {
		return nil, err
	}

	content, err := generator.Generate(*report)
	if err != nil {
		return nil, err
	}

	return &FileResult{
		FileName:    buildFileName(report.Filter, format),
		ContentType: generator.ContentType(),
		Content:     content,
	}, nil
}

func normalizeReportFilter(filter model.ReportFilter) (model.ReportFilter, error) {
	filter.DateFrom = datePtr(filter.DateFrom)
	filter.DateTo = datePtr(filter.DateTo)
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return filter, fmt.Errorf("%w: date_from must be before or equal to date_to", ErrInvalidInput)
	}
	return filter, nil
}

func aggregateReport(filter model.ReportFilter, rows []model.ReportRow, items []model.ReportItemRow) model.WorkReport {
	cardWorkTypes := make(map[uuid.UUID][]string)
	workTypeIndex := make(map[uuid.UUID]int)
	workTypes := make([]model.WorkTypeTotal, 0)
	workTypeQty := make([]decimal.Decimal, 0)
	workTypeAmount := make([]decimal.Decimal, 0)

	for _, item := range items {
		names := cardWorkTypes[item.CardID]
		if !containsString(names, item.WorkTypeName) {
			cardWorkTypes[item.CardID] = append(names, item.WorkTypeName)
		}

		pos, ok := workTypeIndex[item.WorkTypeID]
		if !ok {
			workTypes = append(workTypes, model.WorkTypeTotal{
				WorkTypeID: item.WorkTypeID,
				Name:       item.WorkTypeName,
				Unit:       item.Unit,
			})
			workTypeQty = append(workTypeQty, decimal.Zero)
			workTypeAmount = append(workTypeAmount, decimal.Zero)
			pos = len(workTypes) - 1
			workTypeIndex[item.WorkTypeID] = pos
		}
		workTypeQty[pos] = workTypeQty[pos].Add(decimal.NewFromFloat(item.Quantity))
		workTypeAmount[pos] = workTypeAmount[pos].Add(decimal.NewFromFloat(item.Amount))
	}
	for i := range workTypes {
		workTypes[i].Quantity = workTypeQty[i].InexactFloat64()
		workTypes[i].Amount = workTypeAmount[i].Round(amountPlaces).InexactFloat64()
	}
	sort.SliceStable(workTypes, func(i, j int) bool {
		return workTypes[i].Name < workTypes[j].Name
	})

	total := decimal.Zero
	cards := make(map[uuid.UUID]struct{})
	groupIndex := make(map[uuid.UUID]int)
	groups := make([]model.WorkerGroup, 0)
	groupAmount := make([]decimal.Decimal, 0)

	for i := range rows {
		row := &rows[i]
		row.WorkerName = model.Worker{
			LastName:   row.LastName,
			FirstName:  row.FirstName,
			MiddleName: row.MiddleName,
		}.ShortName()
		row.Product = model.Product{
			Number:           deref(row.ProductNumber),
			Type:             deref(row.ProductType),
			AdditionalNumber: deref(row.ProductAdditionalNumber),
		}.Label()
		row.WorkTypes = strings.Join(cardWorkTypes[row.CardID], ", ")

		amount := decimal.NewFromFloat(row.WorkerAmount)
		total = total.Add(amount)
		cards[row.CardID] = struct{}{}

		pos, ok := groupIndex[row.WorkerID]
		if !ok {
			groups = append(groups, model.WorkerGroup{
				WorkerID:   row.WorkerID,
				WorkerName: row.WorkerName,
			})
			groupAmount = append(groupAmount, decimal.Zero)
			pos = len(groups) - 1
			groupIndex[row.WorkerID] = pos
		}
		groups[pos].CardCount++
		groups[pos].Rows = append(groups[pos].Rows, *row)
		groupAmount[pos] = groupAmount[pos].Add(amount)
	}
	for i := range groups {
		groups[i].Amount = groupAmount[i].Round(amountPlaces).InexactFloat64()
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].WorkerName < groups[j].WorkerName
	})

	if rows == nil {
		rows = []model.ReportRow{}
	}
	return model.WorkReport{
		Filter:      filter,
		TotalAmount: total.Round(amountPlaces).InexactFloat64(),
		CardCount:   len(cards),
		WorkerCount: len(groups),
		Rows:        rows,
		Groups:      groups,
		WorkTypes:   workTypes,
	}
}

func buildFileName(filter model.ReportFilter, format model.ReportFormat) string {
	period := "all"
	switch {
	case filter.DateFrom != nil && filter.DateTo != nil:
		period = fmt.Sprintf("%s-%s", filter.DateFrom.Format("20060102"), filter.DateTo.Format("20060102"))
	case filter.DateFrom != nil:
		period = "from-" + filter.DateFrom.Format("20060102")
	case filter.DateTo != nil:
		period = "to-" + filter.DateTo.Format("20060102")
	}
	return fmt.Sprintf("sdelka-report-%s.%s", sanitizeFileName(period), format)
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
