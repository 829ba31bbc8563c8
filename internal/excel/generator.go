package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/sdelka/internal/model"
)

const (
	summarySheet   = "Сводка"
	workTypesSheet = "Виды работ"
	maxSheetName   = 31
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (g *Generator) Generate(report model.WorkReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	header, err := file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "#000000", Style: 1}},
	})
	if err != nil {
		return nil, err
	}
	money, err := file.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}
	styles := sheetStyles{header: header, money: money}

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, summarySheet, report, styles); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{summarySheet: {}, workTypesSheet: {}}
	for _, group := range report.Groups {
		sheetName := buildSheetName(group.WorkerName, group.WorkerID, usedNames)
		usedNames[sheetName] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		if err := g.writeWorker(file, sheetName, report, group, styles); err != nil {
			return nil, err
		}
	}

	if _, err := file.NewSheet(workTypesSheet); err != nil {
		return nil, err
	}
	if err := g.writeWorkTypes(file, workTypesSheet, report, styles); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	header int
	money  int
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.WorkReport, styles sheetStyles) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Отчет по сдельной работе")
	set("A2", "Начало периода")
	set("B2", formatDatePtr(report.Filter.DateFrom))
	set("A3", "Конец периода")
	set("B3", formatDatePtr(report.Filter.DateTo))
	set("A4", "Сформирован")
	set("B4", formatDateTime(report.GeneratedAt))
	set("A5", "Количество нарядов")
	set("B5", report.CardCount)
	set("A6", "Количество работников")
	set("B6", report.WorkerCount)
	set("A7", "Итого начислено")
	set("B7", report.TotalAmount)
	_ = file.SetCellStyle(sheet, "B7", "B7", styles.money)

	tableRow := 9
	if err := writeHeader(file, sheet, tableRow, styles.header, "Работник", "Нарядов", "Сумма"); err != nil {
		return err
	}
	for i, group := range report.Groups {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), group.WorkerName)
		set(fmt.Sprintf("B%d", row), group.CardCount)
		set(fmt.Sprintf("C%d", row), group.Amount)
	}
	totalRow := tableRow + len(report.Groups) + 1
	set(fmt.Sprintf("A%d", totalRow), "Итого")
	set(fmt.Sprintf("C%d", totalRow), report.TotalAmount)
	_ = file.SetCellStyle(sheet, fmt.Sprintf("C%d", tableRow+1), fmt.Sprintf("C%d", totalRow), styles.money)

	_ = file.SetColWidth(sheet, "A", "A", 36)
	_ = file.SetColWidth(sheet, "B", "C", 18)
	return nil
}

func (g *Generator) writeWorker(file *excelize.File, sheet string, report model.WorkReport, group model.WorkerGroup, styles sheetStyles) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Работник")
	set("B1", group.WorkerName)
	set("A2", "Период")
	set("B2", formatPeriod(report.Filter))
	set("A3", "Нарядов")
	set("B3", group.CardCount)
	set("A4", "Сумма")
	set("B4", group.Amount)
	_ = file.SetCellStyle(sheet, "B4", "B4", styles.money)

	tableRow := 6
	if err := writeHeader(file, sheet, tableRow, styles.header,
		"№ наряда", "Дата", "Изделие", "Договор", "Виды работ", "Сумма наряда", "Доля работника"); err != nil {
		return err
	}
	for i, row := range group.Rows {
		r := tableRow + 1 + i
		set(fmt.Sprintf("A%d", r), row.CardNumber)
		set(fmt.Sprintf("B%d", r), formatDate(row.CardDate))
		set(fmt.Sprintf("C%d", r), row.Product)
		set(fmt.Sprintf("D%d", r), formatString(row.ContractNumber))
		set(fmt.Sprintf("E%d", r), row.WorkTypes)
		set(fmt.Sprintf("F%d", r), row.CardTotal)
		set(fmt.Sprintf("G%d", r), row.WorkerAmount)
	}
	if len(group.Rows) > 0 {
		_ = file.SetCellStyle(sheet, fmt.Sprintf("F%d", tableRow+1), fmt.Sprintf("G%d", tableRow+len(group.Rows)), styles.money)
	}

	_ = file.SetColWidth(sheet, "A", "B", 12)
	_ = file.SetColWidth(sheet, "C", "D", 24)
	_ = file.SetColWidth(sheet, "E", "E", 40)
	_ = file.SetColWidth(sheet, "F", "G", 16)
	return nil
}

func (g *Generator) writeWorkTypes(file *excelize.File, sheet string, report model.WorkReport, styles sheetStyles) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	if err := writeHeader(file, sheet, 1, styles.header, "Вид работ", "Ед. изм.", "Количество", "Сумма"); err != nil {
		return err
	}
	for i, total := range report.WorkTypes {
		row := 2 + i
		set(fmt.Sprintf("A%d", row), total.Name)
		set(fmt.Sprintf("B%d", row), string(total.Unit))
		set(fmt.Sprintf("C%d", row), total.Quantity)
		set(fmt.Sprintf("D%d", row), total.Amount)
	}
	if len(report.WorkTypes) > 0 {
		_ = file.SetCellStyle(sheet, "D2", fmt.Sprintf("D%d", len(report.WorkTypes)+1), styles.money)
	}

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "D", 16)
	return nil
}

func writeHeader(file *excelize.File, sheet string, row, style int, headers ...string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(headers), row)
	return file.SetCellStyle(sheet, first, last, style)
}

func buildSheetName(name string, id uuid.UUID, used map[string]struct{}) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = id.String()
	}
	base = truncateRunes(sanitizeSheetName(base), maxSheetName)

	nameCandidate := base
	counter := 2
	for {
		if _, exists := used[nameCandidate]; !exists {
			return nameCandidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		nameCandidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
		counter++
	}
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Лист"
	}

	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.Trim(strings.TrimSpace(replacer.Replace(value)), "'")
	if value == "" {
		return "Лист"
	}
	return value
}

// truncateRunes keeps sheet names within the limit without splitting a
// multi-byte character.
func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "не задано"
	}
	return formatDate(*t)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006 15:04")
}

func formatPeriod(filter model.ReportFilter) string {
	return fmt.Sprintf("%s – %s", formatDatePtr(filter.DateFrom), formatDatePtr(filter.DateTo))
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
