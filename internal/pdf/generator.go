package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/sdelka/internal/model"
)

const utf8FontName = "Sans"

// fontCandidates are probed when no font path is configured.
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/noto/NotoSans-Regular.ttf",
}

type Generator struct {
	font []byte
}

// NewGenerator loads a UTF-8 TrueType font from fontPath, or from a known
// system location when fontPath is empty. Without a font the generator falls
// back to the core Helvetica font and transliterates Cyrillic text.
func NewGenerator(fontPath string) (*Generator, error) {
	if fontPath != "" {
		font, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("read pdf font: %w", err)
		}
		if len(font) == 0 {
			return nil, fmt.Errorf("font data is empty")
		}
		return &Generator{font: font}, nil
	}

	for _, candidate := range fontCandidates {
		if font, err := os.ReadFile(candidate); err == nil && len(font) > 0 {
			return &Generator{font: font}, nil
		}
	}
	return &Generator{}, nil
}

func (g *Generator) ContentType() string {
	return "application/pdf"
}

// document wraps gofpdf with the font and text encoding chosen for it.
type document struct {
	pdf      *gofpdf.Fpdf
	fontName string
	tr       func(string) string
}

func (g *Generator) newDocument(orientation string) *document {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	doc := &document{pdf: pdf}
	if len(g.font) > 0 {
		pdf.AddUTF8FontFromBytes(utf8FontName, "", g.font)
		pdf.AddUTF8FontFromBytes(utf8FontName, "B", g.font)
		doc.fontName = utf8FontName
		doc.tr = func(s string) string { return s }
	} else {
		cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
		doc.fontName = "Helvetica"
		doc.tr = func(s string) string { return cp1252(transliterate(s)) }
	}
	pdf.AddPage()
	return doc
}

func (d *document) font(style string, size float64) {
	d.pdf.SetFont(d.fontName, style, size)
}

func (d *document) line(height float64, text, align string) {
	d.pdf.CellFormat(0, height, d.tr(text), "", 1, align, false, 0, "")
}

func (d *document) tableRow(cols []string, widths []float64, header bool, rightFrom int) {
	style := ""
	if header {
		style = "B"
	}
	d.font(style, 9)
	for i, col := range cols {
		align := "L"
		if i >= rightFrom && !header {
			align = "R"
		}
		d.pdf.CellFormat(widths[i], 7, d.tr(fitText(col, widths[i])), "1", 0, align, header, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Generate renders the report as a landscape table with worker and work
// type totals.
func (g *Generator) Generate(report model.WorkReport) ([]byte, error) {
	doc := g.newDocument("L")
	doc.pdf.SetFillColor(230, 230, 230)

	doc.font("B", 14)
	doc.line(10, "Отчет по сдельной работе", "C")
	doc.font("", 11)
	doc.line(6, fmt.Sprintf("Период: %s – %s", formatDatePtr(report.Filter.DateFrom), formatDatePtr(report.Filter.DateTo)), "C")
	doc.line(6, fmt.Sprintf("Нарядов: %d, работников: %d, итого: %s", report.CardCount, report.WorkerCount, formatAmount(report.TotalAmount)), "C")
	doc.pdf.Ln(4)

	headers := []string{"№", "Дата", "Работник", "Изделие", "Договор", "Виды работ", "Сумма наряда", "Доля"}
	widths := []float64{14, 22, 40, 40, 30, 72, 25, 24}
	doc.tableRow(headers, widths, true, 6)
	for _, row := range report.Rows {
		doc.tableRow([]string{
			fmt.Sprintf("%d", row.CardNumber),
			formatDate(row.CardDate),
			row.WorkerName,
			row.Product,
			formatString(row.ContractNumber),
			row.WorkTypes,
			formatAmount(row.CardTotal),
			formatAmount(row.WorkerAmount),
		}, widths, false, 6)
	}

	doc.pdf.Ln(4)
	doc.font("B", 12)
	doc.line(8, "Итого по работникам", "L")
	groupWidths := []float64{80, 30, 40}
	doc.tableRow([]string{"Работник", "Нарядов", "Сумма"}, groupWidths, true, 1)
	for _, group := range report.Groups {
		doc.tableRow([]string{group.WorkerName, fmt.Sprintf("%d", group.CardCount), formatAmount(group.Amount)}, groupWidths, false, 1)
	}
	doc.tableRow([]string{"Итого", "", formatAmount(report.TotalAmount)}, groupWidths, true, 1)

	doc.pdf.Ln(4)
	doc.font("B", 12)
	doc.line(8, "Итого по видам работ", "L")
	typeWidths := []float64{80, 30, 30, 40}
	doc.tableRow([]string{"Вид работ", "Ед. изм.", "Количество", "Сумма"}, typeWidths, true, 2)
	for _, total := range report.WorkTypes {
		doc.tableRow([]string{total.Name, string(total.Unit), formatQuantity(total.Quantity), formatAmount(total.Amount)}, typeWidths, false, 2)
	}

	return doc.bytes()
}

// GenerateCard renders a printable work card with signature lines.
func (g *Generator) GenerateCard(card model.WorkCard) ([]byte, error) {
	doc := g.newDocument("P")
	doc.pdf.SetFillColor(230, 230, 230)

	doc.font("B", 14)
	doc.line(10, fmt.Sprintf("Наряд № %d от %s", card.Number, formatDate(card.Date)), "C")
	doc.pdf.Ln(2)

	doc.font("", 11)
	product := "—"
	if card.Product != nil {
		product = safeValue(card.Product.Label())
	}
	contract := "—"
	if card.Contract != nil {
		contract = safeValue(card.Contract.Number)
	}
	doc.line(6, "Изделие: "+product, "L")
	doc.line(6, "Договор: "+contract, "L")
	doc.pdf.Ln(3)

	doc.font("B", 12)
	doc.line(8, "Выполненные работы", "L")
	widths := []float64{75, 25, 25, 25, 30}
	doc.tableRow([]string{"Вид работ", "Ед. изм.", "Кол-во", "Цена", "Сумма"}, widths, true, 2)
	for _, item := range card.Items {
		name, unit := "", ""
		if item.WorkType != nil {
			name, unit = item.WorkType.Name, string(item.WorkType.Unit)
		}
		doc.tableRow([]string{name, unit, formatQuantity(item.Quantity), formatAmount(item.Price), formatAmount(item.Amount)}, widths, false, 2)
	}
	doc.tableRow([]string{"Итого", "", "", "", formatAmount(card.TotalAmount)}, widths, true, 2)
	doc.pdf.Ln(3)

	doc.font("B", 12)
	doc.line(8, "Исполнители", "L")
	workerWidths := []float64{85, 30, 30, 35}
	doc.tableRow([]string{"ФИО", "Таб. №", "Сумма", "Подпись"}, workerWidths, true, 2)
	for _, w := range card.Workers {
		name, number := "", ""
		if w.Worker != nil {
			name = w.Worker.FullName()
			if w.Worker.EmployeeNumber != nil {
				number = *w.Worker.EmployeeNumber
			}
		}
		doc.tableRow([]string{name, number, formatAmount(w.Amount), ""}, workerWidths, false, 2)
	}

	doc.pdf.Ln(8)
	doc.font("", 11)
	doc.line(6, "Мастер: ______________________", "L")
	doc.line(6, "Нормировщик: ______________________", "L")

	return doc.bytes()
}

// fitText shortens text that would overflow a cell of width mm.
func fitText(text string, width float64) string {
	limit := int(width / 1.9)
	runes := []rune(text)
	if limit < 4 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func formatQuantity(value float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.3f", value), "0"), ".")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02.01.2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "…"
	}
	return formatDate(*t)
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
