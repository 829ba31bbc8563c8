package csv

import (
	"bytes"
	encsv "encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/nurpe/sdelka/internal/config"
	"github.com/nurpe/sdelka/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Generator writes ';'-separated rows with comma decimals, the layout
// spreadsheet tools expect in Russian locales.
type Generator struct {
	encoding string
}

func NewGenerator(encodingName string) *Generator {
	if encodingName == "" {
		encodingName = config.EncodingWindows1251
	}
	return &Generator{encoding: encodingName}
}

func (g *Generator) ContentType() string {
	return "text/csv; charset=" + g.encoding
}

func (g *Generator) Generate(report model.WorkReport) ([]byte, error) {
	var buf bytes.Buffer
	w := encsv.NewWriter(&buf)
	w.Comma = ';'
	w.UseCRLF = true

	records := [][]string{
		{"№ наряда", "Дата", "Работник", "Изделие", "Договор", "Виды работ", "Сумма наряда", "Доля работника"},
	}
	for _, row := range report.Rows {
		records = append(records, []string{
			strconv.FormatInt(row.CardNumber, 10),
			formatDate(row.CardDate),
			row.WorkerName,
			row.Product,
			formatString(row.ContractNumber),
			row.WorkTypes,
			formatAmount(row.CardTotal),
			formatAmount(row.WorkerAmount),
		})
	}
	records = append(records,
		[]string{},
		[]string{"Нарядов", strconv.Itoa(report.CardCount)},
		[]string{"Работников", strconv.Itoa(report.WorkerCount)},
		[]string{"Итого", formatAmount(report.TotalAmount)},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return g.encode(buf.Bytes())
}

func (g *Generator) encode(content []byte) ([]byte, error) {
	switch g.encoding {
	case config.EncodingUTF8:
		return append(append([]byte{}, utf8BOM...), content...), nil
	case config.EncodingWindows1251:
		encoder := encoding.ReplaceUnsupported(charmap.Windows1251.NewEncoder())
		encoded, err := encoder.Bytes(content)
		if err != nil {
			return nil, fmt.Errorf("encode csv: %w", err)
		}
		return encoded, nil
	default:
		return nil, fmt.Errorf("unsupported csv encoding %q", g.encoding)
	}
}

func formatAmount(value float64) string {
	return strings.Replace(strconv.FormatFloat(value, 'f', 2, 64), ".", ",", 1)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
