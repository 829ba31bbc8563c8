package html

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/nurpe/sdelka/internal/model"
)

//go:embed report.html.tmpl
var reportTemplate string

type Generator struct {
	tmpl *template.Template
}

func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"amount":   formatAmount,
		"quantity": formatQuantity,
		"date":     formatDate,
		"datePtr":  formatDatePtr,
		"dateTime": formatDateTime,
		"str":      formatString,
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

func (g *Generator) ContentType() string {
	return "text/html; charset=utf-8"
}

func (g *Generator) Generate(report model.WorkReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func formatQuantity(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "…"
	}
	return formatDate(*t)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006 15:04")
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
