package pdf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/sdelka/internal/model"
)

func coreFontGenerator() *Generator {
	return &Generator{}
}

func sampleCard() model.WorkCard {
	number := "101"
	workType := &model.WorkType{Name: "Сборка корпуса", Unit: model.WorkUnitPieces, Price: 150}
	return model.WorkCard{
		ID:          uuid.New(),
		Number:      12,
		Date:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: 450,
		Product:     &model.Product{Number: "П-1", Type: "шкаф"},
		Contract:    &model.Contract{Number: "Д-1"},
		Items:       []model.WorkCardItem{{Quantity: 3, Price: 150, Amount: 450, WorkType: workType}},
		Workers: []model.WorkCardWorker{
			{Amount: 225, Worker: &model.Worker{LastName: "Иванов", FirstName: "Иван", EmployeeNumber: &number}},
			{Amount: 225, Worker: &model.Worker{LastName: "Петров", FirstName: "Пётр"}},
		},
	}
}

func TestGenerator_GenerateCard(t *testing.T) {
	content, err := coreFontGenerator().GenerateCard(sampleCard())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))
}

func TestGenerator_GenerateReport(t *testing.T) {
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	contract := "Д-1"
	row := model.ReportRow{CardNumber: 1, CardDate: from, WorkerName: "Иванов И.", ContractNumber: &contract, CardTotal: 450, WorkerAmount: 450}
	report := model.WorkReport{
		Filter:      model.ReportFilter{DateFrom: &from},
		TotalAmount: 450,
		CardCount:   1,
		WorkerCount: 1,
		Rows:        []model.ReportRow{row},
		Groups:      []model.WorkerGroup{{WorkerName: "Иванов И.", CardCount: 1, Amount: 450, Rows: []model.ReportRow{row}}},
		WorkTypes:   []model.WorkTypeTotal{{Name: "Сборка", Unit: model.WorkUnitPieces, Quantity: 3, Amount: 450}},
	}

	content, err := coreFontGenerator().Generate(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF-")))

	empty, err := coreFontGenerator().Generate(model.WorkReport{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))
}

func TestNewGenerator_FontPath(t *testing.T) {
	_, err := NewGenerator(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)

	emptyFont := filepath.Join(t.TempDir(), "empty.ttf")
	require.NoError(t, os.WriteFile(emptyFont, nil, 0o600))
	_, err = NewGenerator(emptyFont)
	assert.Error(t, err)

	g, err := NewGenerator("")
	require.NoError(t, err)
	assert.NotNil(t, g)
}

func TestTransliterate(t *testing.T) {
	assert.Equal(t, "Ivanov Petr", transliterate("Иванов Пётр"))
	assert.Equal(t, "Naryad No 5", transliterate("Наряд № 5"))
	assert.Equal(t, "Shchukin Yu.", transliterate("Щукин Ю."))
	assert.Equal(t, "Sborka - 3 sht", transliterate("Сборка – 3 шт"))
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "3", formatQuantity(3))
	assert.Equal(t, "2.5", formatQuantity(2.5))
	assert.Equal(t, "0.125", formatQuantity(0.125))
}
