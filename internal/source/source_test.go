package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/finreport/internal/aggregate"
	"github.com/ginjaninja78/finreport/internal/transaction"
	"github.com/ginjaninja78/finreport/internal/xlsxparser"
)

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operations.xlsx")
	require.NoError(t, xlsxparser.Write(path, "", [][]string{
		{"data_payment", "card_number", "transaction_amount", "category", "description"},
		{"31.12.2021", "*7197", "-160.89", "Супермаркеты", "Колхоз"},
		{"30.12.2021", "*5091", "-564", "Различные товары", "Ozon.ru"},
	}))

	loader := New(FileRows{Path: path}, transaction.DefaultColumns(), "test", zerolog.Nop())
	set, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, "Ozon.ru", set[1].Description)
}

// writeNumericStatement stores amounts as numbers styled "#,##0.00" and the
// payment date as a serial styled "m/d/yy", the way a bank export does.
func writeNumericStatement(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	date, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"category", "transaction_amount", "card_number", "data_payment"}))
	require.NoError(t, f.SetCellStr("Sheet1", "A2", "Переводы"))
	require.NoError(t, f.SetCellFloat("Sheet1", "B2", -1234.56, -1, 64))
	require.NoError(t, f.SetCellStr("Sheet1", "C2", "*7197"))
	require.NoError(t, f.SetCellFloat("Sheet1", "D2", 44561, -1, 64))
	require.NoError(t, f.SetCellStr("Sheet1", "A3", "Супермаркеты"))
	require.NoError(t, f.SetCellFloat("Sheet1", "B3", -160.89, -1, 64))
	require.NoError(t, f.SetCellStr("Sheet1", "C3", "*7197"))
	require.NoError(t, f.SetCellFloat("Sheet1", "D3", 44560, -1, 64))

	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B3", money))
	require.NoError(t, f.SetCellStyle("Sheet1", "D2", "D3", date))
	require.NoError(t, f.SaveAs(path))
}

func TestLoadXLSXNumericCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operations.xlsx")
	writeNumericStatement(t, path)

	var buf bytes.Buffer
	loader := New(FileRows{Path: path}, transaction.DefaultColumns(), "test", zerolog.New(&buf))
	set, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, set, 2)

	assert.True(t, set[0].Amount.Equal(decimal.RequireFromString("-1234.56")), set[0].Amount.String())
	assert.True(t, set[1].Amount.Equal(decimal.RequireFromString("-160.89")), set[1].Amount.String())
	require.NotNil(t, set[0].PaymentDate)
	assert.Equal(t, civil.Date{Year: 2021, Month: 12, Day: 31}, *set[0].PaymentDate)
	require.NotNil(t, set[1].PaymentDate)
	assert.Equal(t, civil.Date{Year: 2021, Month: 12, Day: 30}, *set[1].PaymentDate)

	assert.True(t, aggregate.TotalExpenses(set).Equal(decimal.RequireFromString("1395.45")))
	assert.NotContains(t, buf.String(), `"level":"warn"`)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operations.csv")
	content := "category;transaction_amount;description\nКафе;-100;Coffee\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loader := New(FileRows{Path: path}, transaction.DefaultColumns(), "test", zerolog.Nop())
	set, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "Кафе", set[0].Category)
}

func TestLoadMissingFileIsSoft(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	loader := New(FileRows{Path: filepath.Join(t.TempDir(), "absent.xlsx")}, transaction.DefaultColumns(), "test", log)
	set, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, set)
	assert.Contains(t, buf.String(), "statement file not found")
}

func TestReadMissingFileIsNotFound(t *testing.T) {
	loader := New(FileRows{Path: filepath.Join(t.TempDir(), "absent.csv")}, transaction.DefaultColumns(), "test", zerolog.Nop())
	_, err := loader.Read(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUnsupportedExtension(t *testing.T) {
	loader := New(FileRows{Path: "statement.xls"}, transaction.DefaultColumns(), "test", zerolog.Nop())
	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

type staticRows [][]string

func (s staticRows) Rows(context.Context) ([][]string, error) { return s, nil }

func TestMalformedCellsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	loader := New(staticRows{{"category", "amount"}, {"Food", "n/a"}}, transaction.DefaultColumns(), "test", zerolog.New(&buf))

	set, err := loader.Read(context.Background())
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"row":2`)
}
