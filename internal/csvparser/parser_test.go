package csvparser

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseReaderSemicolon(t *testing.T) {
	input := "\ufeff\"category\";\"transaction_amount\"\n\"Cafe\";\"-10,5\"\n\"Total\"\n"

	rows, err := ParseReader(strings.NewReader(input), Settings{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"category", "transaction_amount"}, rows[0])
	assert.Equal(t, []string{"Cafe", "-10,5"}, rows[1])
	assert.Equal(t, []string{"Total"}, rows[2])
}

func TestParseReaderWindows1251(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("Категория,Описание\nКафе,Обед\n")
	require.NoError(t, err)

	rows, err := ParseReader(bytes.NewBufferString(encoded), Settings{Delimiter: ",", Encoding: "Windows-1251"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Категория", "Описание"}, {"Кафе", "Обед"}}, rows)
}

func TestParseReaderUnsupportedEncoding(t *testing.T) {
	_, err := ParseReader(strings.NewReader("a"), Settings{Encoding: "koi8-u"})
	assert.Error(t, err)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "absent.csv"), Settings{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
