package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, "Performance", []Column{
		{Header: "Employee ID", Width: 16},
		{Header: "Packages Handled"},
	}, [][]interface{}{
		{"E-100", 120},
		{"E-101", 95},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Performance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Employee ID", "Packages Handled"}, rows[0])
	assert.Equal(t, []string{"E-100", "120"}, rows[1])
	assert.Equal(t, []string{"E-101", "95"}, rows[2])
}
