package helper

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSheetReadSheet(t *testing.T) {
	raw, err := WriteSheet("Stock", []string{"Name", " Batch No ", "Quantity"}, [][]interface{}{
		{"Paracetamol 500", "B-101", 40},
		{"", "", ""},
		{"Cough Syrup", "CS-9", 3},
	})
	require.NoError(t, err)

	rows, err := ReadSheet(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Paracetamol 500", rows[0]["name"])
	assert.Equal(t, "B-101", rows[0]["batch no"])
	assert.Equal(t, "40", rows[0]["quantity"])
	assert.Equal(t, "CS-9", rows[1]["batch no"])
}

func TestReadSheet_HeaderOnly(t *testing.T) {
	raw, err := WriteSheet("Stock", []string{"Name"}, nil)
	require.NoError(t, err)

	_, err = ReadSheet(bytes.NewReader(raw))
	assert.EqualError(t, err, "no data found in the Excel sheet")
}

func TestReadSheet_NotAWorkbook(t *testing.T) {
	_, err := ReadSheet(bytes.NewReader([]byte("name,batch\n")))
	assert.Error(t, err)
}
