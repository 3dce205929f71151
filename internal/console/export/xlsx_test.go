package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, "Companies",
		[]string{"Name", "District", "Status"},
		[][]string{
			{"Alpha Guards", "Lilongwe", "Approved"},
			{"Beta Security", "Blantyre", "Pending"},
		})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Companies")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "District", "Status"},
		{"Alpha Guards", "Lilongwe", "Approved"},
		{"Beta Security", "Blantyre", "Pending"},
	}, rows)
}

func TestWriteXLSX_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Firearms", []string{"Serial"}, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Firearms")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Serial"}}, rows)
}
