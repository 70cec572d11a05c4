package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// excelFixture builds a workbook with a header row, eight data rows and two
// trailing blank rows.
func excelFixture(t *testing.T) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]any{"Column Name", "foo"}))
	for row := 2; row <= 9; row++ {
		cell, err := excelize.CoordinatesToCellName(1, row)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &[]any{"value", "bar"}))
	}
	require.NoError(t, wb.SetSheetRow("Sheet1", "A10", &[]any{nil, nil}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A11", &[]any{nil, nil}))

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
