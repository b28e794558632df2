package spreadsheet_test

import (
	"bytes"
	"testing"

	"hrms-lite/internal/shared/spreadsheet"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := spreadsheet.Write(&buf, "Employees",
		[]string{"Employee ID", "Full Name"},
		[][]any{{"HR-001", "Jane Doe"}, {"ENG-002", "John Roe"}},
	)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Employees")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Employee ID", "Full Name"},
		{"HR-001", "Jane Doe"},
		{"ENG-002", "John Roe"},
	}, rows)
}

func TestWrite_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, spreadsheet.Write(&buf, "Attendance", []string{"Date"}, nil))

	f, err := excelize.OpenReader(&buf)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"Date"}}, rows)
}
