package services_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"

	"github.com/hihello1226/our-ledger/internal/apperrors"
	"github.com/hihello1226/our-ledger/internal/core/domain"
	"github.com/hihello1226/our-ledger/internal/core/services"
)

func TestParseImportFile_CSVWithBOMAndDuplicateHeaders(t *testing.T) {
	content := []byte("\xEF\xBB\xBF날짜,금액,메모,금액\n2024-03-01,\"15,000\",저녁,1\n,,,\n")

	table, err := services.ParseImportFile(content, "bank.CSV", "utf-8")

	require.NoError(t, err)
	assert.Equal(t, []string{"날짜", "금액", "메모", "금액_2"}, table.Headers)
	require.Len(t, table.Rows, 1, "blank rows are dropped")
	assert.Equal(t, "15,000", table.Rows[0]["금액"])
	assert.Equal(t, "1", table.Rows[0]["금액_2"])
}

func TestParseImportFile_SuffixSkipsExistingHeader(t *testing.T) {
	table, err := services.ParseImportFile([]byte("memo,memo,memo_2\na,b,c\n"), "bank.csv", "utf-8")

	require.NoError(t, err)
	assert.Equal(t, []string{"memo", "memo_2", "memo_2_2"}, table.Headers)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, map[string]string{"memo": "a", "memo_2": "b", "memo_2_2": "c"}, table.Rows[0])
}

func TestParseImportFile_FallsBackToEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().Bytes([]byte("거래일,거래금액,적요\n2024.03.02,5000,택시\n"))
	require.NoError(t, err)

	table, err := services.ParseImportFile(encoded, "export.csv", "utf-8")

	require.NoError(t, err)
	assert.Equal(t, []string{"거래일", "거래금액", "적요"}, table.Headers)
	assert.Equal(t, "택시", table.Rows[0]["적요"])
}

func TestParseImportFile_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"date", "amount", "type"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"2024-03-05", "30000", "수입"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := services.ParseImportFile(buf.Bytes(), "book.xlsx", "")

	require.NoError(t, err)
	assert.Equal(t, []string{"date", "amount", "type"}, table.Headers)
	assert.Equal(t, "수입", table.Rows[0]["type"])
}

func TestParseImportFile_Rejections(t *testing.T) {
	_, err := services.ParseImportFile([]byte("a,b"), "notes.txt", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = services.ParseImportFile(bytes.Repeat([]byte{0x00, 0xff}, 8), "legacy.xls", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDetectColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    domain.ColumnMapping
	}{
		{
			name:    "korean bank export",
			headers: []string{"거래일자", "거래금액", "적요", "통장"},
			want:    domain.ColumnMapping{Date: "거래일자", Amount: "거래금액", Memo: "적요", Account: "통장"},
		},
		{
			name:    "first header wins a role",
			headers: []string{"Date", "Amount", "Memo", "memo2"},
			want:    domain.ColumnMapping{Date: "Date", Amount: "Amount", Memo: "Memo"},
		},
		{
			name:    "classification columns",
			headers: []string{"날짜", "금액", "분류", "카테고리", "소분류"},
			want:    domain.ColumnMapping{Date: "날짜", Amount: "금액", Type: "분류", Category: "카테고리", Subcategory: "소분류"},
		},
		{
			name:    "unknown headers",
			headers: []string{"foo", "bar"},
			want:    domain.ColumnMapping{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.DetectColumns(tt.headers))
		})
	}
}
