package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowRange(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		from  int
		to    int
		want  string
	}{
		{"plain name", "Sheet1", 2, 501, "Sheet1!A2:E501"},
		{"name with space", "가계부 2024", 10, 10, "'가계부 2024'!A10:E10"},
		{"name with quote", "Bob's", 1, 3, "'Bob''s'!A1:E3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rowRange(tt.sheet, tt.from, tt.to))
		})
	}
}

func TestValuesToRows(t *testing.T) {
	values := [][]interface{}{
		{"2024-03-01", 15000.0, "지출", " 식비 "},
		{},
		{"2024-03-02", "3500"},
	}
	rows := valuesToRows(values)

	assert.Equal(t, [][]string{
		{"2024-03-01", "15000", "지출", "식비"},
		{},
		{"2024-03-02", "3500"},
	}, rows)
}

func TestRowsToValues(t *testing.T) {
	values := rowsToValues([][]string{{"a", "b"}, {"c"}})
	assert.Equal(t, [][]interface{}{{"a", "b"}, {"c"}}, values)
}
