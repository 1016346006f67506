package format

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datanauts/genie-chat/internal/genie"
)

func makeTabular(rows int) *genie.QueryResultPayload {
	t := &genie.TabularResult{
		Columns: []genie.Column{
			{Name: "region", TypeName: "STRING"},
			{Name: "total", TypeName: "BIGINT"},
		},
	}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, []any{fmt.Sprintf("region-%d", i), fmt.Sprintf("%d", i)})
	}
	return &genie.QueryResultPayload{Tabular: t}
}

// countDataRows counts table body lines, excluding header and separator
func countDataRows(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "| ") {
			count++
		}
	}
	return count - 1 // header
}

func TestFormatTabularHeader(t *testing.T) {
	out := Format(makeTabular(1), 20)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "| region | total |", lines[0])
	assert.Equal(t, "|-----|-----|", lines[1])
	assert.Equal(t, "| region-0 | 0 |", lines[2])
}

func TestFormatRowLimit(t *testing.T) {
	tests := []struct {
		name         string
		rows         int
		limit        int
		expectShown  int
		expectNotice string
	}{
		{
			name:         "over the limit",
			rows:         25,
			limit:        20,
			expectShown:  20,
			expectNotice: "*Showing 20 of 25 rows*",
		},
		{
			name:        "under the limit",
			rows:        15,
			limit:       20,
			expectShown: 15,
		},
		{
			name:        "exactly at the limit",
			rows:        20,
			limit:       20,
			expectShown: 20,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := Format(makeTabular(tc.rows), tc.limit)

			assert.Equal(t, tc.expectShown, countDataRows(out))
			if tc.expectNotice != "" {
				assert.Contains(t, out, tc.expectNotice)
			} else {
				assert.NotContains(t, out, "Showing")
			}
		})
	}
}

func TestFormatNumericColumns(t *testing.T) {
	payload := &genie.QueryResultPayload{
		Tabular: &genie.TabularResult{
			Columns: []genie.Column{
				{Name: "revenue", TypeName: "DOUBLE"},
				{Name: "orders", TypeName: "BIGINT"},
				{Name: "ratio", TypeName: "DECIMAL"},
				{Name: "label", TypeName: "STRING"},
			},
			Rows: [][]any{
				{"1234567.5", "1234567", nil, "plain"},
			},
		},
	}

	out := Format(payload, 20)

	assert.Contains(t, out, "| 1,234,567.50 | 1,234,567 | NULL | plain |")
}

func TestFormatNumericFromJSONNumbers(t *testing.T) {
	// Values decoded without UseNumber arrive as float64
	payload := &genie.QueryResultPayload{
		Tabular: &genie.TabularResult{
			Columns: []genie.Column{
				{Name: "a", TypeName: "DOUBLE"},
				{Name: "b", TypeName: "INT"},
			},
			Rows: [][]any{
				{float64(1234567.5), float64(42)},
			},
		},
	}

	out := Format(payload, 20)

	assert.Contains(t, out, "| 1,234,567.50 | 42 |")
}

func TestFormatUnparsableNumberFallsBack(t *testing.T) {
	payload := &genie.QueryResultPayload{
		Tabular: &genie.TabularResult{
			Columns: []genie.Column{{Name: "n", TypeName: "BIGINT"}},
			Rows:    [][]any{{"not-a-number"}},
		},
	}

	out := Format(payload, 20)

	assert.Contains(t, out, "| not-a-number |")
}

func TestFormatUnexpectedColumnStructure(t *testing.T) {
	payload := &genie.QueryResultPayload{
		Tabular: &genie.TabularResult{
			Rows: [][]any{{"orphan"}},
		},
	}

	out := Format(payload, 20)

	assert.Contains(t, out, "Unexpected column format")
}

func TestFormatMessage(t *testing.T) {
	payload := &genie.QueryResultPayload{Message: &genie.MessageResult{Text: "Y"}}

	assert.Equal(t, "Y", Format(payload, 20))
}

func TestFormatError(t *testing.T) {
	payload := &genie.QueryResultPayload{Error: &genie.ErrorResult{Description: "X"}}

	out := Format(payload, 20)

	assert.Contains(t, out, "❌")
	assert.Contains(t, out, "X")
}

func TestFormatNoData(t *testing.T) {
	assert.Equal(t, "⚠️ No data available.", Format(nil, 20))
	assert.Equal(t, "⚠️ No data available.", Format(&genie.QueryResultPayload{}, 20))
}

func TestFormatIsPure(t *testing.T) {
	payload := makeTabular(25)

	first := Format(payload, 20)
	second := Format(payload, 20)

	assert.Equal(t, first, second)
	// input rows untouched
	assert.Len(t, payload.Tabular.Rows, 25)
}
