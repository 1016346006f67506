// Package format turns query-result payloads into chat-renderable text.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/datanauts/genie-chat/internal/genie"
	"github.com/dustin/go-humanize"
)

const (
	noDataNotice = "⚠️ No data available."
	errorPrefix  = "❌ **Error:** "
	nullLiteral  = "NULL"
)

var floatTypes = map[string]bool{
	"DECIMAL": true,
	"DOUBLE":  true,
	"FLOAT":   true,
}

var intTypes = map[string]bool{
	"INT":    true,
	"BIGINT": true,
	"LONG":   true,
}

// Format renders a payload as markdown-style text, capping tabular output at
// rowLimit data rows. It is pure: no I/O and no mutation of the payload.
func Format(payload *genie.QueryResultPayload, rowLimit int) string {
	switch {
	case payload == nil:
		return noDataNotice
	case payload.Tabular != nil:
		return formatTabular(payload.Tabular, rowLimit)
	case payload.Message != nil:
		return payload.Message.Text
	case payload.Error != nil:
		return errorPrefix + payload.Error.Description
	default:
		return noDataNotice
	}
}

func formatTabular(t *genie.TabularResult, rowLimit int) string {
	if len(t.Columns) == 0 {
		return fmt.Sprintf("Unexpected column format: %v\n\n", t.Columns)
	}

	var b strings.Builder

	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	b.WriteString("| " + strings.Join(names, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("-----|", len(t.Columns)) + "\n")

	shown := len(t.Rows)
	if shown > rowLimit {
		shown = rowLimit
	}

	for _, row := range t.Rows[:shown] {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			if i >= len(row) {
				cells[i] = nullLiteral
				continue
			}
			cells[i] = formatCell(row[i], col)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	if len(t.Rows) > rowLimit {
		b.WriteString(fmt.Sprintf("\n*Showing %d of %d rows*\n", rowLimit, len(t.Rows)))
	}

	return b.String()
}

// formatCell applies column-aware value formatting. Statement results deliver
// numeric cells as JSON strings, so numeric kinds are parsed from the string
// form; values that fail to parse fall back to their plain string form.
func formatCell(value any, col genie.Column) string {
	if value == nil {
		return nullLiteral
	}

	switch {
	case floatTypes[col.TypeName]:
		if f, ok := toFloat(value); ok {
			return humanize.FormatFloat("#,###.##", f)
		}
	case intTypes[col.TypeName]:
		if n, ok := toInt(value); ok {
			return humanize.Comma(n)
		}
	}

	return fmt.Sprintf("%v", value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
