package duckdb

import (
	"fmt"
	"strings"
	"time"
)

// InterpolateQuery substitutes args into the placeholders of query for
// logging. The output is valid SQL that can be pasted into the duckdb shell.
func InterpolateQuery(query string, args []any) string {
	for _, arg := range args {
		query = strings.Replace(query, "?", sqlLiteral(arg), 1)
	}

	query = strings.ReplaceAll(query, "\t", " ")
	query = strings.ReplaceAll(query, "\n", "")
	return query
}

func sqlLiteral(arg any) string {
	switch v := arg.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%v", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		// Round(0) strips the monotonic clock reading.
		return "'" + v.Round(0).Format(time.RFC3339Nano) + "'"
	default:
		return sqlLiteral(fmt.Sprintf("%v", v))
	}
}
