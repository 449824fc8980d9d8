package db

import (
	"fmt"
	"strconv"
)

// Row is a result row keyed by column name.
type Row map[string]any

// Has reports whether the column is present and non-null.
func (r Row) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func (r Row) Int64(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	}
	return 0
}

// Bool understands TINYINT(1) flags as well as native booleans.
func (r Row) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(v)
		return err == nil && b
	case []byte:
		b, err := strconv.ParseBool(string(v))
		return err == nil && b
	}
	return r.Int64(key) != 0
}

// Without returns a copy of the row lacking the named columns.
func (r Row) Without(keys ...string) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
