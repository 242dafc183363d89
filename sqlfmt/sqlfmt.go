/*
Package sqlfmt implements the query-formatting collaborator: $n
placeholder interpolation with postgres literal quoting, and rendering
of database function calls.
*/
package sqlfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Formatter interpolates values into $1..$n placeholders. It
// implements the pgtask Formatter contract.
type Formatter struct{}

func New() Formatter {
	return Formatter{}
}

// FormatQuery replaces each $n placeholder in sql with the quoted
// literal of values[n-1]. A placeholder beyond the supplied values is
// an error.
func (Formatter) FormatQuery(sql string, values []any) (string, error) {
	var b strings.Builder
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if c != '$' {
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
			j++
		}
		if j == i+1 {
			// a lone $ is not a placeholder
			b.WriteByte(c)
			continue
		}
		idx, err := strconv.Atoi(sql[i+1 : j])
		if err != nil {
			return "", err
		}
		if idx < 1 || idx > len(values) {
			return "", fmt.Errorf("variable $%d out of range (%d values supplied)", idx, len(values))
		}
		lit, err := literal(values[idx-1])
		if err != nil {
			return "", err
		}
		b.WriteString(lit)
		i = j - 1
	}
	return b.String(), nil
}

// FormatFunc renders a select over the named database function with
// the values as quoted arguments.
func (Formatter) FormatFunc(name string, values []any) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("a function name is required")
	}
	args := make([]string, len(values))
	for i, v := range values {
		lit, err := literal(v)
		if err != nil {
			return "", err
		}
		args[i] = lit
	}
	return fmt.Sprintf("select * from %s(%s)", name, strings.Join(args, ",")), nil
}

func literal(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "null", nil
	case string:
		return pq.QuoteLiteral(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return pq.QuoteLiteral(v.Format(time.RFC3339Nano)), nil
	case []byte:
		return fmt.Sprintf(`'\x%x'`, v), nil
	case fmt.Stringer:
		return pq.QuoteLiteral(v.String()), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(
		"_", `\_`,
		"%", `\%`,
	).Replace(s)
}
