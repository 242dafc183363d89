// Package keycase rewrites result-row keys between naming conventions,
// typically snake_case database columns to lowerCamelCase fields.
package keycase

import (
	"github.com/iancoleman/strcase"

	"github.com/villekah/pg-promise/pgtask"
)

// Converter rewrites the keys of every row it is given. It implements
// the pgtask KeyConverter contract.
type Converter struct {
	convert func(string) string
}

// Camel converts keys to lowerCamelCase.
func Camel() Converter {
	return Converter{convert: strcase.ToLowerCamel}
}

// Snake converts keys to snake_case.
func Snake() Converter {
	return Converter{convert: strcase.ToSnake}
}

func (c Converter) Convert(rows []pgtask.Row) []pgtask.Row {
	out := make([]pgtask.Row, len(rows))
	for i, row := range rows {
		converted := make(pgtask.Row, len(row))
		for k, v := range row {
			converted[c.convert(k)] = v
		}
		out[i] = converted
	}
	return out
}
