package sqlbuild

import (
	"errors"
	"fmt"
	"strings"

	"jobly/internal/domain"
)

var ErrDuplicateField = errors.New("duplicate update field")

// Field is one logical field assignment.
type Field struct {
	Name  string
	Value any
}

// Update is a sparse, ordered set of field assignments.
type Update []Field

func (u *Update) Set(name string, value any) {
	*u = append(*u, Field{Name: name, Value: value})
}

func (u Update) Has(name string) bool {
	for _, f := range u {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Assignments is the SET list produced by PartialUpdate.
type Assignments struct {
	SetCols string
	Values  []any
}

// Next returns the placeholder index following the assignment values.
func (a Assignments) Next() int {
	return len(a.Values) + 1
}

// PartialUpdate renders `"col1"=$1, "col2"=$2, ...` for update in order.
// columns maps logical field names to physical column names; fields
// without an entry are used unchanged.
func PartialUpdate(update Update, columns map[string]string) (Assignments, error) {
	if len(update) == 0 {
		return Assignments{}, domain.ErrEmptyUpdate
	}
	seen := make(map[string]struct{}, len(update))
	cols := make([]string, 0, len(update))
	values := make([]any, 0, len(update))
	for _, f := range update {
		if _, dup := seen[f.Name]; dup {
			return Assignments{}, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}
		seen[f.Name] = struct{}{}
		col := f.Name
		if mapped, ok := columns[f.Name]; ok {
			col = mapped
		}
		values = append(values, f.Value)
		cols = append(cols, fmt.Sprintf("%s=$%d", QuoteIdent(col), len(values)))
	}
	return Assignments{SetCols: strings.Join(cols, ", "), Values: values}, nil
}

// QuoteIdent double-quotes a Postgres identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
