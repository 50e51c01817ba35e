package sqlbuild

import (
	"fmt"
	"strings"
)

// SelectBuilder appends optional predicates to a base SELECT.
type SelectBuilder struct {
	base  string
	where []string
	args  []any
}

func Select(base string) *SelectBuilder {
	return &SelectBuilder{base: strings.TrimSpace(base)}
}

// Where binds arg to the next placeholder. format must contain exactly
// one %d verb for the placeholder index, e.g. "salary >= $%d".
func (b *SelectBuilder) Where(format string, arg any) *SelectBuilder {
	b.args = append(b.args, arg)
	b.where = append(b.where, fmt.Sprintf(format, len(b.args)))
	return b
}

// WhereExpr adds a predicate that binds no argument.
func (b *SelectBuilder) WhereExpr(predicate string) *SelectBuilder {
	b.where = append(b.where, predicate)
	return b
}

func (b *SelectBuilder) Args() []any {
	out := make([]any, len(b.args))
	copy(out, b.args)
	return out
}

// Build returns the statement ordered by orderBy along with its arguments.
func (b *SelectBuilder) Build(orderBy string) (string, []any) {
	var sb strings.Builder
	sb.WriteString(b.base)
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.where, " AND "))
	}
	if orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderBy)
	}
	return sb.String(), b.Args()
}
