package query

import (
	"fmt"
	"strings"
)

// FilterPredicate builds a parameterized WHERE clause for the listing
// endpoints. Values travel as bind arguments, never inline.
type FilterPredicate struct {
	clauses []string
	args    []interface{}
}

func NewFilterPredicate() *FilterPredicate {
	return &FilterPredicate{}
}

func (fp *FilterPredicate) Equal(column string, value interface{}) *FilterPredicate {
	fp.clauses = append(fp.clauses, fmt.Sprintf("%s = ?", column))
	fp.args = append(fp.args, value)
	return fp
}

func (fp *FilterPredicate) NotEqual(column string, value interface{}) *FilterPredicate {
	fp.clauses = append(fp.clauses, fmt.Sprintf("%s <> ?", column))
	fp.args = append(fp.args, value)
	return fp
}

func (fp *FilterPredicate) GreaterOrEqual(column string, value interface{}) *FilterPredicate {
	fp.clauses = append(fp.clauses, fmt.Sprintf("%s >= ?", column))
	fp.args = append(fp.args, value)
	return fp
}

func (fp *FilterPredicate) LessOrEqual(column string, value interface{}) *FilterPredicate {
	fp.clauses = append(fp.clauses, fmt.Sprintf("%s <= ?", column))
	fp.args = append(fp.args, value)
	return fp
}

func (fp *FilterPredicate) In(column string, values ...interface{}) *FilterPredicate {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(values)), ",")
	fp.clauses = append(fp.clauses, fmt.Sprintf("%s IN (%s)", column, placeholders))
	fp.args = append(fp.args, values...)
	return fp
}

func (fp *FilterPredicate) Like(column, pattern string) *FilterPredicate {
	fp.clauses = append(fp.clauses, fmt.Sprintf("%s LIKE ?", column))
	fp.args = append(fp.args, "%"+pattern+"%")
	return fp
}

// Empty reports whether no condition has been added yet.
func (fp *FilterPredicate) Empty() bool {
	return len(fp.clauses) == 0
}

// Build returns the AND-joined clause and its bind arguments.
func (fp *FilterPredicate) Build() (string, []interface{}) {
	return strings.Join(fp.clauses, " AND "), fp.args
}
