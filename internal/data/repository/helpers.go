package repository

import (
	"fmt"
	"strings"
)

// textArray keeps NOT NULL TEXT[] columns happy: pgx encodes a nil slice as NULL.
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// whereBuilder accumulates AND-ed conditions with numbered placeholders.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (w *whereBuilder) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereBuilder) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder index the next argument will take.
func (w *whereBuilder) next() int {
	return len(w.args) + 1
}
