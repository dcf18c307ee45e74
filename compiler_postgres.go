package bitorm

import (
	"strconv"
	"strings"

	"github.com/tinywasm/fmt"

	"github.com/tinywasm/bitorm/predicate"
)

// PostgresCompiler renders Queries as PostgreSQL statements with $n
// placeholders. Bit string predicates are delegated to predicate.Compile,
// which embeds the mask as a typed literal instead of binding it.
type PostgresCompiler struct{}

// Compile implements Compiler.
func (PostgresCompiler) Compile(q Query, m Model) (Plan, error) {
	if q.Table == "" {
		return Plan{}, ErrEmptyTable
	}
	var schema []Field
	if m != nil {
		schema = m.Schema()
	}
	w := &sqlWriter{schema: schema}
	if len(q.Columns) != len(q.Values) && (q.Action == ActionCreate || q.Action == ActionUpdate) {
		return Plan{}, &ValidationError{Err: fmt.Err("columns and values length mismatch")}
	}

	switch q.Action {
	case ActionCreate:
		w.insert(q)
	case ActionReadOne, ActionReadAll:
		w.selectFrom(q)
	case ActionUpdate:
		w.update(q)
	case ActionDelete:
		w.sb.WriteString("DELETE FROM ")
		w.sb.WriteString(quoteIdent(q.Table))
		w.where(q.Conditions)
	default:
		return Plan{}, ErrUnsupportedAction
	}
	if w.err != nil {
		return Plan{}, w.err
	}
	return Plan{Mode: q.Action, Query: w.sb.String(), Args: w.args}, nil
}

type sqlWriter struct {
	sb     strings.Builder
	args   []any
	schema []Field
	err    error
}

func (w *sqlWriter) bind(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *sqlWriter) insert(q Query) {
	w.sb.WriteString("INSERT INTO ")
	w.sb.WriteString(quoteIdent(q.Table))
	w.sb.WriteString(" (")
	w.sb.WriteString(quoteList(q.Columns))
	w.sb.WriteString(") VALUES (")
	for i, v := range q.Values {
		if i > 0 {
			w.sb.WriteString(", ")
		}
		w.sb.WriteString(w.bind(v))
	}
	w.sb.WriteString(")")
}

func (w *sqlWriter) update(q Query) {
	w.sb.WriteString("UPDATE ")
	w.sb.WriteString(quoteIdent(q.Table))
	w.sb.WriteString(" SET ")
	for i, col := range q.Columns {
		if i > 0 {
			w.sb.WriteString(", ")
		}
		w.sb.WriteString(quoteIdent(col))
		w.sb.WriteString(" = ")
		w.sb.WriteString(w.bind(q.Values[i]))
	}
	w.where(q.Conditions)
}

func (w *sqlWriter) selectFrom(q Query) {
	w.sb.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		w.sb.WriteString("*")
	} else {
		w.sb.WriteString(quoteList(q.Columns))
	}
	w.sb.WriteString(" FROM ")
	w.sb.WriteString(quoteIdent(q.Table))
	w.where(q.Conditions)

	if len(q.GroupBy) > 0 {
		w.sb.WriteString(" GROUP BY ")
		w.sb.WriteString(quoteList(q.GroupBy))
	}
	for i, o := range q.OrderBy {
		if i == 0 {
			w.sb.WriteString(" ORDER BY ")
		} else {
			w.sb.WriteString(", ")
		}
		dir := strings.ToUpper(o.Dir())
		if dir != "ASC" && dir != "DESC" {
			w.fail(&ValidationError{Field: o.Column(), Err: fmt.Err("invalid sort direction", o.Dir())})
			return
		}
		w.sb.WriteString(quoteIdent(o.Column()))
		w.sb.WriteString(" ")
		w.sb.WriteString(dir)
	}
	if q.Limit > 0 {
		w.sb.WriteString(" LIMIT ")
		w.sb.WriteString(strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		w.sb.WriteString(" OFFSET ")
		w.sb.WriteString(strconv.Itoa(q.Offset))
	}
}

func (w *sqlWriter) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.sb.WriteString(" WHERE ")
		} else {
			w.sb.WriteString(" ")
			w.sb.WriteString(c.Logic())
			w.sb.WriteString(" ")
		}
		w.condition(c)
	}
}

func (w *sqlWriter) condition(c Condition) {
	if p, ok := c.Predicate(); ok {
		frag, err := predicate.Compile(column(w.field(c.Field())), p)
		if err != nil {
			w.fail(err)
			return
		}
		w.sb.WriteString(frag.SQL)
		return
	}

	if c.Operator() == "IN" {
		w.in(c)
		return
	}

	w.sb.WriteString(quoteIdent(c.Field()))
	w.sb.WriteString(" ")
	w.sb.WriteString(c.Operator())
	switch c.Operator() {
	case "IS NULL", "IS NOT NULL":
		return
	}
	w.sb.WriteString(" ")
	w.sb.WriteString(w.bind(c.Value()))
}

// in writes "field" IN ($1, $2, ...). An empty list is FALSE since
// PostgreSQL rejects IN ().
func (w *sqlWriter) in(c Condition) {
	values, _ := c.Value().([]any)
	if len(values) == 0 {
		w.sb.WriteString("FALSE")
		return
	}
	w.sb.WriteString(quoteIdent(c.Field()))
	w.sb.WriteString(" IN (")
	for i, v := range values {
		if i > 0 {
			w.sb.WriteString(", ")
		}
		w.sb.WriteString(w.bind(v))
	}
	w.sb.WriteString(")")
}

// field returns the schema entry for name, or a bare untyped field when the
// model does not declare it.
func (w *sqlWriter) field(name string) Field {
	for _, f := range w.schema {
		if f.Name == name {
			return f
		}
	}
	return Field{Name: name}
}

func (w *sqlWriter) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
