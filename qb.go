package bitorm

// QB represents a query builder.
// Consumers hold a *QB reference in variables for incremental building.
type QB struct {
	db      *DB
	model   Model
	conds   []Condition
	orderBy []Order
	groupBy []string
	limit   int
	offset  int
}

// Where adds conditions to the query.
func (qb *QB) Where(conds ...Condition) *QB {
	qb.conds = append(qb.conds, conds...)
	return qb
}

// Limit sets the limit for the query.
func (qb *QB) Limit(limit int) *QB {
	qb.limit = limit
	return qb
}

// Offset sets the offset for the query.
func (qb *QB) Offset(offset int) *QB {
	qb.offset = offset
	return qb
}

// OrderBy adds an order clause to the query.
func (qb *QB) OrderBy(column, dir string) *QB {
	qb.orderBy = append(qb.orderBy, Order{column: column, dir: dir})
	return qb
}

// GroupBy adds a group by clause to the query.
func (qb *QB) GroupBy(columns ...string) *QB {
	qb.groupBy = append(qb.groupBy, columns...)
	return qb
}

func (qb *QB) query(action Action, limit int) Query {
	return Query{
		Action:     action,
		Table:      qb.model.TableName(),
		Columns:    columnNames(qb.model),
		Conditions: qb.conds,
		OrderBy:    qb.orderBy,
		GroupBy:    qb.groupBy,
		Limit:      limit,
		Offset:     qb.offset,
	}
}

// ReadOne executes the query and scans the first row into the model.
func (qb *QB) ReadOne() error {
	if err := validate(ActionReadOne, qb.model, nil); err != nil {
		return err
	}
	plan, err := qb.db.compile(qb.query(ActionReadOne, 1), qb.model)
	if err != nil {
		return err
	}
	return qb.db.exec.QueryRow(plan.Query, plan.Args...).Scan(qb.model.Pointers()...)
}

// ReadAll executes the query and returns all results.
func (qb *QB) ReadAll(factory func() Model, each func(Model)) error {
	if err := validate(ActionReadAll, qb.model, nil); err != nil {
		return err
	}
	plan, err := qb.db.compile(qb.query(ActionReadAll, qb.limit), qb.model)
	if err != nil {
		return err
	}

	rows, err := qb.db.exec.Query(plan.Query, plan.Args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		m := factory()
		if err := rows.Scan(m.Pointers()...); err != nil {
			return err
		}
		each(m)
	}
	return rows.Err()
}
