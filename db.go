package bitorm

// DB represents a database connection.
// Consumers instantiate it via New().
type DB struct {
	exec     Executor
	compiler Compiler
	logFn    func(messages ...any)
}

// New creates a new DB instance. A nil compiler selects PostgresCompiler.
func New(exec Executor, compiler Compiler) *DB {
	if compiler == nil {
		compiler = PostgresCompiler{}
	}
	return &DB{
		exec:     exec,
		compiler: compiler,
	}
}

// SetLog sets the log function that receives every compiled statement.
// If not set, nothing is logged.
func (db *DB) SetLog(fn func(messages ...any)) {
	db.logFn = fn
}

func (db *DB) log(messages ...any) {
	if db.logFn != nil {
		db.logFn(messages...)
	}
}

func (db *DB) compile(q Query, m Model) (Plan, error) {
	plan, err := db.compiler.Compile(q, m)
	if err != nil {
		db.log("compile", q.Action.String(), q.Table, "failed:", err)
		return Plan{}, err
	}
	db.log(q.Action.String(), plan.Query, plan.Args)
	return plan, nil
}

// Create inserts a new model into the database. Unset bit string fields
// take the value DefaultBits gives for their Field; the model is not
// modified.
func (db *DB) Create(m Model) error {
	if m.TableName() == "" {
		return ErrEmptyTable
	}
	values, err := withDefaults(m.Schema(), m.Values())
	if err != nil {
		return err
	}
	if err := validate(ActionCreate, m, values); err != nil {
		return err
	}
	q := Query{
		Action:  ActionCreate,
		Table:   m.TableName(),
		Columns: columnNames(m),
		Values:  values,
	}
	plan, err := db.compile(q, m)
	if err != nil {
		return err
	}
	return db.exec.Exec(plan.Query, plan.Args...)
}

// Update updates a model in the database.
func (db *DB) Update(m Model, conds ...Condition) error {
	values := m.Values()
	if err := validate(ActionUpdate, m, values); err != nil {
		return err
	}
	q := Query{
		Action:     ActionUpdate,
		Table:      m.TableName(),
		Columns:    columnNames(m),
		Values:     values,
		Conditions: conds,
	}
	plan, err := db.compile(q, m)
	if err != nil {
		return err
	}
	return db.exec.Exec(plan.Query, plan.Args...)
}

// Delete deletes a model from the database.
func (db *DB) Delete(m Model, conds ...Condition) error {
	if err := validate(ActionDelete, m, nil); err != nil {
		return err
	}
	q := Query{
		Action:     ActionDelete,
		Table:      m.TableName(),
		Conditions: conds,
	}
	plan, err := db.compile(q, m)
	if err != nil {
		return err
	}
	return db.exec.Exec(plan.Query, plan.Args...)
}

// Query creates a new QB instance.
func (db *DB) Query(m Model) *QB {
	return &QB{
		db:    db,
		model: m,
	}
}

// Close closes the underlying executor.
func (db *DB) Close() error {
	return db.exec.Close()
}

// RawExecutor returns the underlying executor instance.
func (db *DB) RawExecutor() Executor {
	return db.exec
}
