package bitorm

// MockCompiler captures the query and returns a predefined plan.
type MockCompiler struct {
	LastQuery  Query
	LastModel  Model
	ReturnPlan Plan
	ReturnErr  error
}

func (m *MockCompiler) Compile(q Query, model Model) (Plan, error) {
	m.LastQuery = q
	m.LastModel = model
	if m.ReturnPlan.Query == "" {
		m.ReturnPlan.Query = "MOCK_QUERY"
	}
	return m.ReturnPlan, m.ReturnErr
}

// MockExecutor captures execution calls.
type MockExecutor struct {
	ExecutedQueries []string
	ExecutedArgs    [][]any
	ReturnExecErr   error
	ReturnQueryRow  Scanner
	ReturnQueryRows Rows
	ReturnQueryErr  error
	ReturnCloseErr  error
}

func (m *MockExecutor) Exec(query string, args ...any) error {
	m.ExecutedQueries = append(m.ExecutedQueries, query)
	m.ExecutedArgs = append(m.ExecutedArgs, args)
	return m.ReturnExecErr
}

func (m *MockExecutor) QueryRow(query string, args ...any) Scanner {
	m.ExecutedQueries = append(m.ExecutedQueries, query)
	m.ExecutedArgs = append(m.ExecutedArgs, args)
	if m.ReturnQueryRow == nil {
		return &MockScanner{}
	}
	return m.ReturnQueryRow
}

func (m *MockExecutor) Query(query string, args ...any) (Rows, error) {
	m.ExecutedQueries = append(m.ExecutedQueries, query)
	m.ExecutedArgs = append(m.ExecutedArgs, args)
	if m.ReturnQueryRows == nil {
		return &MockRows{}, m.ReturnQueryErr
	}
	return m.ReturnQueryRows, m.ReturnQueryErr
}

func (m *MockExecutor) Close() error {
	return m.ReturnCloseErr
}

type MockScanner struct {
	ScanErr error
	Scanned int
}

func (m *MockScanner) Scan(dest ...any) error {
	m.Scanned = len(dest)
	return m.ScanErr
}

type MockRows struct {
	Count    int
	Current  int
	ScanErr  error
	CloseErr error
	ErrVal   error
	Closed   bool
}

func (m *MockRows) Next() bool {
	if m.Current < m.Count {
		m.Current++
		return true
	}
	return false
}

func (m *MockRows) Scan(dest ...any) error {
	return m.ScanErr
}

func (m *MockRows) Close() error {
	m.Closed = true
	return m.CloseErr
}

func (m *MockRows) Err() error {
	return m.ErrVal
}

// MockModel is a mock implementation of the Model interface.
type MockModel struct {
	Table  string
	Fields []Field
	Vals   []any
}

func (m MockModel) TableName() string { return m.Table }
func (m MockModel) Schema() []Field   { return m.Fields }
func (m MockModel) Values() []any     { return m.Vals }
func (m MockModel) Pointers() []any {
	ptrs := make([]any, len(m.Fields))
	for i := range ptrs {
		ptrs[i] = new(any)
	}
	return ptrs
}

func textFields(names ...string) []Field {
	fields := make([]Field, len(names))
	for i, n := range names {
		fields[i] = Field{Name: n, Type: TypeText}
	}
	return fields
}

type MockTxExecutor struct {
	MockExecutor
	Bound      *MockTxBoundExecutor
	BeginTxErr error
}

func (m *MockTxExecutor) BeginTx() (TxBoundExecutor, error) {
	if m.BeginTxErr != nil {
		return nil, m.BeginTxErr
	}
	if m.Bound == nil {
		m.Bound = &MockTxBoundExecutor{}
	}
	return m.Bound, nil
}

type MockTxBoundExecutor struct {
	MockExecutor
	CommitCalled   bool
	RollbackCalled bool
	CommitErr      error
	RollbackErr    error
}

func (m *MockTxBoundExecutor) Commit() error {
	m.CommitCalled = true
	return m.CommitErr
}

func (m *MockTxBoundExecutor) Rollback() error {
	m.RollbackCalled = true
	return m.RollbackErr
}
