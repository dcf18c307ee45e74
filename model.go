package bitorm

// Model represents a database model.
// Consumers implement this interface, usually through bitormc.
type Model interface {
	TableName() string
	Schema() []Field
	Values() []any
	Pointers() []any
}

func columnNames(m Model) []string {
	schema := m.Schema()
	cols := make([]string, len(schema))
	for i, f := range schema {
		cols[i] = f.Name
	}
	return cols
}
