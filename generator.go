//go:build !wasm

package bitorm

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tinywasm/fmt"
)

// Generator writes Model implementations for structs found in model files.
type Generator struct {
	logFn   func(messages ...any)
	rootDir string
}

// NewGenerator creates a Generator with rootDir defaulting to ".".
func NewGenerator() *Generator {
	return &Generator{rootDir: "."}
}

// SetLog sets the log function for warnings and informational messages.
// If not set, messages are silently discarded.
func (g *Generator) SetLog(fn func(messages ...any)) {
	g.logFn = fn
}

// SetRootDir sets the root directory that Run() will scan.
func (g *Generator) SetRootDir(dir string) {
	g.rootDir = dir
}

func (g *Generator) log(messages ...any) {
	if g.logFn != nil {
		g.logFn(messages...)
	}
}

// FieldInfo is a struct field mapped to a column.
type FieldInfo struct {
	Name        string
	ColumnName  string
	Type        FieldType
	Constraints Constraint
	Ref         string
	RefColumn   string
	Size        int
	Varying     bool
	Default     string
	IsPK        bool
	GoType      string
}

// StructInfo is a parsed model struct.
type StructInfo struct {
	Name              string
	TableName         string
	PackageName       string
	Fields            []FieldInfo
	TableNameDeclared bool
	SourceFile        string
}

// fieldTypes maps Go types to column types. Both bitstring types map to
// TypeBits; NullBits only changes how NULL is scanned.
var fieldTypes = map[string]FieldType{
	"string":             TypeText,
	"int":                TypeInt64,
	"int32":              TypeInt64,
	"int64":              TypeInt64,
	"uint":               TypeInt64,
	"uint32":             TypeInt64,
	"uint64":             TypeInt64,
	"float32":            TypeFloat64,
	"float64":            TypeFloat64,
	"bool":               TypeBool,
	"[]byte":             TypeBlob,
	"bitstring.Bits":     TypeBits,
	"bitstring.NullBits": TypeBits,
}

// declaredTableName returns the literal returned by a TableName() method on
// structName, value or pointer receiver, or "".
func declaredTableName(node *ast.File, structName string) string {
	for _, decl := range node.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 || fn.Name.Name != "TableName" {
			continue
		}
		recv := fn.Recv.List[0].Type
		if star, ok := recv.(*ast.StarExpr); ok {
			recv = star.X
		}
		if ident, ok := recv.(*ast.Ident); !ok || ident.Name != structName {
			continue
		}
		if fn.Body == nil || len(fn.Body.List) != 1 {
			continue
		}
		ret, ok := fn.Body.List[0].(*ast.ReturnStmt)
		if !ok || len(ret.Results) != 1 {
			continue
		}
		if lit, ok := ret.Results[0].(*ast.BasicLit); ok {
			return fmt.Convert(lit.Value).TrimPrefix(`"`).TrimSuffix(`"`).String()
		}
	}
	return ""
}

func typeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			return pkg.Name + "." + t.Sel.Name
		}
	case *ast.ArrayType:
		if elt, ok := t.Elt.(*ast.Ident); ok && elt.Name == "byte" && t.Len == nil {
			return "[]byte"
		}
	}
	return ""
}

func dbTag(field *ast.Field) string {
	if field.Tag == nil {
		return ""
	}
	tag := fmt.Convert(field.Tag.Value).TrimPrefix("`").TrimSuffix("`").String()
	for _, p := range fmt.Convert(tag).Split(" ") {
		if fmt.HasPrefix(p, `db:"`) {
			return fmt.Convert(p).TrimPrefix(`db:"`).TrimSuffix(`"`).String()
		}
	}
	return ""
}

// ParseStruct parses a single struct from a Go file and returns its metadata.
//
// Supported db tag options: pk, unique, not_null, autoincrement,
// ref=table[:column], bits=N (BIT(N)), varbits=N (VARBIT(N)) and
// default=LITERAL for bit string fields.
func (g *Generator) ParseStruct(structName string, goFile string) (StructInfo, error) {
	if structName == "" {
		return StructInfo{}, fmt.Err("Please provide a struct name")
	}
	if goFile == "" {
		return StructInfo{}, fmt.Err("goFile path cannot be empty")
	}

	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, goFile, nil, parser.ParseComments)
	if err != nil {
		return StructInfo{}, fmt.Err(err, "Failed to parse file")
	}

	var target *ast.StructType
	ast.Inspect(node, func(n ast.Node) bool {
		if ts, ok := n.(*ast.TypeSpec); ok && ts.Name.Name == structName {
			if st, ok := ts.Type.(*ast.StructType); ok {
				target = st
				return false
			}
		}
		return target == nil
	})
	if target == nil {
		return StructInfo{}, fmt.Err("Struct not found in file")
	}

	tableName := declaredTableName(node, structName)
	info := StructInfo{
		Name:              structName,
		TableName:         tableName,
		PackageName:       node.Name.Name,
		TableNameDeclared: tableName != "",
	}
	if !info.TableNameDeclared {
		info.TableName = fmt.Convert(structName + "s").SnakeLow().String()
	}

	pkFound := false
	for _, field := range target.Fields.List {
		if len(field.Names) == 0 || !ast.IsExported(field.Names[0].Name) {
			continue
		}
		fieldName := field.Names[0].Name

		tag := dbTag(field)
		if tag == "-" {
			continue
		}

		goType := typeString(field.Type)
		fieldType, ok := fieldTypes[goType]
		if !ok {
			g.log(fmt.Sprintf("Warning: unsupported type %s for field %s.%s; skipping. Add db:\"-\" to suppress.", goType, structName, fieldName))
			continue
		}

		fi := FieldInfo{
			Name:       fieldName,
			ColumnName: fmt.Convert(fieldName).SnakeLow().String(),
			Type:       fieldType,
			GoType:     goType,
		}

		isID, isPK := fmt.IDorPrimaryKey(info.TableName, fieldName)
		if (isID || isPK) && !pkFound && fieldType != TypeBits {
			fi.IsPK = true
			pkFound = true
			fi.Constraints |= ConstraintPK
		}

		if err := g.applyTag(&fi, tag, &pkFound); err != nil {
			return StructInfo{}, fmt.Err(err, "field", structName+"."+fieldName)
		}
		info.Fields = append(info.Fields, fi)
	}

	return info, nil
}

func (g *Generator) applyTag(fi *FieldInfo, tag string, pkFound *bool) error {
	if tag == "" {
		return nil
	}
	for _, p := range fmt.Convert(tag).Split(",") {
		switch {
		case p == "pk":
			if !fi.IsPK {
				fi.Constraints |= ConstraintPK
				fi.IsPK = true
				*pkFound = true
			}
		case p == "unique":
			fi.Constraints |= ConstraintUnique
		case p == "not_null":
			fi.Constraints |= ConstraintNotNull
		case p == "autoincrement":
			if fi.Type != TypeInt64 {
				return fmt.Err("autoincrement only allowed on integer fields")
			}
			fi.Constraints |= ConstraintAutoIncrement
		case fmt.HasPrefix(p, "ref="):
			parts := fmt.Convert(fmt.Convert(p).TrimPrefix("ref=").String()).Split(":")
			fi.Ref = parts[0]
			if len(parts) > 1 {
				fi.RefColumn = parts[1]
			}
		case fmt.HasPrefix(p, "bits="), fmt.HasPrefix(p, "varbits="):
			if fi.Type != TypeBits {
				return fmt.Err("bits/varbits only allowed on bitstring fields")
			}
			fi.Varying = fmt.HasPrefix(p, "varbits=")
			raw := fmt.Convert(fmt.Convert(p).TrimPrefix("var").String()).TrimPrefix("bits=").String()
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return fmt.Err("invalid bit length", raw)
			}
			fi.Size = n
		case fmt.HasPrefix(p, "default="):
			if fi.Type != TypeBits {
				return fmt.Err("default only allowed on bitstring fields")
			}
			fi.Default = fmt.Convert(p).TrimPrefix("default=").String()
		}
	}
	if fi.Default != "" {
		_, err := DefaultBits(Field{Name: fi.ColumnName, Size: fi.Size, Varying: fi.Varying, Default: fi.Default})
		return err
	}
	return nil
}

// GenerateForStruct reads the Go file and generates the Model implementation for a given struct name.
func (g *Generator) GenerateForStruct(structName string, goFile string) error {
	info, err := g.ParseStruct(structName, goFile)
	if err != nil {
		return err
	}
	if len(info.Fields) == 0 {
		return nil
	}
	return g.GenerateForFile([]StructInfo{info}, goFile)
}

var fieldTypeNames = map[FieldType]string{
	TypeText:    "bitorm.TypeText",
	TypeInt64:   "bitorm.TypeInt64",
	TypeFloat64: "bitorm.TypeFloat64",
	TypeBool:    "bitorm.TypeBool",
	TypeBlob:    "bitorm.TypeBlob",
	TypeBits:    "bitorm.TypeBits",
}

func constraintExpr(c Constraint) string {
	if c == ConstraintNone {
		return "bitorm.ConstraintNone"
	}
	var parts []string
	for _, x := range []struct {
		c    Constraint
		name string
	}{
		{ConstraintPK, "bitorm.ConstraintPK"},
		{ConstraintUnique, "bitorm.ConstraintUnique"},
		{ConstraintNotNull, "bitorm.ConstraintNotNull"},
		{ConstraintAutoIncrement, "bitorm.ConstraintAutoIncrement"},
	} {
		if c&x.c != 0 {
			parts = append(parts, x.name)
		}
	}
	return fmt.Convert(parts).Join(" | ").String()
}

// GenerateForFile writes Model implementations for all infos into
// <sourceFile>_orm.go.
func (g *Generator) GenerateForFile(infos []StructInfo, sourceFile string) error {
	if len(infos) == 0 {
		return nil
	}
	buf := fmt.Convert()

	buf.Write("// Code generated by bitormc; DO NOT EDIT.\n")
	buf.Write("// NOTE: Schema() and Values() must always be in the same field order.\n")
	buf.Write(fmt.Sprintf("package %s\n\n", infos[0].PackageName))
	buf.Write("import (\n")
	buf.Write("\t\"github.com/tinywasm/bitorm\"\n")
	buf.Write(")\n\n")

	for _, info := range infos {
		if !info.TableNameDeclared {
			buf.Write(fmt.Sprintf("func (m *%s) TableName() string {\n", info.Name))
			buf.Write(fmt.Sprintf("\treturn \"%s\"\n", info.TableName))
			buf.Write("}\n\n")
		}

		buf.Write(fmt.Sprintf("func (m *%s) Schema() []bitorm.Field {\n", info.Name))
		buf.Write("\treturn []bitorm.Field{\n")
		for _, f := range info.Fields {
			buf.Write(fmt.Sprintf("\t\t{Name: \"%s\", Type: %s, Constraints: %s", f.ColumnName, fieldTypeNames[f.Type], constraintExpr(f.Constraints)))
			if f.Ref != "" {
				buf.Write(fmt.Sprintf(", Ref: \"%s\"", f.Ref))
			}
			if f.RefColumn != "" {
				buf.Write(fmt.Sprintf(", RefColumn: \"%s\"", f.RefColumn))
			}
			if f.Size > 0 {
				buf.Write(fmt.Sprintf(", Size: %d", f.Size))
			}
			if f.Varying {
				buf.Write(", Varying: true")
			}
			if f.Default != "" {
				buf.Write(fmt.Sprintf(", Default: \"%s\"", f.Default))
			}
			buf.Write("},\n")
		}
		buf.Write("\t}\n")
		buf.Write("}\n\n")

		buf.Write(fmt.Sprintf("func (m *%s) Values() []any {\n", info.Name))
		buf.Write("\treturn []any{\n")
		for _, f := range info.Fields {
			buf.Write(fmt.Sprintf("\t\tm.%s,\n", f.Name))
		}
		buf.Write("\t}\n")
		buf.Write("}\n\n")

		buf.Write(fmt.Sprintf("func (m *%s) Pointers() []any {\n", info.Name))
		buf.Write("\treturn []any{\n")
		for _, f := range info.Fields {
			buf.Write(fmt.Sprintf("\t\t&m.%s,\n", f.Name))
		}
		buf.Write("\t}\n")
		buf.Write("}\n\n")

		buf.Write(fmt.Sprintf("var %sMeta = struct {\n", info.Name))
		buf.Write("\tTableName string\n")
		for _, f := range info.Fields {
			buf.Write(fmt.Sprintf("\t%s string\n", f.Name))
		}
		buf.Write("}{\n")
		buf.Write(fmt.Sprintf("\tTableName: \"%s\",\n", info.TableName))
		for _, f := range info.Fields {
			buf.Write(fmt.Sprintf("\t%s: \"%s\",\n", f.Name, f.ColumnName))
		}
		buf.Write("}\n\n")

		buf.Write(fmt.Sprintf("func ReadOne%s(qb *bitorm.QB, model *%s) (*%s, error) {\n", info.Name, info.Name, info.Name))
		buf.Write("\tif err := qb.ReadOne(); err != nil {\n")
		buf.Write("\t\treturn nil, err\n")
		buf.Write("\t}\n")
		buf.Write("\treturn model, nil\n")
		buf.Write("}\n\n")

		buf.Write(fmt.Sprintf("func ReadAll%s(qb *bitorm.QB) ([]*%s, error) {\n", info.Name, info.Name))
		buf.Write(fmt.Sprintf("\tvar results []*%s\n", info.Name))
		buf.Write("\terr := qb.ReadAll(\n")
		buf.Write(fmt.Sprintf("\t\tfunc() bitorm.Model { return &%s{} },\n", info.Name))
		buf.Write(fmt.Sprintf("\t\tfunc(m bitorm.Model) { results = append(results, m.(*%s)) },\n", info.Name))
		buf.Write("\t)\n")
		buf.Write("\treturn results, err\n")
		buf.Write("}\n\n")
	}

	outName := fmt.Convert(sourceFile).TrimSuffix(".go").String() + "_orm.go"
	return os.WriteFile(outName, buf.Bytes(), 0644)
}

// collect walks rootDir and parses every struct in model.go / models.go
// files, preserving discovery order per file.
func (g *Generator) collect() (map[string][]StructInfo, []string, error) {
	byFile := make(map[string][]StructInfo)
	var fileOrder []string

	err := filepath.Walk(g.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			switch info.Name() {
			case "vendor", ".git", "testdata":
				return filepath.SkipDir
			}
			return nil
		}
		if name := info.Name(); name != "model.go" && name != "models.go" {
			return nil
		}

		node, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments)
		if err != nil {
			g.log(fmt.Sprintf("Skipping unparseable %s: %v", path, err))
			return nil
		}
		for _, decl := range node.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				if _, ok := ts.Type.(*ast.StructType); !ok {
					continue
				}
				si, err := g.ParseStruct(ts.Name.Name, path)
				if err != nil {
					g.log(fmt.Sprintf("Skipping %s in %s: %v", ts.Name.Name, path, err))
					continue
				}
				if len(si.Fields) == 0 {
					g.log(fmt.Sprintf("Warning: %s has no mappable fields; skipping", ts.Name.Name))
					continue
				}
				si.SourceFile = path
				if _, seen := byFile[path]; !seen {
					fileOrder = append(fileOrder, path)
				}
				byFile[path] = append(byFile[path], si)
			}
		}
		return nil
	})
	return byFile, fileOrder, err
}

// Run is the entry point for the CLI tool.
func (g *Generator) Run() error {
	byFile, fileOrder, err := g.collect()
	if err != nil {
		return fmt.Err(err, "error walking directory")
	}
	if len(fileOrder) == 0 {
		return fmt.Err("no models found")
	}
	for _, path := range fileOrder {
		if err := g.GenerateForFile(byFile[path], path); err != nil {
			g.log(fmt.Sprintf("Failed to write output for %s: %v", path, err))
		}
	}
	return nil
}
