// Package source recovers the text of call arguments from the Go
// source files of a running program, for diagnostics that quote the
// expression that failed.
//
// Lookups only succeed when the source file is readable at the path
// recorded by the compiler, which is usually the case in tests and
// development builds only. Callers must have a fallback.
package source

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"
	"sync"
)

type parsedFile struct {
	fset *token.FileSet
	file *ast.File
	src  []byte
	err  error
}

var cache sync.Map // map[string]*parsedFile

func load(path string) *parsedFile {
	if pf, ok := cache.Load(path); ok {
		return pf.(*parsedFile)
	}
	pf := &parsedFile{fset: token.NewFileSet()}
	pf.src, pf.err = os.ReadFile(path)
	if pf.err == nil {
		pf.file, pf.err = parser.ParseFile(pf.fset, path, pf.src, parser.SkipObjectResolution)
	}
	actual, _ := cache.LoadOrStore(path, pf)
	return actual.(*parsedFile)
}

// CallArgs returns the source text of the arguments of the call to the
// function named fn that spans the given line of the file at path. The
// function name is matched without its package qualifier or type
// arguments, so "Assert" matches trackable.Assert[Kind](...).
func CallArgs(path string, line int, fn string) ([]string, bool) {
	if path == "" || line <= 0 {
		return nil, false
	}
	pf := load(path)
	if pf.err != nil {
		return nil, false
	}

	var found *ast.CallExpr
	ast.Inspect(pf.file, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok || calleeName(call.Fun) != fn {
			return true
		}
		start := pf.fset.Position(call.Pos()).Line
		end := pf.fset.Position(call.End()).Line
		if line >= start && line <= end {
			found = call
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}

	args := make([]string, len(found.Args))
	for i, arg := range found.Args {
		args[i] = pf.text(arg)
	}
	return args, true
}

// text returns the source of the node, with line breaks folded into
// single spaces.
func (pf *parsedFile) text(n ast.Node) string {
	start := pf.fset.Position(n.Pos()).Offset
	end := pf.fset.Position(n.End()).Offset
	if start < 0 || end > len(pf.src) || start > end {
		return ""
	}
	s := string(pf.src[start:end])
	if strings.ContainsRune(s, '\n') {
		s = strings.Join(strings.Fields(s), " ")
	}
	return s
}

func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	case *ast.IndexListExpr:
		return calleeName(f.X)
	case *ast.ParenExpr:
		return calleeName(f.X)
	default:
		return ""
	}
}
