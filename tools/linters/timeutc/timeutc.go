// Package timeutc provides a linter that reports time.Now() calls whose
// result is not converted with .UTC(). Stored and mirrored timestamps are
// compared across machines, so they must carry the UTC location.
package timeutc

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

// Analyzer reports time.Now() calls without .UTC().
// Calls are resolved through type information, so renamed imports of the
// time package are covered too.
var Analyzer = &analysis.Analyzer{
	Name:     "timeutc",
	Doc:      "checks for time.Now() calls without .UTC() to ensure timezone consistency",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

const message = "time.Now() should be followed by .UTC() for timezone consistency"

func run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	converted := make(map[*ast.CallExpr]bool)
	insp.Preorder([]ast.Node{(*ast.SelectorExpr)(nil)}, func(n ast.Node) {
		sel := n.(*ast.SelectorExpr)
		if sel.Sel.Name != "UTC" {
			return
		}
		if call, ok := ast.Unparen(sel.X).(*ast.CallExpr); ok && isTimeNow(pass.TypesInfo, call) {
			converted[call] = true
		}
	})

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if !isTimeNow(pass.TypesInfo, call) || converted[call] {
			return
		}
		if suppressed(pass, call.Pos()) {
			return
		}
		pass.Reportf(call.Pos(), message)
	})

	return nil, nil
}

// isTimeNow reports whether call invokes the time package's Now function.
func isTimeNow(info *types.Info, call *ast.CallExpr) bool {
	fn, ok := typeutil.Callee(info, call).(*types.Func)
	if !ok || fn.Pkg() == nil {
		return false
	}
	return fn.Pkg().Path() == "time" && fn.Name() == "Now"
}

// suppressed reports whether a //nolint or //nolint:timeutc comment sits on
// the same line as pos or the line before it.
func suppressed(pass *analysis.Pass, pos token.Pos) bool {
	tokFile := pass.Fset.File(pos)
	if tokFile == nil {
		return false
	}
	line := tokFile.Line(pos)

	for _, f := range pass.Files {
		if pass.Fset.File(f.Pos()) != tokFile {
			continue
		}
		for _, cg := range f.Comments {
			for _, c := range cg.List {
				commentLine := tokFile.Line(c.Pos())
				if commentLine != line && commentLine != line-1 {
					continue
				}
				if isNolintForTimeUTC(c.Text) {
					return true
				}
			}
		}
	}
	return false
}

func isNolintForTimeUTC(text string) bool {
	text = strings.TrimSpace(strings.TrimPrefix(text, "//"))
	directive, ok := strings.CutPrefix(text, "nolint")
	if !ok {
		return false
	}
	linters, ok := strings.CutPrefix(directive, ":")
	if !ok {
		// Bare //nolint silences everything.
		return directive == "" || strings.HasPrefix(directive, " ")
	}
	linters, _, _ = strings.Cut(linters, " ")
	for name := range strings.SplitSeq(linters, ",") {
		if name == "timeutc" {
			return true
		}
	}
	return false
}
