package main

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// NoCtxRequestAnalyzer запрещает исходящие HTTP-запросы без контекста.
// Запрос к API доставки должен отменяться вместе с вызывающим.
var NoCtxRequestAnalyzer = &analysis.Analyzer{
	Name:     "noctxrequest",
	Doc:      "reports net/http requests built without a context.Context",
	Run:      runNoCtxRequestCheck,
	Requires: []*analysis.Analyzer{inspect.Analyzer},
}

// функции net/http, у которых есть вариант с контекстом
var noCtxFuncs = map[string]string{
	"NewRequest": "http.NewRequestWithContext",
	"Get":        "http.NewRequestWithContext and Client.Do",
	"Post":       "http.NewRequestWithContext and Client.Do",
	"PostForm":   "http.NewRequestWithContext and Client.Do",
	"Head":       "http.NewRequestWithContext and Client.Do",
}

func runNoCtxRequestCheck(pass *analysis.Pass) (any, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	inspect.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(node ast.Node) {
		callExpr := node.(*ast.CallExpr)
		selExpr, ok := callExpr.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}

		replacement, ok := noCtxFuncs[selExpr.Sel.Name]
		if !ok || importedPath(pass, selExpr) != "net/http" {
			return
		}
		pass.Reportf(callExpr.Pos(), "http.%s sends no context, use %s", selExpr.Sel.Name, replacement)
	})

	return nil, nil
}

// importedPath возвращает путь пакета для вызова вида pkg.Func или пустую строку
func importedPath(pass *analysis.Pass, selExpr *ast.SelectorExpr) string {
	ident, ok := selExpr.X.(*ast.Ident)
	if !ok {
		return ""
	}
	pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
	if !ok {
		return ""
	}
	return pkgName.Imported().Path()
}
