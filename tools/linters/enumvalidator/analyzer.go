package enumvalidator

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "enumvalidator",
	Doc:  "checks that enum fields only use defined constants, not string literals",
	Run:  run,
}

// enumTypes are the closed string types whose values drive policy and
// lifecycle decisions. A typo in a literal would silently fall outside the
// lookup tables.
var enumTypes = map[string]bool{
	"Role":               true,
	"RequestStatus":      true,
	"RequestType":        true,
	"Priority":           true,
	"Plan":               true,
	"SubscriptionStatus": true,
	"Action":             true,
	"Bucket":             true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.AssignStmt:
				checkAssign(pass, node)
			case *ast.CompositeLit:
				checkCompositeLit(pass, node)
			}
			return true
		})
	}
	return nil, nil
}

func checkAssign(pass *analysis.Pass, assign *ast.AssignStmt) {
	for i, lhs := range assign.Lhs {
		if i >= len(assign.Rhs) {
			continue
		}

		sel, ok := lhs.(*ast.SelectorExpr)
		if !ok || !isEnumType(pass.TypesInfo.TypeOf(sel)) {
			continue
		}
		if isStringLiteral(assign.Rhs[i]) {
			pass.Reportf(assign.Pos(),
				"enum field %s assigned string literal; use defined constant instead",
				sel.Sel.Name)
		}
	}
}

func checkCompositeLit(pass *analysis.Pass, lit *ast.CompositeLit) {
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok || !isStringLiteral(kv.Value) {
			continue
		}
		if isEnumType(pass.TypesInfo.TypeOf(kv.Value)) {
			pass.Reportf(kv.Pos(),
				"enum field %s set to string literal; use defined constant instead",
				key.Name)
		}
	}
}

func isEnumType(t types.Type) bool {
	if named, ok := t.(*types.Named); ok {
		return enumTypes[named.Obj().Name()]
	}
	return false
}

func isStringLiteral(expr ast.Expr) bool {
	lit, ok := expr.(*ast.BasicLit)
	return ok && lit.Kind == token.STRING
}
