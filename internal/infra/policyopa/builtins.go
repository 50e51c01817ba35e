package policyopa

import "github.com/open-policy-agent/opa/ast"

// Builtins a gate policy may call.
var allowedBuiltins = map[string]struct{}{
	"assign":     {},
	"eq":         {},
	"equal":      {},
	"neq":        {},
	"is_string":  {},
	"is_boolean": {},
	"lower":      {},
	"upper":      {},
	"count":      {},
}

func filterBuiltins(builtins []*ast.Builtin) []*ast.Builtin {
	allowed := make([]*ast.Builtin, 0, len(builtins))
	for _, builtin := range builtins {
		if _, ok := allowedBuiltins[builtin.Name]; !ok {
			continue
		}
		allowed = append(allowed, builtin)
	}
	return allowed
}
