// Package policyopa evaluates route gates with a rego policy.
package policyopa

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"jobly/internal/domain"
	"jobly/internal/infra/auth/rbac"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
)

const defaultQuery = "data.jobly.authz.result"

//go:embed gates.rego
var defaultPolicy string

type Engine struct {
	query      rego.PreparedEvalQuery
	policyHash string
}

// NewEngine prepares the built-in gate policy.
func NewEngine(ctx context.Context) (*Engine, error) {
	return NewEngineFromSource(ctx, "gates.rego", defaultPolicy)
}

func NewEngineFromSource(ctx context.Context, name, source string) (*Engine, error) {
	module, err := ast.ParseModule(name, source)
	if err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}
	if err := assertNoForbiddenBuiltins([]*ast.Module{module}); err != nil {
		return nil, err
	}

	capabilities := ast.CapabilitiesForThisVersion()
	capabilities.Builtins = filterBuiltins(capabilities.Builtins)

	r := rego.New(
		rego.Query(defaultQuery),
		rego.ParsedModule(module),
		rego.Capabilities(capabilities),
		rego.StrictBuiltinErrors(true),
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare policy: %w", err)
	}
	sum := sha256.Sum256([]byte(source))
	return &Engine{query: prepared, policyHash: hex.EncodeToString(sum[:])}, nil
}

func (e *Engine) PolicyHash() string {
	return e.policyHash
}

func (e *Engine) Decide(ctx context.Context, input domain.GateInput) (domain.GateDecision, error) {
	if e == nil {
		return domain.GateDecision{}, errors.New("policy engine is nil")
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return domain.GateDecision{}, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.GateDecision{}, errors.New("empty policy result")
	}
	return decodeDecision(results[0].Expressions[0].Value)
}

// Authorize satisfies domain.Authorizer. Denials come back as
// *rbac.AuthzError so callers handle both evaluators the same way.
func (e *Engine) Authorize(ctx context.Context, identity *domain.Identity, gate domain.Gate, routeUsername string) error {
	input := domain.GateInput{Gate: gate, RouteUsername: routeUsername}
	if identity != nil {
		input.Identity = &domain.GateIdentity{Username: identity.Username, IsAdmin: identity.IsAdmin}
	}
	decision, err := e.Decide(ctx, input)
	if err != nil {
		return fmt.Errorf("evaluate gate %s: %w", gate, err)
	}
	if decision.Allow {
		return nil
	}
	code := decision.Code
	if code == "" {
		code = rbac.CodeUnknownGate
	}
	return &rbac.AuthzError{Code: code, Gate: gate, Err: domain.ErrUnauthorized}
}

func decodeDecision(value any) (domain.GateDecision, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return domain.GateDecision{}, err
	}
	var decision domain.GateDecision
	if err := json.Unmarshal(payload, &decision); err != nil {
		return domain.GateDecision{}, err
	}
	return decision, nil
}

func assertNoForbiddenBuiltins(modules []*ast.Module) error {
	forbidden := make(map[string]struct{})
	for _, module := range modules {
		ast.WalkTerms(module, func(term *ast.Term) bool {
			call, ok := term.Value.(ast.Call)
			if !ok || len(call) == 0 || call[0] == nil {
				return false
			}
			name := call[0].Value.String()
			if _, ok := ast.BuiltinMap[name]; !ok {
				return false
			}
			if _, ok := allowedBuiltins[name]; ok {
				return false
			}
			forbidden[name] = struct{}{}
			return false
		})
	}
	if len(forbidden) == 0 {
		return nil
	}
	names := make([]string, 0, len(forbidden))
	for name := range forbidden {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("forbidden builtins: %s", strings.Join(names, ", "))
}
