// Package filterexpr compiles AIP-160 filter expressions and evaluates them
// against row values.
//
// Expressions are parsed and type-checked by go.einride.tech/aip/filtering
// against one declared identifier per column. Evaluation walks the checked
// expression tree directly; values come from a lookup function, typically
// the data cells of a row.
package filterexpr

import (
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/gridview/internal/value"
	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Type is the declared type of an identifier.
type Type string

const (
	String    Type = "string"
	Int       Type = "int"
	Float     Type = "float"
	Bool      Type = "bool"
	Timestamp Type = "timestamp"
)

func (t Type) exprType() (*expr.Type, error) {
	switch t {
	case String, "":
		return filtering.TypeString, nil
	case Int:
		return filtering.TypeInt, nil
	case Float:
		return filtering.TypeFloat, nil
	case Bool:
		return filtering.TypeBool, nil
	case Timestamp:
		return filtering.TypeTimestamp, nil
	default:
		return nil, fmt.Errorf("unsupported identifier type %q", string(t))
	}
}

// Lookup returns the value of an identifier.
type Lookup func(ident string) (any, bool)

// Program is a compiled filter. The zero Program matches everything.
type Program struct {
	raw  string
	root *expr.Expr
}

// Compile parses and checks filter with one identifier per entry of idents.
// A blank filter compiles to a Program that matches everything.
func Compile(filter string, idents map[string]Type) (*Program, error) {
	if strings.TrimSpace(filter) == "" {
		return &Program{}, nil
	}

	opts := []filtering.DeclarationOption{
		filtering.DeclareStandardFunctions(),
		// Juxtaposed terms parse as FUZZY, which the standard set leaves out.
		filtering.DeclareFunction(filtering.FunctionFuzzyAnd,
			filtering.NewFunctionOverload(filtering.FunctionFuzzyAnd+"_bool", filtering.TypeBool, filtering.TypeBool, filtering.TypeBool)),
	}
	for name, t := range idents {
		et, err := t.exprType()
		if err != nil {
			return nil, fmt.Errorf("identifier %q: %w", name, err)
		}
		opts = append(opts, filtering.DeclareIdent(name, et))
	}
	decls, err := filtering.NewDeclarations(opts...)
	if err != nil {
		return nil, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filter, decls)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	if parsed.CheckedExpr == nil {
		return &Program{raw: filter}, nil
	}
	return &Program{raw: filter, root: parsed.CheckedExpr.GetExpr()}, nil
}

// String returns the filter as written.
func (p *Program) String() string {
	return p.raw
}

// Match evaluates the program. The expression must yield a bool.
func (p *Program) Match(lookup Lookup) (bool, error) {
	if p == nil || p.root == nil {
		return true, nil
	}
	v, err := eval(p.root, lookup)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q yields %T, not bool", p.raw, v)
	}
	return b, nil
}

func eval(e *expr.Expr, lookup Lookup) (any, error) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_ConstExpr:
		return constant(kind.ConstExpr)
	case *expr.Expr_IdentExpr:
		v, _ := lookup(kind.IdentExpr.GetName())
		return v, nil
	case *expr.Expr_SelectExpr:
		path, ok := selectPath(e)
		if !ok {
			return nil, fmt.Errorf("unsupported member expression")
		}
		v, _ := lookup(path)
		return v, nil
	case *expr.Expr_CallExpr:
		return call(kind.CallExpr, lookup)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", kind)
	}
}

// selectPath flattens a chain of member selections on an identifier into a
// dotted name.
func selectPath(e *expr.Expr) (string, bool) {
	switch kind := e.GetExprKind().(type) {
	case *expr.Expr_IdentExpr:
		return kind.IdentExpr.GetName(), true
	case *expr.Expr_SelectExpr:
		operand, ok := selectPath(kind.SelectExpr.GetOperand())
		if !ok {
			return "", false
		}
		return operand + "." + kind.SelectExpr.GetField(), true
	default:
		return "", false
	}
}

func constant(c *expr.Constant) (any, error) {
	switch kind := c.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_DoubleValue:
		return kind.DoubleValue, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	case *expr.Constant_NullValue:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported constant: %T", kind)
	}
}

func call(c *expr.Expr_Call, lookup Lookup) (any, error) {
	args := c.GetArgs()
	switch c.GetFunction() {
	case filtering.FunctionAnd, filtering.FunctionFuzzyAnd, "_&&_":
		return logical(args, lookup, true)
	case filtering.FunctionOr, "_||_":
		return logical(args, lookup, false)
	case filtering.FunctionNot, "!_":
		if len(args) != 1 {
			return nil, fmt.Errorf("NOT requires 1 argument")
		}
		v, err := evalBool(args[0], lookup)
		if err != nil {
			return nil, err
		}
		return !v, nil
	case filtering.FunctionTimestamp:
		if len(args) != 1 {
			return nil, fmt.Errorf("timestamp requires 1 argument")
		}
		v, err := eval(args[0], lookup)
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("timestamp argument must be a string, got %T", v)
		}
		return time.Parse(time.RFC3339, s)
	}

	if len(args) != 2 {
		return nil, fmt.Errorf("function %s requires 2 arguments", c.GetFunction())
	}
	left, err := eval(args[0], lookup)
	if err != nil {
		return nil, err
	}
	right, err := eval(args[1], lookup)
	if err != nil {
		return nil, err
	}
	right, err = coerceTimestamp(left, right)
	if err != nil {
		return nil, err
	}

	switch c.GetFunction() {
	case filtering.FunctionHas:
		return has(left, right), nil
	case filtering.FunctionEquals, "_==_":
		cmp, ok := value.Compare(left, right)
		return ok && cmp == 0, nil
	case filtering.FunctionNotEquals, "_!=_":
		cmp, ok := value.Compare(left, right)
		return !ok || cmp != 0, nil
	case filtering.FunctionLessThan, "_<_":
		cmp, ok := value.Compare(left, right)
		return ok && cmp < 0, nil
	case filtering.FunctionLessEquals, "_<=_":
		cmp, ok := value.Compare(left, right)
		return ok && cmp <= 0, nil
	case filtering.FunctionGreaterThan, "_>_":
		cmp, ok := value.Compare(left, right)
		return ok && cmp > 0, nil
	case filtering.FunctionGreaterEquals, "_>=_":
		cmp, ok := value.Compare(left, right)
		return ok && cmp >= 0, nil
	default:
		return nil, fmt.Errorf("unsupported function: %s", c.GetFunction())
	}
}

// coerceTimestamp parses a string compared against a time, as in
// `joined > "2024-01-01T00:00:00Z"`.
func coerceTimestamp(left, right any) (any, error) {
	s, ok := right.(string)
	if _, isTime := left.(time.Time); !isTime || !ok {
		return right, nil
	}
	return time.Parse(time.RFC3339, s)
}

func logical(args []*expr.Expr, lookup Lookup, and bool) (any, error) {
	for _, arg := range args {
		v, err := evalBool(arg, lookup)
		if err != nil {
			return nil, err
		}
		if v != and {
			return v, nil
		}
	}
	return and, nil
}

func evalBool(e *expr.Expr, lookup Lookup) (bool, error) {
	v, err := eval(e, lookup)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("expected bool operand, got %T", v)
	}
	return b, nil
}

// has implements the ":" operator: case-insensitive substring match for
// strings, membership for lists, equality otherwise.
func has(left, right any) bool {
	if s, ok := left.(string); ok {
		return strings.Contains(strings.ToLower(s), strings.ToLower(value.String(right)))
	}
	if list, ok := left.([]any); ok {
		for _, el := range list {
			if cmp, ok := value.Compare(el, right); ok && cmp == 0 {
				return true
			}
		}
		return false
	}
	cmp, ok := value.Compare(left, right)
	return ok && cmp == 0
}
