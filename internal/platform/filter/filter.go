// Package filter translates AIP-160 filter expressions into SQL WHERE fragments.
package filter

import (
	"fmt"
	"strings"

	"go.einride.tech/aip/filtering"
	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Kind is the value type of a filterable field.
type Kind int

const (
	// String fields compare against quoted text.
	String Kind = iota
	// Int fields compare against integer literals.
	Int
)

// Field maps a filter identifier to a SQL column.
type Field struct {
	Name   string
	Column string
	Kind   Kind
}

// Schema is the set of fields a resource accepts in filter expressions.
type Schema struct {
	fields map[string]Field
	decls  []filtering.DeclarationOption
}

// NewSchema builds a schema from field declarations.
func NewSchema(fields ...Field) Schema {
	schema := Schema{
		fields: make(map[string]Field, len(fields)),
		decls:  []filtering.DeclarationOption{filtering.DeclareStandardFunctions()},
	}
	for _, field := range fields {
		schema.fields[field.Name] = field
		switch field.Kind {
		case Int:
			schema.decls = append(schema.decls, filtering.DeclareIdent(field.Name, filtering.TypeInt))
		default:
			schema.decls = append(schema.decls, filtering.DeclareIdent(field.Name, filtering.TypeString))
		}
	}
	return schema
}

// SQLCondition represents a SQL WHERE clause fragment with parameters.
type SQLCondition struct {
	// Clause is the SQL WHERE clause (e.g., "element = ?").
	Clause string
	// Params are the positional parameters for the clause.
	Params []any
}

// Empty reports whether the condition matches everything.
func (c SQLCondition) Empty() bool {
	return strings.TrimSpace(c.Clause) == ""
}

// Parse parses an AIP-160 filter expression against the schema.
// Returns an empty condition for an empty filter string.
func (s Schema) Parse(filterStr string) (SQLCondition, error) {
	if strings.TrimSpace(filterStr) == "" {
		return SQLCondition{}, nil
	}

	decls, err := filtering.NewDeclarations(s.decls...)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("create declarations: %w", err)
	}

	parsed, err := filtering.ParseFilterString(filterStr, decls)
	if err != nil {
		return SQLCondition{}, fmt.Errorf("parse filter: %w", err)
	}

	return s.translateExpr(parsed.CheckedExpr.GetExpr())
}

func (s Schema) translateExpr(e *expr.Expr) (SQLCondition, error) {
	if e == nil {
		return SQLCondition{}, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("unsupported expression type: %T", e.ExprKind)
	}

	switch fn := call.CallExpr.Function; fn {
	case "_&&_", "AND":
		return s.translateJoin(call.CallExpr.Args, "AND")
	case "_||_", "OR":
		return s.translateJoin(call.CallExpr.Args, "OR")
	case "NOT", "-":
		if len(call.CallExpr.Args) != 1 {
			return SQLCondition{}, fmt.Errorf("NOT requires 1 argument")
		}
		inner, err := s.translateExpr(call.CallExpr.Args[0])
		if err != nil {
			return SQLCondition{}, err
		}
		return SQLCondition{Clause: "(NOT " + inner.Clause + ")", Params: inner.Params}, nil
	case "_==_", "=":
		return s.translateComparison(call.CallExpr.Args, "=")
	case "_!=_", "!=":
		return s.translateComparison(call.CallExpr.Args, "!=")
	case "_<_", "<":
		return s.translateComparison(call.CallExpr.Args, "<")
	case "_<=_", "<=":
		return s.translateComparison(call.CallExpr.Args, "<=")
	case "_>_", ">":
		return s.translateComparison(call.CallExpr.Args, ">")
	case "_>=_", ">=":
		return s.translateComparison(call.CallExpr.Args, ">=")
	default:
		return SQLCondition{}, fmt.Errorf("unsupported function: %s", fn)
	}
}

func (s Schema) translateJoin(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("%s requires 2 arguments", op)
	}
	left, err := s.translateExpr(args[0])
	if err != nil {
		return SQLCondition{}, err
	}
	right, err := s.translateExpr(args[1])
	if err != nil {
		return SQLCondition{}, err
	}
	return SQLCondition{
		Clause: fmt.Sprintf("(%s %s %s)", left.Clause, op, right.Clause),
		Params: append(left.Params, right.Params...),
	}, nil
}

func (s Schema) translateComparison(args []*expr.Expr, op string) (SQLCondition, error) {
	if len(args) != 2 {
		return SQLCondition{}, fmt.Errorf("comparison requires 2 arguments")
	}

	ident, ok := args[0].GetExprKind().(*expr.Expr_IdentExpr)
	if !ok {
		return SQLCondition{}, fmt.Errorf("expected identifier, got %T", args[0].GetExprKind())
	}
	field, ok := s.fields[ident.IdentExpr.GetName()]
	if !ok {
		return SQLCondition{}, fmt.Errorf("unknown field: %s", ident.IdentExpr.GetName())
	}

	value, err := constValue(args[1])
	if err != nil {
		return SQLCondition{}, err
	}

	return SQLCondition{
		Clause: fmt.Sprintf("%s %s ?", field.Column, op),
		Params: []any{value},
	}, nil
}

func constValue(e *expr.Expr) (any, error) {
	c, ok := e.GetExprKind().(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.GetExprKind())
	}
	switch kind := c.ConstExpr.GetConstantKind().(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return kind.Uint64Value, nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type: %T", kind)
	}
}
