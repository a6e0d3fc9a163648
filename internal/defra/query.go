package defra

import (
	"context"
	"fmt"
	"strings"
)

// QueryBuilder constructs GraphQL queries that pass filter values as
// variables instead of interpolating them.
type QueryBuilder struct {
	collection string
	filters    []filterDef
	fields     []string
	limit      int
	varIndex   int
}

type filterDef struct {
	field   string
	varName string
	varType string
	value   any
}

// NewQuery creates a new QueryBuilder for the given collection.
func NewQuery(collection string) *QueryBuilder {
	return &QueryBuilder{
		collection: collection,
		fields:     []string{"_docID"},
	}
}

// Filter adds an equality filter.
func (q *QueryBuilder) Filter(field string, value any) *QueryBuilder {
	q.filters = append(q.filters, filterDef{
		field:   field,
		varName: fmt.Sprintf("v%d", q.varIndex),
		varType: inferGraphQLType(value),
		value:   value,
	})
	q.varIndex++
	return q
}

// Fields sets the fields to return (replaces default of just _docID).
func (q *QueryBuilder) Fields(fields ...string) *QueryBuilder {
	q.fields = fields
	return q
}

// Limit sets the maximum number of results.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

// Build returns the query string and variables map.
func (q *QueryBuilder) Build() (string, map[string]any) {
	var varDefs, filterParts []string
	vars := make(map[string]any)
	for _, f := range q.filters {
		varDefs = append(varDefs, fmt.Sprintf("$%s: %s", f.varName, f.varType))
		filterParts = append(filterParts, fmt.Sprintf("%s: {_eq: $%s}", f.field, f.varName))
		vars[f.varName] = f.value
	}

	var b strings.Builder
	if len(varDefs) > 0 {
		fmt.Fprintf(&b, "query(%s) ", strings.Join(varDefs, ", "))
	}
	b.WriteString("{ ")
	b.WriteString(q.collection)

	var args []string
	if len(filterParts) > 0 {
		args = append(args, fmt.Sprintf("filter: {%s}", strings.Join(filterParts, ", ")))
	}
	if q.limit > 0 {
		args = append(args, fmt.Sprintf("limit: %d", q.limit))
	}
	if len(args) > 0 {
		fmt.Fprintf(&b, "(%s)", strings.Join(args, ", "))
	}

	b.WriteString(" { ")
	b.WriteString(strings.Join(q.fields, " "))
	b.WriteString(" } }")
	return b.String(), vars
}

// Execute builds and executes the query on the given client.
func (q *QueryBuilder) Execute(ctx context.Context, client *Client) (*GQLResponse, error) {
	query, vars := q.Build()
	return client.Execute(ctx, query, vars)
}

func inferGraphQLType(v any) string {
	switch v.(type) {
	case int, int32, int64:
		return "Int"
	case float32, float64:
		return "Float"
	case bool:
		return "Boolean"
	default:
		return "String"
	}
}
