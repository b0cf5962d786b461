// Package apicontract loads the OpenAPI description of the HTTP collaborator
// and checks outgoing request bodies against it.
package apicontract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var embeddedContract []byte

// Operation ids declared by the embedded contract.
const (
	ListUsers  = "listUsers"
	CreateUser = "createUser"
)

// Operation is the subset of an OpenAPI operation the client needs.
type Operation struct {
	ID          string
	Method      string
	Path        string
	QueryParams []string
	Required    []string

	body *openapi3.SchemaRef
}

// Contract is a parsed, validated collaborator description.
type Contract struct {
	Title      string
	Version    string
	operations map[string]Operation
}

// BodyError reports a request body that violates the contract. It names the
// offending field only; values are never included.
type BodyError struct {
	Operation string
	Field     string
	Reason    string
}

func (e *BodyError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("apicontract: %s body: %s", e.Operation, e.Reason)
	}
	return fmt.Sprintf("apicontract: %s body: field %q: %s", e.Operation, e.Field, e.Reason)
}

// Raw returns the embedded contract document.
func Raw() []byte {
	return append([]byte(nil), embeddedContract...)
}

// Load parses the embedded contract.
func Load(ctx context.Context) (*Contract, error) {
	return Parse(ctx, embeddedContract)
}

// Parse loads and validates an OpenAPI document.
func Parse(ctx context.Context, raw []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("apicontract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("apicontract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("apicontract: validate: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("apicontract: document does not contain any paths")
	}

	contract := &Contract{operations: make(map[string]Operation)}
	if doc.Info != nil {
		contract.Title = doc.Info.Title
		contract.Version = doc.Info.Version
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			contract.collect(method, path, op)
		}
	}
	if len(contract.operations) == 0 {
		return nil, errors.New("apicontract: no operations extracted")
	}
	return contract, nil
}

func (c *Contract) collect(method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}

	op := Operation{ID: id, Method: strings.ToUpper(method), Path: path}
	for _, param := range operation.Parameters {
		if param == nil || param.Value == nil || param.Value.In != openapi3.ParameterInQuery {
			continue
		}
		op.QueryParams = append(op.QueryParams, param.Value.Name)
	}
	if rb := operation.RequestBody; rb != nil && rb.Value != nil {
		if mt := rb.Value.Content.Get("application/json"); mt != nil && mt.Schema != nil {
			op.body = mt.Schema
			if mt.Schema.Value != nil {
				op.Required = append([]string(nil), mt.Schema.Value.Required...)
				sort.Strings(op.Required)
			}
		}
	}
	c.operations[id] = op
}

// Operation looks up an operation by id.
func (c *Contract) Operation(id string) (Operation, bool) {
	if c == nil {
		return Operation{}, false
	}
	op, ok := c.operations[id]
	return op, ok
}

// OperationIDs lists the declared operations in sorted order.
func (c *Contract) OperationIDs() []string {
	ids := make([]string, 0, len(c.operations))
	for id := range c.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ValidateBody checks a JSON request body against the operation's schema.
// Operations without a body schema accept anything.
func (c *Contract) ValidateBody(id string, body []byte) error {
	op, ok := c.Operation(id)
	if !ok {
		return fmt.Errorf("apicontract: unknown operation %q", id)
	}
	if op.body == nil || op.body.Value == nil {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return &BodyError{Operation: id, Reason: "body is not valid JSON"}
	}
	err := op.body.Value.VisitJSON(decoded)
	if err == nil {
		return nil
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return &BodyError{
			Operation: id,
			Field:     strings.Join(schemaErr.JSONPointer(), "."),
			Reason:    schemaErr.Reason,
		}
	}
	return &BodyError{Operation: id, Reason: "body does not match the contract"}
}
