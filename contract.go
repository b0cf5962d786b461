package formkit

import (
	"context"

	"github.com/goliatone/go-formkit/internal/apicontract"
)

// Contract aliases the parsed collaborator contract so callers can inspect it
// without importing the internal package.
type Contract = apicontract.Contract

// LoadContract parses the embedded OpenAPI description of the collaborator.
func LoadContract(ctx context.Context) (*Contract, error) {
	return apicontract.Load(ctx)
}

// ParseContract parses a caller-supplied OpenAPI document, e.g. to point the
// client at a collaborator with different paths.
func ParseContract(ctx context.Context, raw []byte) (*Contract, error) {
	return apicontract.Parse(ctx, raw)
}
