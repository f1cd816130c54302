// internal/vector/collection.go
package vector

import (
	"github.com/tamzrod/heatshi/internal/registry"
	"github.com/tamzrod/heatshi/internal/version"
)

// Collection pairs the holdings and inputs vectors for one resolved
// version. Purely a convenience aggregate.
type Collection struct {
	Holdings *Vector
	Inputs   *Vector
}

// NewCollection builds both vectors against the same token.
func NewCollection(holdings, inputs *registry.Registry, tok version.Token) (*Collection, error) {
	h, err := New(holdings, tok)
	if err != nil {
		return nil, err
	}
	i, err := New(inputs, tok)
	if err != nil {
		return nil, err
	}
	return &Collection{Holdings: h, Inputs: i}, nil
}

// EmptyCollection builds both vectors without fields; callers add
// exactly what they want transferred.
func EmptyCollection(holdings, inputs *registry.Registry, tok version.Token) (*Collection, error) {
	h, err := Empty(holdings, tok)
	if err != nil {
		return nil, err
	}
	i, err := Empty(inputs, tok)
	if err != nil {
		return nil, err
	}
	return &Collection{Holdings: h, Inputs: i}, nil
}
