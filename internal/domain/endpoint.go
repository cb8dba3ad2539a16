package domain

import "fmt"

// KeyPrefix is the namespace for every key foldcall writes to the cache store.
const KeyPrefix = "foldcall:"

// DefaultBaseURL is the address the prediction service listens on in a local deployment.
const DefaultBaseURL = "http://localhost:8000"

// Endpoint identifies one of the prediction service routes.
type Endpoint string

const (
	// EndpointMSA computes multi-sequence alignments for raw sequences.
	EndpointMSA Endpoint = "msa"
	// EndpointStructure predicts a structure from precomputed alignments and templates.
	EndpointStructure Endpoint = "structure"
)

// Fixed service paths.
const (
	MSAPath       = "/protein-structure/alphafold2/multimer/predict-msa-from-sequences"
	StructurePath = "/protein-structure/alphafold2/multimer/predict-structure-from-msa"
)

// Path returns the HTTP path of the endpoint.
func (e Endpoint) Path() string {
	switch e {
	case EndpointMSA:
		return MSAPath
	case EndpointStructure:
		return StructurePath
	default:
		return ""
	}
}

// ParseEndpoint converts a user-supplied name to an Endpoint.
func ParseEndpoint(s string) (Endpoint, error) {
	switch e := Endpoint(s); e {
	case EndpointMSA, EndpointStructure:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEndpoint, s)
	}
}
