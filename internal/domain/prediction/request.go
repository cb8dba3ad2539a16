package prediction

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/foldcall/internal/domain"
)

// Request is a payload bound to a service endpoint.
type Request interface {
	Endpoint() domain.Endpoint
	Validate() error
}

// MSARequest asks the service to build alignments for raw sequences.
type MSARequest struct {
	Sequences []string `json:"sequences"`
	Databases []string `json:"databases"`
}

// Endpoint implements Request.
func (MSARequest) Endpoint() domain.Endpoint { return domain.EndpointMSA }

// Validate rejects empty sequences and databases.
// Residue alphabet and database names are left to the service.
func (r MSARequest) Validate() error {
	if err := validateSequences(r.Sequences); err != nil {
		return err
	}
	if len(r.Databases) == 0 {
		return domain.NewInvalidRequest("databases", "must not be empty")
	}
	for i, db := range r.Databases {
		if db == "" {
			return domain.NewInvalidRequest(fmt.Sprintf("databases[%d]", i), "must not be empty")
		}
	}
	return nil
}

// StructureRequest asks the service to predict a structure from alignments and templates.
// Alignments[i] and Templates[i] belong to Sequences[i].
type StructureRequest struct {
	Sequences  []string      `json:"sequences"`
	Alignments []Alignment   `json:"alignments"`
	Templates  []TemplateSet `json:"templates"`
}

// Endpoint implements Request.
func (StructureRequest) Endpoint() domain.Endpoint { return domain.EndpointStructure }

// Validate checks positional correspondence, alignment entries and template hits.
func (r StructureRequest) Validate() error {
	if err := validateSequences(r.Sequences); err != nil {
		return err
	}
	if r.Alignments != nil && len(r.Alignments) != len(r.Sequences) {
		return domain.NewInvalidRequest("alignments",
			fmt.Sprintf("has %d entries for %d sequences", len(r.Alignments), len(r.Sequences)))
	}
	if r.Templates != nil && len(r.Templates) != len(r.Sequences) {
		return domain.NewInvalidRequest("templates",
			fmt.Sprintf("has %d entries for %d sequences", len(r.Templates), len(r.Sequences)))
	}
	for i, a := range r.Alignments {
		for key, e := range a {
			field := fmt.Sprintf("alignments[%d][%s]", i, key)
			if e.Database != key {
				return domain.NewInvalidRequest(field, fmt.Sprintf("entry names database %q", e.Database))
			}
			if e.Format == "" {
				return domain.NewInvalidRequest(field, "format is empty")
			}
		}
	}
	for i, set := range r.Templates {
		for j, hit := range set {
			if err := hit.Validate(); err != nil {
				return domain.NewInvalidRequest(fmt.Sprintf("templates[%d][%d]", i, j), err.Error())
			}
		}
	}
	return nil
}

func validateSequences(seqs []string) error {
	if len(seqs) == 0 {
		return domain.NewInvalidRequest("sequences", "must not be empty")
	}
	for i, s := range seqs {
		if s == "" {
			return domain.NewInvalidRequest(fmt.Sprintf("sequences[%d]", i), "must not be empty")
		}
	}
	return nil
}

// Encode serializes a request body. Nil top-level slices are sent as empty
// arrays, and HTML characters in alignment text and template names are not escaped.
func Encode(req Request) ([]byte, error) {
	var v any
	switch r := req.(type) {
	case MSARequest:
		v = MSARequest{
			Sequences: orEmpty(r.Sequences),
			Databases: orEmpty(r.Databases),
		}
	case StructureRequest:
		v = StructureRequest{
			Sequences:  orEmpty(r.Sequences),
			Alignments: orEmpty(r.Alignments),
			Templates:  orEmpty(r.Templates),
		}
	default:
		return nil, fmt.Errorf("%w: unsupported request type %T", domain.ErrInvalidRequest, req)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %s request: %w", req.Endpoint(), err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
