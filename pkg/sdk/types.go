package foldcall

import (
	"github.com/kailas-cloud/foldcall/internal/domain/outcome"
	"github.com/kailas-cloud/foldcall/internal/domain/prediction"
)

// AlignmentEntry is one precomputed alignment, sent as [database, text, format].
type AlignmentEntry = prediction.AlignmentEntry

// Alignment maps a database name to its alignment for one query sequence.
type Alignment = prediction.Alignment

// TemplateHit is a single structural template match.
type TemplateHit = prediction.TemplateHit

// TemplateSet holds the template hits for one query sequence.
type TemplateSet = prediction.TemplateSet

// Alignment format tags.
const (
	FormatStockholm = prediction.FormatStockholm
	FormatA3M       = prediction.FormatA3M
)

// Databases used by the sample payloads. Other names are passed through as given.
const (
	DatabaseUniref90 = prediction.DatabaseUniref90
	DatabaseMgnify   = prediction.DatabaseMgnify
	DatabaseSmallBFD = prediction.DatabaseSmallBFD
)

// NewAlignment builds an Alignment keyed by each entry's database name.
func NewAlignment(entries ...AlignmentEntry) Alignment {
	return prediction.NewAlignment(entries...)
}

// StatusClass is the class of an HTTP status code.
type StatusClass = outcome.Class

// Status classes.
const (
	StatusInformational = outcome.ClassInformational
	StatusSuccess       = outcome.ClassSuccess
	StatusRedirection   = outcome.ClassRedirection
	StatusClientError   = outcome.ClassClientError
	StatusServerError   = outcome.ClassServerError
	StatusUnknown       = outcome.ClassUnknown
)

// Outcome is the result of a prediction call.
type Outcome struct {
	StatusCode int
	Class      StatusClass
	Value      any    // decoded JSON body, success only
	Raw        []byte // response body as received
	Text       string // Raw as text
	Cached     bool   // served from the response cache
}

// IsSuccess reports whether the service answered with a 2xx status.
func (o Outcome) IsSuccess() bool {
	return o.Class == StatusSuccess
}

func toOutcome(o outcome.Outcome) Outcome {
	return Outcome{
		StatusCode: o.StatusCode(),
		Class:      o.Class(),
		Value:      o.Value(),
		Raw:        o.Raw(),
		Text:       o.Text(),
		Cached:     o.Cached(),
	}
}
