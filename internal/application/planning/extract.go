package planning

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Model responses are free text that usually, but not always, embeds a JSON
// document. Extraction runs an ordered list of strategies: a fenced block
// explicitly labeled as JSON, then a greedy brace span from the first "{"
// to the last "}". Each strategy reports a tagged outcome instead of
// failing, so callers can branch on the exact failure kind. No repair of
// malformed JSON is attempted; a half-parsed result is worse than an
// explicit error.

// ExtractErrKind classifies why extraction failed
type ExtractErrKind int

const (
	// ExtractNotFound means no strategy located a JSON span in the text
	ExtractNotFound ExtractErrKind = iota
	// ExtractMalformed means a span was located but strict parsing failed
	ExtractMalformed
)

// ExtractError reports a failed extraction with its kind and, for
// malformed spans, the strategy that located the span
type ExtractError struct {
	Kind     ExtractErrKind
	Strategy string
	Cause    error
}

func (e *ExtractError) Error() string {
	switch e.Kind {
	case ExtractMalformed:
		return fmt.Sprintf("extracted span (%s) is not valid JSON: %v", e.Strategy, e.Cause)
	default:
		return "no JSON document found in response text"
	}
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// extractStrategy locates a candidate JSON span in free text
type extractStrategy interface {
	name() string
	locate(text string) (span string, found bool)
}

var fenceRe = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")

// fencedBlock matches a code fence explicitly labeled json
type fencedBlock struct{}

func (fencedBlock) name() string { return "fenced_block" }

func (fencedBlock) locate(text string) (string, bool) {
	m := fenceRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// braceSpan matches from the first top-level "{" to the last "}"
type braceSpan struct{}

func (braceSpan) name() string { return "brace_span" }

func (braceSpan) locate(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// Extractor pulls a JSON document out of a raw model completion
type Extractor struct {
	strategies []extractStrategy
}

// NewExtractor creates an extractor with the standard strategy order
func NewExtractor() *Extractor {
	return &Extractor{
		strategies: []extractStrategy{fencedBlock{}, braceSpan{}},
	}
}

// Extract returns the raw JSON located in text and the name of the
// strategy that found it. A located span that fails strict parsing is a
// terminal error; later strategies are not consulted, matching the
// fence-first precedence of the production prompt contract.
func (e *Extractor) Extract(text string) (json.RawMessage, string, error) {
	for _, s := range e.strategies {
		span, found := s.locate(text)
		if !found {
			continue
		}

		var raw json.RawMessage
		if err := json.Unmarshal([]byte(span), &raw); err != nil {
			return nil, s.name(), &ExtractError{Kind: ExtractMalformed, Strategy: s.name(), Cause: err}
		}
		return raw, s.name(), nil
	}

	return nil, "", &ExtractError{Kind: ExtractNotFound}
}
