// Package diag provides centralized structured diagnostic reporting for
// the compiler. All error builders across internal/resolve,
// internal/operator, internal/instr, internal/validate, internal/cfg,
// internal/liveness, and internal/compiler return *Report, which is
// wrapped as a ReportError so it survives errors.As() unwrapping.
package diag

import (
	"encoding/json"
	"errors"

	"github.com/hiltic/hiltic/internal/ast"
)

// Report is the canonical structured diagnostic.
type Report struct {
	Schema  string         `json:"schema"`         // always "hiltic.diag/v1"
	Code    string         `json:"code"`           // SCP001, RES003, ...
	Phase   string         `json:"phase"`          // "scope", "resolve", "operator", ...
	Message string         `json:"message"`        // human-readable message
	Span    *ast.Span      `json:"span,omitempty"` // source location, if any
	Data    map[string]any `json:"data,omitempty"` // structured detail (e.g. candidate list)
	Fix     *Fix           `json:"fix,omitempty"`
}

// Fix is an optional suggested remediation attached to a Report.
type Fix struct {
	Description string `json:"description"`
	Replacement string `json:"replacement,omitempty"`
}

// ReportError wraps a Report as an error.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps r as an error, or returns nil if r is nil.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders r deterministically (sorted map keys, via
// encoding/json's struct-field order plus sorted map keys) for the
// golden-file diagnostic dumps in testutil.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewGeneric wraps an opaque error from phase as a Report, for
// passes that only have a bare Go error available (e.g. an os.Open
// failure surfacing through internal/compiler's module loader).
func NewGeneric(phase string, err error) *Report {
	return &Report{
		Schema:  Schema,
		Code:    "GEN000",
		Phase:   phase,
		Message: err.Error(),
		Data:    map[string]any{},
	}
}

// Schema identifies the Report wire shape.
const Schema = "hiltic.diag/v1"

// New builds a Report with the given code/phase/message and an optional
// span (pass nil for diagnostics with no single source location, e.g. a
// module-level cycle report).
func New(code, phase, message string, span *ast.Span) *Report {
	return &Report{Schema: Schema, Code: code, Phase: phase, Message: message, Span: span}
}

// WithData attaches structured detail and returns r for chaining.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// WithFix attaches a suggested fix and returns r for chaining.
func (r *Report) WithFix(fix *Fix) *Report {
	r.Fix = fix
	return r
}
