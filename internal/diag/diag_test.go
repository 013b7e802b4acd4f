package diag

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/hiltic/hiltic/internal/ast"
	"github.com/stretchr/testify/assert"
)

func TestWrapAndAsReport(t *testing.T) {
	r := New(RES001, "resolve", "unbound identifier 'x'", nil)
	err := WrapReport(r)

	got, ok := AsReport(err)
	assert.True(t, ok)
	assert.Equal(t, r, got)

	// survives wrapping through fmt.Errorf-style chains
	wrapped := fmt.Errorf("outer: %w", err)
	gotWrapped, ok := AsReport(wrapped)
	assert.True(t, ok)
	assert.Equal(t, r, gotWrapped)
	assert.Equal(t, "RES001: unbound identifier 'x'", err.Error())
}

func TestAsReportFalseForPlainError(t *testing.T) {
	_, ok := AsReport(errors.New("plain"))
	assert.False(t, ok)
}

func TestLogAddIgnoresNil(t *testing.T) {
	log := NewLog()
	log.Add(nil)
	log.Add(New(OPR001, "operator", "no match", nil))
	assert.Equal(t, 1, len(log.Reports()))
	assert.True(t, log.HasErrors())
}

func TestLogSortBySpanOrdersByLineThenColumn(t *testing.T) {
	log := NewLog()
	spanB := ast.Span{Start: ast.Pos{File: "a.hlt", Line: 10, Column: 1}}
	spanA := ast.Span{Start: ast.Pos{File: "a.hlt", Line: 2, Column: 5}}
	log.Add(New(RES001, "resolve", "second", &spanB))
	log.Add(New(RES001, "resolve", "first", &spanA))

	log.SortBySpan()
	assert.Equal(t, "first", log.Reports()[0].Message)
	assert.Equal(t, "second", log.Reports()[1].Message)
}

func TestLogWriteToIncludesCodeAndMessage(t *testing.T) {
	log := NewLog()
	log.Add(New(VAL001, "validate", "missing Main::run", nil))
	var buf bytes.Buffer
	log.WriteTo(&buf)
	assert.Contains(t, buf.String(), "VAL001")
	assert.Contains(t, buf.String(), "missing Main::run")
}

func TestErrorRegistryLookup(t *testing.T) {
	info, ok := GetErrorInfo(CFG001)
	assert.True(t, ok)
	assert.Equal(t, "cfg", info.Phase)
	assert.True(t, IsContextError(CTX001))
	assert.False(t, IsContextError(CFG001))
}
