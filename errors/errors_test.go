package errors

import (
	"testing"

	"github.com/pontaoski/plaia/types"
	"github.com/ztrue/tracerr"
)

func span(from, to int) types.Span {
	return types.Span{
		From: types.Position{Offset: from, Line: 1, Column: from + 1},
		To:   types.Position{Offset: to, Line: 1, Column: to + 1},
	}
}

func TestAtKeepsInnermostSpan(t *testing.T) {
	err := At(UnboundName{Name: "x"}, span(4, 5))
	err = At(err, span(0, 5))
	err = At(err, span(0, 9))

	e, ok := err.(UnboundName)
	if !ok {
		t.Fatalf("At changed the error type: %T", err)
	}
	if e.Location != span(4, 5) {
		t.Errorf("unexpected location %s", e.Location)
	}
}

func TestAtDoesNotTrace(t *testing.T) {
	if _, ok := At(DivisionByZero{}, span(0, 1)).(tracerr.Error); ok {
		t.Error("At attached a stack trace")
	}
	if At(nil, span(0, 1)) != nil {
		t.Error("At of nil is not nil")
	}
}

func TestWrap(t *testing.T) {
	err := Wrap(At(StackOverflow{Depth: 3}, span(2, 3)))
	if _, ok := err.(tracerr.Error); !ok {
		t.Fatalf("Wrap did not attach a stack trace: %T", err)
	}
	if e, ok := tracerr.Unwrap(err).(StackOverflow); !ok || e.Location != span(2, 3) {
		t.Errorf("unexpected error %v", err)
	}
	if Wrap(err) != err {
		t.Error("Wrap traced an already traced error again")
	}
	if Wrap(nil) != nil {
		t.Error("Wrap of nil is not nil")
	}
}
