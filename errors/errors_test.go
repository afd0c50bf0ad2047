package errors_test

import (
	"errors"
	"testing"

	liberr "github.com/nabbar/bolt/errors"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	e := liberr.New(liberr.CodePoolFull, "no idle slot")

	if !e.IsCode(liberr.CodePoolFull) {
		t.Fatalf("expected IsCode(CodePoolFull) true")
	}
	if e.StringError() != "no idle slot" {
		t.Fatalf("unexpected message: %s", e.StringError())
	}
}

func TestAddBuildsParentChain(t *testing.T) {
	root := liberr.New(liberr.CodeTransportConnectionReset, "socket reset")
	wrapped := liberr.New(liberr.CodeProtocolViolation, "decode failed")
	wrapped.Add(root)

	if !wrapped.HasParent() {
		t.Fatalf("expected HasParent true")
	}
	if !wrapped.HasCode(liberr.CodeTransportConnectionReset) {
		t.Fatalf("expected HasCode to find parent code")
	}
}

func TestMakeWrapsForeignError(t *testing.T) {
	foreign := errors.New("boom")
	wrapped := liberr.Make(foreign)

	if wrapped == nil {
		t.Fatalf("expected non-nil wrap")
	}
	if wrapped.GetCode() != liberr.CodeUnknown {
		t.Fatalf("expected CodeUnknown for foreign error, got %v", wrapped.GetCode())
	}
}

func TestMakeIfErrorAllNilReturnsNil(t *testing.T) {
	if e := liberr.MakeIfError(nil, nil); e != nil {
		t.Fatalf("expected nil, got %v", e)
	}
}

func TestErrorsIsCompatibility(t *testing.T) {
	e := liberr.New(liberr.CodeRoutingUnableToRetrieve, "all routers failed")

	var target liberr.Error
	if !errors.As(error(e), &target) {
		t.Fatalf("expected errors.As to succeed")
	}
}
