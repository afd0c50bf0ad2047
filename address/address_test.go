package address_test

import (
	"context"
	"testing"

	"github.com/nabbar/bolt/address"
)

func TestSetAddReturnsIndexOrMinusOneWhenPresent(t *testing.T) {
	s := address.NewSet()
	a := address.New("db1.internal", "7687")

	if idx := s.Add(a); idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if idx := s.Add(address.New("db1.internal", "7687")); idx != -1 {
		t.Fatalf("expected -1 for duplicate, got %d", idx)
	}
	if s.Size() != 1 {
		t.Fatalf("expected size 1, got %d", s.Size())
	}
}

func TestSetRemoveReturnsPreviousIndexOrMinusOne(t *testing.T) {
	s := address.NewSet(address.New("a", "1"), address.New("b", "2"))

	if idx := s.Remove(address.New("b", "2")); idx != 1 {
		t.Fatalf("expected previous index 1, got %d", idx)
	}
	if idx := s.Remove(address.New("missing", "0")); idx != -1 {
		t.Fatalf("expected -1 for absent member, got %d", idx)
	}
}

func TestSetReplaceSwapsContentsWholesale(t *testing.T) {
	s := address.NewSet(address.New("a", "1"))
	s.Replace([]*address.Address{address.New("x", "9"), address.New("y", "9")})

	if s.Size() != 2 || s.Items()[0].Host() != "x" {
		t.Fatalf("unexpected set contents after Replace: %v", s.Items())
	}
}

func TestResolveIsIdempotentAndReplacesPriorResult(t *testing.T) {
	a := address.New("127.0.0.1", "7687")
	if err := a.Resolve(context.Background()); err != nil {
		t.Fatalf("unexpected resolve error: %v", err)
	}
	if !a.Resolved() || a.ResolvedPort() != 7687 {
		t.Fatalf("expected resolution to populate IPs and port")
	}

	first := a.IPs()
	if err := a.Resolve(context.Background()); err != nil {
		t.Fatalf("unexpected second resolve error: %v", err)
	}
	if len(a.IPs()) != len(first) {
		t.Fatalf("expected re-resolution to replace, not accumulate")
	}
}
