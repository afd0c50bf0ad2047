package value_test

import (
	"testing"

	"github.com/nabbar/bolt/value"
)

func TestSizeByVariant(t *testing.T) {
	cases := []struct {
		v    *value.Value
		want int
	}{
		{value.New(), 0},
		{value.New().SetBoolean(true), 1},
		{value.New().SetInteger(42), 1},
		{value.New().SetString("hello"), 5},
		{value.New().SetBytes([]byte{1, 2, 3}), 3},
		{value.New().SetList([]*value.Value{value.New(), value.New()}), 2},
	}

	for _, c := range cases {
		if got := c.v.Size(); got != c.want {
			t.Fatalf("Size() = %d, want %d for kind %s", got, c.want, c.v.Kind())
		}
	}
}

func TestMutateDiscardsPreviousVariant(t *testing.T) {
	v := value.New().SetList([]*value.Value{value.New().SetInteger(1)})
	v.SetString("now a string")

	if v.Kind() != value.KindString || len(v.List()) != 0 {
		t.Fatalf("expected mutate to fully replace variant, got kind=%s list=%v", v.Kind(), v.List())
	}
}

func TestDictionaryFirstMatchWins(t *testing.T) {
	d := value.New().SetDictionary([]value.Pair{
		{Key: "k", Val: value.New().SetInteger(1)},
		{Key: "k", Val: value.New().SetInteger(2)},
	})

	if idx := d.GetKeyIndex("k", 0); idx != 0 {
		t.Fatalf("expected first match at index 0, got %d", idx)
	}
	if got := d.ByKey("k").Integer(); got != 1 {
		t.Fatalf("ByKey should resolve to first match, got %d", got)
	}
}

func TestCopyIsDeepAndIndependent(t *testing.T) {
	orig := value.New().SetList([]*value.Value{value.New().SetString("a")})
	clone := orig.Copy()

	clone.List()[0].SetString("b")

	if orig.List()[0].RawString() != "a" {
		t.Fatalf("mutating the copy must not affect the original")
	}
	if !value.Equal(orig, orig.Copy()) {
		t.Fatalf("a value must equal its own copy")
	}
}

func TestRenderQuotesAndEscapes(t *testing.T) {
	s := value.New().SetString("a\"b\x09c")
	want := "\"a\\\"b\\u0009c\""
	if got := s.Render(); got != want {
		t.Fatalf("unexpected render: got %s, want %s", got, want)
	}

	n := value.New().SetStructure('N', []*value.Value{value.New().SetInteger(1)})
	namer := func(sig byte) (string, bool) {
		if sig == 'N' {
			return "Node", true
		}
		return "", false
	}
	if got := n.RenderNamed(namer); got != "Node(1)" {
		t.Fatalf("unexpected structure render: %s", got)
	}
}

func TestResizeListNullsNewElements(t *testing.T) {
	v := value.New().SetList([]*value.Value{value.New().SetInteger(1)})
	v.ResizeList(3)

	if v.Size() != 3 {
		t.Fatalf("expected size 3, got %d", v.Size())
	}
	if !v.List()[1].IsNull() || !v.List()[2].IsNull() {
		t.Fatalf("expected grown elements to be Null")
	}

	v.ResizeList(1)
	if v.Size() != 1 {
		t.Fatalf("expected shrink to size 1, got %d", v.Size())
	}
}
