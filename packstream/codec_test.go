package packstream_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nabbar/bolt/buffer"
	"github.com/nabbar/bolt/packstream"
	"github.com/nabbar/bolt/value"
)

func roundTrip(t *testing.T, v *value.Value) *value.Value {
	t.Helper()

	buf := buffer.New(16)
	if err := packstream.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	dec := packstream.NewDecoder(buf, func(sig byte) bool { return sig == 'N' })
	out, err := dec.Decode()
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return out
}

func TestTinyIntRoundTrip(t *testing.T) {
	for _, i := range []int64{0, 1, 127, -1, -16} {
		v := roundTrip(t, value.New().SetInteger(i))
		if v.Integer() != i {
			t.Fatalf("integer %d round-tripped as %d", i, v.Integer())
		}
	}
}

func TestTinyIntUsesOneByteMarker(t *testing.T) {
	buf := buffer.New(4)
	_ = packstream.NewEncoder(buf).Encode(value.New().SetInteger(42))
	if buf.Unloadable() != 1 {
		t.Fatalf("expected 1-byte encoding for tiny int, got %d bytes", buf.Unloadable())
	}
}

func TestLargeStringRoundTrip(t *testing.T) {
	s := strings.Repeat("a", 70000)
	v := roundTrip(t, value.New().SetString(s))
	if v.RawString() != s {
		t.Fatalf("large string did not round-trip, got length %d", len(v.RawString()))
	}
}

func TestListAndDictRoundTrip(t *testing.T) {
	l := value.New().SetList([]*value.Value{value.New().SetInteger(1), value.New().SetString("x")})
	out := roundTrip(t, l)
	if out.Size() != 2 || out.List()[1].RawString() != "x" {
		t.Fatalf("list did not round-trip: %s", out.Render())
	}

	d := value.New().SetDictionary([]value.Pair{{Key: "a", Val: value.New().SetInteger(1)}})
	outD := roundTrip(t, d)
	if outD.ByKey("a").Integer() != 1 {
		t.Fatalf("dict did not round-trip: %s", outD.Render())
	}
}

func TestStructureRoundTripWithAllowedSignature(t *testing.T) {
	s := value.New().SetStructure('N', []*value.Value{value.New().SetInteger(7)})
	out := roundTrip(t, s)
	if out.Signature() != 'N' || out.Fields()[0].Integer() != 7 {
		t.Fatalf("structure did not round-trip: %s", out.Render())
	}
}

func TestDisallowedSignatureRejected(t *testing.T) {
	buf := buffer.New(8)
	_ = packstream.NewEncoder(buf).Encode(value.New().SetStructure('Z', nil))

	dec := packstream.NewDecoder(buf, func(sig byte) bool { return sig == 'N' })
	if _, err := dec.Decode(); err == nil {
		t.Fatalf("expected decode to reject disallowed signature")
	}
}

func TestChunkedFramingSplitsAtMaxSizeAndTerminates(t *testing.T) {
	msg := bytes.Repeat([]byte{0x2A}, packstream.MaxChunkSize+10)

	var wire bytes.Buffer
	if err := packstream.WriteChunked(&wire, msg); err != nil {
		t.Fatalf("write chunked failed: %v", err)
	}

	raw := wire.Bytes()
	if len(raw) != 2+packstream.MaxChunkSize+2+10+2 {
		t.Fatalf("unexpected wire length %d", len(raw))
	}
	if raw[0] != 0xFF || raw[1] != 0xFF {
		t.Fatalf("expected first chunk header FF FF, got %02X %02X", raw[0], raw[1])
	}
	second := 2 + packstream.MaxChunkSize
	if raw[second] != 0x00 || raw[second+1] != 0x0A {
		t.Fatalf("expected second chunk header 00 0A, got %02X %02X", raw[second], raw[second+1])
	}
	if raw[len(raw)-2] != 0x00 || raw[len(raw)-1] != 0x00 {
		t.Fatalf("expected a 00 00 terminator chunk")
	}

	got, err := packstream.ReadChunked(&wire)
	if err != nil {
		t.Fatalf("read chunked failed: %v", err)
	}
	if !bytes.Equal(got, msg) {
		t.Fatalf("reassembled message mismatch, got %d bytes want %d", len(got), len(msg))
	}
}
