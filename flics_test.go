package flics_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/felics-go/flics"
)

func roundTrip(t *testing.T, md flics.Metadata, pixels []byte) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := flics.Compress(buf, md, pixels); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	gotMD, gotPixels, err := flics.Decompress(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if gotMD != md {
		t.Fatalf("metadata = %+v, want %+v", gotMD, md)
	}
	if !bytes.Equal(gotPixels, pixels) {
		t.Fatalf("pixels = %v, want %v", gotPixels, pixels)
	}
	return buf.Bytes()
}

func TestRoundTripGray8Single(t *testing.T) {
	// S1.
	md := flics.Metadata{ColorType: flics.Gray, Depth: flics.Depth8, Width: 1, Height: 1}
	stream := roundTrip(t, md, []byte{0x42})
	if !bytes.Equal(stream[:4], flics.Signature[:]) {
		t.Fatalf("signature = %v, want %v", stream[:4], flics.Signature)
	}
	if len(stream) != 14+1 {
		t.Fatalf("stream length = %d, want 15", len(stream))
	}
	if stream[14] != 0x42 {
		t.Fatalf("payload byte = %#02x, want 0x42", stream[14])
	}
}

func TestRoundTripGray8Pair(t *testing.T) {
	// S2.
	md := flics.Metadata{ColorType: flics.Gray, Depth: flics.Depth8, Width: 1, Height: 2}
	stream := roundTrip(t, md, []byte{0x10, 0x20})
	if !bytes.Equal(stream[14:16], []byte{0x10, 0x20}) {
		t.Fatalf("payload = %v, want [0x10 0x20]", stream[14:16])
	}
}

func TestRoundTripGray16Pair(t *testing.T) {
	// S4.
	md := flics.Metadata{ColorType: flics.Gray, Depth: flics.Depth16, Width: 1, Height: 2}
	stream := roundTrip(t, md, []byte{0x01, 0x00, 0x01, 0x02})
	if !bytes.Equal(stream[14:18], []byte{0x01, 0x00, 0x01, 0x02}) {
		t.Fatalf("payload = %v, want [0x01 0x00 0x01 0x02]", stream[14:18])
	}
}

func TestRoundTripGray8InRangePredicted(t *testing.T) {
	// S3.
	md := flics.Metadata{ColorType: flics.Gray, Depth: flics.Depth8, Width: 3, Height: 1}
	roundTrip(t, md, []byte{0x10, 0x20, 0x18})
}

func TestRoundTripGray8BelowRange(t *testing.T) {
	// S5.
	md := flics.Metadata{ColorType: flics.Gray, Depth: flics.Depth8, Width: 3, Height: 1}
	roundTrip(t, md, []byte{0x80, 0x80, 0x00})
}

func TestRoundTripSingleColumnTallImage(t *testing.T) {
	md := flics.Metadata{ColorType: flics.Gray, Depth: flics.Depth8, Width: 1, Height: 5}
	roundTrip(t, md, []byte{10, 50, 30, 30, 0})
}

func TestRoundTripRGBSingleColumnTallImage(t *testing.T) {
	md := flics.Metadata{ColorType: flics.RGB, Depth: flics.Depth8, Width: 1, Height: 4}
	pixels := []byte{
		231, 27, 30,
		10, 200, 90,
		10, 200, 90,
		0, 0, 0,
	}
	roundTrip(t, md, pixels)
}

func TestRoundTripRGB8Single(t *testing.T) {
	// S6.
	md := flics.Metadata{ColorType: flics.RGB, Depth: flics.Depth8, Width: 1, Height: 1}
	roundTrip(t, md, []byte{231, 27, 30})
}

func TestRoundTripRGB16Image(t *testing.T) {
	md := flics.Metadata{ColorType: flics.RGB, Depth: flics.Depth16, Width: 4, Height: 3}
	pixels := make([]byte, 4*3*3*2)
	for i := range pixels {
		pixels[i] = byte((i*37 + 11) % 256)
	}
	roundTrip(t, md, pixels)
}

func TestCompressIsDeterministic(t *testing.T) {
	md := flics.Metadata{ColorType: flics.RGB, Depth: flics.Depth8, Width: 5, Height: 4}
	pixels := make([]byte, 5*4*3)
	for i := range pixels {
		pixels[i] = byte(i * 7)
	}
	var a, b bytes.Buffer
	if err := flics.Compress(&a, md, pixels); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if err := flics.Compress(&b, md, pixels); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("two Compress calls on the same input produced different streams")
	}
}

func TestReadHeaderDoesNotConsumePayload(t *testing.T) {
	md := flics.Metadata{ColorType: flics.Gray, Depth: flics.Depth8, Width: 3, Height: 1}
	buf := new(bytes.Buffer)
	if err := flics.Compress(buf, md, []byte{0x10, 0x20, 0x18}); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	full := buf.Bytes()

	r := bytes.NewReader(full)
	gotMD, err := flics.ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if gotMD != md {
		t.Fatalf("metadata = %+v, want %+v", gotMD, md)
	}
	if r.Len() != len(full)-14 {
		t.Fatalf("ReadHeader consumed %d bytes, want exactly 14", len(full)-r.Len())
	}
}

func TestDecompressRejectsBadSignature(t *testing.T) {
	stream := append([]byte("XXXX"), make([]byte, 10)...)
	_, _, err := flics.Decompress(bytes.NewReader(stream))
	var derr *flics.DecompressError
	if !errors.As(err, &derr) || derr.Kind != flics.BadSignature {
		t.Fatalf("err = %v, want BadSignature", err)
	}
}

func TestDecompressRejectsUnsupportedColorType(t *testing.T) {
	stream := append([]byte("FLCS"), 0x02, 0x00, 0, 0, 0, 1, 0, 0, 0, 1)
	_, _, err := flics.Decompress(bytes.NewReader(stream))
	var derr *flics.DecompressError
	if !errors.As(err, &derr) || derr.Kind != flics.UnsupportedColorType {
		t.Fatalf("err = %v, want UnsupportedColorType", err)
	}
}

func TestDecompressRejectsZeroDimension(t *testing.T) {
	stream := append([]byte("FLCS"), 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 1)
	_, _, err := flics.Decompress(bytes.NewReader(stream))
	var derr *flics.DecompressError
	if !errors.As(err, &derr) || derr.Kind != flics.ZeroDimension {
		t.Fatalf("err = %v, want ZeroDimension", err)
	}
}

func TestDecompressRejectsTruncatedPayload(t *testing.T) {
	md := flics.Metadata{ColorType: flics.Gray, Depth: flics.Depth8, Width: 3, Height: 3}
	pixels := make([]byte, 9)
	buf := new(bytes.Buffer)
	if err := flics.Compress(buf, md, pixels); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-1]
	_, _, err := flics.Decompress(bytes.NewReader(truncated))
	var derr *flics.DecompressError
	if !errors.As(err, &derr) || derr.Kind != flics.Truncated {
		t.Fatalf("err = %v, want Truncated", err)
	}
}

func TestCompressPanicsOnWrongBufferLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Compress did not panic on a mis-sized pixel buffer")
		}
	}()
	md := flics.Metadata{ColorType: flics.Gray, Depth: flics.Depth8, Width: 2, Height: 2}
	_ = flics.Compress(new(bytes.Buffer), md, []byte{1, 2, 3})
}
