// Package bits implements the bit-level transport and the two variable-length
// codes (Rice and phased-in/truncated-binary) used by the channel coder. Bit
// order is MSB-first within each emitted byte, matching the container's wire
// format.
package bits

import (
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// A Sink is a bit-granular writer backed by a byte-granular io.Writer. Bits
// accumulate in a partial byte until 8 are buffered, at which point the byte
// is emitted; Flush pads any remainder with zeros.
//
// ref: spec.md section 4.1 (BitSink)
type Sink struct {
	bw *bitio.Writer
}

// NewSink returns a Sink that writes packed bits to w.
func NewSink(w io.Writer) *Sink {
	return &Sink{bw: bitio.NewWriter(w)}
}

// PushBit appends a single bit.
func (s *Sink) PushBit(b bool) error {
	if err := s.bw.WriteBool(b); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// PushBits appends the n least-significant bits of value, most-significant
// bit first. n must be in [0, 64].
func (s *Sink) PushBits(value uint64, n uint) error {
	if n == 0 {
		return nil
	}
	if err := s.bw.WriteBits(value, uint8(n)); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// WriteBytes writes p directly to the underlying writer. It is only valid
// while the Sink is byte-aligned, which holds at the very start of a stream
// before any PushBit/PushBits call — the header is written this way.
func (s *Sink) WriteBytes(p []byte) error {
	if _, err := s.bw.Write(p); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// Flush zero-pads any buffered bits to the next byte boundary and emits the
// final byte. It must be called exactly once, after the last push. The Sink
// must not be used afterwards.
func (s *Sink) Flush() error {
	if err := s.bw.Close(); err != nil {
		return errutil.Err(err)
	}
	return nil
}
