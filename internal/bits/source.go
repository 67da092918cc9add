package bits

import (
	"io"

	"github.com/icza/bitio"
	"github.com/mewkiz/pkg/errutil"
)

// A Source is a bit-granular reader backed by a byte-granular io.Reader, the
// dual of Sink.
//
// ref: spec.md section 4.1 (BitSource)
type Source struct {
	br *bitio.Reader
}

// NewSource returns a Source that reads packed bits from r.
func NewSource(r io.Reader) *Source {
	return &Source{br: bitio.NewReader(r)}
}

// PullBit reads and returns a single bit.
func (s *Source) PullBit() (bool, error) {
	b, err := s.br.ReadBool()
	if err != nil {
		return false, errutil.Err(err)
	}
	return b, nil
}

// PullBits reads and returns n bits as an unsigned integer, most-significant
// bit first. n must be in [0, 64].
func (s *Source) PullBits(n uint) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	x, err := s.br.ReadBits(uint8(n))
	if err != nil {
		return 0, errutil.Err(err)
	}
	return x, nil
}
