package bits

import "github.com/mewkiz/pkg/errutil"

// RiceLength returns the number of bits the Rice code of value with
// parameter k occupies: the unary quotient, its terminating one bit, and the
// k remainder bits.
//
// ref: spec.md section 4.2, section 4.4 (rice_length)
func RiceLength(value uint64, k uint) uint64 {
	return (value >> k) + 1 + k
}

// WriteRice encodes value as a Rice codeword with parameter k: (value>>k)
// zeros, a terminating one, then the k low-order bits of value,
// most-significant first. value must be non-negative; the codec never Rice
// codes a signed residual directly, so there is no ZigZag fold here.
func (s *Sink) WriteRice(value uint64, k uint) error {
	if err := s.writeUnary(value >> k); err != nil {
		return errutil.Err(err)
	}
	if k > 0 {
		if err := s.PushBits(value&(1<<k-1), k); err != nil {
			return errutil.Err(err)
		}
	}
	return nil
}

// writeUnary writes q zero bits followed by a single terminating one bit,
// skipping whole zero bytes at a time.
func (s *Sink) writeUnary(q uint64) error {
	for q >= 8 {
		if err := s.bw.WriteByte(0x00); err != nil {
			return errutil.Err(err)
		}
		q -= 8
	}
	if err := s.bw.WriteBits(1, uint8(q+1)); err != nil {
		return errutil.Err(err)
	}
	return nil
}

// ReadRice decodes a Rice codeword with parameter k and returns its value.
// No cap is imposed on the decoded quotient; callers must bound the result
// against the channel's representable sample range themselves.
func (s *Source) ReadRice(k uint) (uint64, error) {
	q, err := s.readUnary()
	if err != nil {
		return 0, errutil.Err(err)
	}
	var r uint64
	if k > 0 {
		r, err = s.PullBits(k)
		if err != nil {
			return 0, errutil.Err(err)
		}
	}
	return q<<k | r, nil
}

// readUnary counts leading zero bits up to and including the terminating
// one bit, returning the count of zeros.
func (s *Source) readUnary() (uint64, error) {
	var q uint64
	for {
		bit, err := s.PullBit()
		if err != nil {
			return 0, errutil.Err(err)
		}
		if bit {
			return q, nil
		}
		q++
	}
}
