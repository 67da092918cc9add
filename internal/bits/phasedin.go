package bits

import "github.com/mewkiz/pkg/errutil"

// ErrMalformedCodeword reports a decoded phased-in index outside its
// alphabet; the channel coder also returns it for a Rice residual that
// reconstructs a sample outside the representable range. Higher layers check
// for it with errors.Is and surface it as a decompression error.
var ErrMalformedCodeword = errutil.Newf("bits: malformed codeword")

// log2Floor returns floor(log2(n)) for n >= 1.
func log2Floor(n uint64) uint {
	var m uint
	for n > 1 {
		n >>= 1
		m++
	}
	return m
}

// WritePhasedIn encodes v, an index into an alphabet of size n (v in [0,
// n-1], n >= 1), using the truncated/phased-in binary code: values are
// rotated so that the run of values coded in the fewer, m-bit codewords
// falls where the rotation puts it, and the remaining values take m+1-bit
// codewords.
//
// ref: spec.md section 4.2
func (s *Sink) WritePhasedIn(v, n uint64) error {
	if n <= 1 {
		return nil
	}
	m := log2Floor(n)
	if n == uint64(1)<<m {
		// Power-of-two alphabet: every codeword is m bits, no rotation needed.
		return s.PushBits(v, m)
	}
	countLong := n - (uint64(1)<<(m+1) - n) // |A|
	rotated := (v + countLong/2) % n
	if rotated < 2*countLong {
		return s.PushBits(rotated, m+1)
	}
	return s.PushBits(rotated-countLong, m)
}

// ReadPhasedIn decodes a phased-in codeword for an alphabet of size n (n >=
// 1) and returns the recovered index in [0, n-1]. It returns
// ErrMalformedCodeword if the bits decode to an index outside that range.
func (s *Source) ReadPhasedIn(n uint64) (uint64, error) {
	if n <= 1 {
		return 0, nil
	}
	m := log2Floor(n)
	if n == uint64(1)<<m {
		return s.PullBits(m)
	}
	countLong := n - (uint64(1)<<(m+1) - n) // |A|
	x, err := s.PullBits(m)
	if err != nil {
		return 0, errutil.Err(err)
	}
	var rotated uint64
	if x < countLong {
		b, err := s.PullBit()
		if err != nil {
			return 0, errutil.Err(err)
		}
		rotated = x << 1
		if b {
			rotated |= 1
		}
	} else {
		rotated = x + countLong
	}
	if rotated >= n {
		return 0, ErrMalformedCodeword
	}
	v := (rotated + n - countLong/2) % n
	return v, nil
}
