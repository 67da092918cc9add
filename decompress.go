package flics

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/felics-go/flics/channel"
	"github.com/felics-go/flics/internal/bits"
	"github.com/felics-go/flics/transform"
	pkgerrors "github.com/pkg/errors"
)

// ReadHeader reads and validates exactly the 14-byte FLCS header from r: it
// never reads past the header, so a caller can use it to sniff a stream's
// dimensions without decoding the pixel data that follows.
//
// ref: spec.md section 4.7, section 7
func ReadHeader(r io.Reader) (Metadata, error) {
	var hdr [14]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Metadata{}, &DecompressError{Kind: Truncated, Err: err}
		}
		return Metadata{}, pkgerrors.WithStack(err)
	}
	if !bytes.Equal(hdr[0:4], Signature[:]) {
		return Metadata{}, &DecompressError{Kind: BadSignature}
	}
	ct := ColorType(hdr[4])
	if ct != Gray && ct != RGB {
		return Metadata{}, &DecompressError{Kind: UnsupportedColorType, Detail: hdr[4]}
	}
	dp := Depth(hdr[5])
	if dp != Depth8 && dp != Depth16 {
		return Metadata{}, &DecompressError{Kind: UnsupportedDepth, Detail: hdr[5]}
	}
	width := binary.BigEndian.Uint32(hdr[6:10])
	height := binary.BigEndian.Uint32(hdr[10:14])
	if width == 0 || height == 0 {
		return Metadata{}, &DecompressError{Kind: ZeroDimension}
	}
	return Metadata{ColorType: ct, Depth: dp, Width: width, Height: height}, nil
}

// Decompress reads a FLCS stream from r and returns its metadata and pixel
// buffer, in the same interleaved layout Compress accepts.
func Decompress(r io.Reader) (Metadata, []byte, error) {
	md, err := ReadHeader(r)
	if err != nil {
		return Metadata{}, nil, err
	}

	source := bits.NewSource(r)
	width, height := int(md.Width), int(md.Height)
	depth := md.Depth.bits()

	if md.ColorType == Gray {
		plane, err := channel.Decode(source, width, height, depth)
		if err != nil {
			return Metadata{}, nil, wrapDecodeErr(err)
		}
		return md, channel.JoinGray(plane), nil
	}

	yPlane, err := channel.Decode(source, width, height, depth)
	if err != nil {
		return Metadata{}, nil, wrapDecodeErr(err)
	}
	coPlane, err := channel.Decode(source, width, height, depth+1)
	if err != nil {
		return Metadata{}, nil, wrapDecodeErr(err)
	}
	cgPlane, err := channel.Decode(source, width, height, depth+1)
	if err != nil {
		return Metadata{}, nil, wrapDecodeErr(err)
	}

	n := width * height
	r_, g_, b_ := make([]int64, n), make([]int64, n), make([]int64, n)
	for i := 0; i < n; i++ {
		co := transform.Unoffset(coPlane.Samples[i], depth)
		cg := transform.Unoffset(cgPlane.Samples[i], depth)
		rr, gg, bb := transform.Inverse(yPlane.Samples[i], co, cg)
		r_[i], g_[i], b_[i] = rr, gg, bb
	}
	return md, channel.JoinRGB(r_, g_, b_, depth), nil
}

// wrapDecodeErr classifies an error surfaced from the channel coder into a
// DecompressError. Codeword errors are already bits.ErrMalformedCodeword
// sentinels; I/O errors reach here wrapped by errutil.Err lower in the
// stack, which preserves Unwrap so errors.Is still finds the underlying
// io.EOF / io.ErrUnexpectedEOF. Anything else is an unexpected I/O failure
// from the underlying reader, which gets a stack trace attached the same
// way the command-layer convention does.
func wrapDecodeErr(err error) error {
	if errors.Is(err, bits.ErrMalformedCodeword) {
		return &DecompressError{Kind: MalformedCodeword, Err: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &DecompressError{Kind: Truncated, Err: err}
	}
	return pkgerrors.WithStack(err)
}
