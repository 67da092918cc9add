package flics

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/felics-go/flics/channel"
	"github.com/felics-go/flics/internal/bits"
	"github.com/felics-go/flics/transform"
	"github.com/mewkiz/pkg/errutil"
)

// Compress encodes pixels, described by md, to w as a self-describing FLCS
// stream: a 14-byte header followed by one predictively-coded plane (Gray)
// or three (RGB, coded as Y, Co, Cg after the reversible color transform).
//
// pixels must hold md.Width*md.Height samples per channel, channel
// interleaved (R,G,B,R,G,B,... for RGB; a single value per pixel for Gray),
// each sample big-endian and one or two bytes wide per md.Depth. A pixel
// buffer of the wrong length, or a zero width or height, is a caller error,
// not a representable stream defect, and Compress panics rather than
// returning an error for it.
//
// ref: spec.md section 6
func Compress(w io.Writer, md Metadata, pixels []byte) error {
	if md.Width == 0 || md.Height == 0 {
		panic("flics: zero-dimension metadata")
	}
	if want := md.pixelBufferLen(); len(pixels) != want {
		panic(fmt.Sprintf("flics: pixel buffer has %d bytes, want %d", len(pixels), want))
	}

	// Buffer the whole stream before touching w, so a failure midway through
	// encoding never leaves a partial write on the caller's writer.
	buf := new(bytes.Buffer)
	sink := bits.NewSink(buf)

	var hdr [14]byte
	copy(hdr[0:4], Signature[:])
	hdr[4] = byte(md.ColorType)
	hdr[5] = byte(md.Depth)
	binary.BigEndian.PutUint32(hdr[6:10], md.Width)
	binary.BigEndian.PutUint32(hdr[10:14], md.Height)
	if err := sink.WriteBytes(hdr[:]); err != nil {
		return errutil.Err(err)
	}

	width, height := int(md.Width), int(md.Height)
	depth := md.Depth.bits()

	if md.ColorType == Gray {
		plane := channel.SplitGray(pixels, width, height, depth)
		if err := channel.Encode(sink, plane); err != nil {
			return errutil.Err(err)
		}
	} else {
		r, g, b := channel.SplitRGB(pixels, width, height, depth)
		n := width * height
		ys := make([]int64, n)
		cos := make([]int64, n)
		cgs := make([]int64, n)
		for i := 0; i < n; i++ {
			y, co, cg := transform.Forward(r[i], g[i], b[i])
			ys[i] = y
			cos[i] = transform.Offset(co, depth)
			cgs[i] = transform.Offset(cg, depth)
		}
		planes := []*channel.Buffer{
			channel.FromSamples(width, height, depth, ys),
			channel.FromSamples(width, height, depth+1, cos),
			channel.FromSamples(width, height, depth+1, cgs),
		}
		for _, plane := range planes {
			if err := channel.Encode(sink, plane); err != nil {
				return errutil.Err(err)
			}
		}
	}

	if err := sink.Flush(); err != nil {
		return errutil.Err(err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errutil.Err(err)
	}
	return nil
}
