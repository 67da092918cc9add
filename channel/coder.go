package channel

import (
	"github.com/felics-go/flics/internal/bits"
	"github.com/mewkiz/pkg/errutil"
)

// Encode writes buf's samples to sink in raster order: the first two
// samples verbatim, every later sample predicted from its two already-coded
// neighbors and coded as either an in-range phased-in index or an
// out-of-range Rice-coded escape.
//
// ref: spec.md section 4.5
func Encode(sink *bits.Sink, buf *Buffer) error {
	n := buf.Width * buf.Height
	if n == 0 {
		return nil
	}
	if err := sink.PushBits(uint64(buf.Samples[0]), buf.Depth); err != nil {
		return errutil.Err(err)
	}
	if n == 1 {
		return nil
	}
	if err := sink.PushBits(uint64(buf.Samples[1]), buf.Depth); err != nil {
		return errutil.Err(err)
	}

	model := newContextModel(buf.Depth)
	for idx := 2; idx < n; idx++ {
		row, col := idx/buf.Width, idx%buf.Width
		aPos, bPos := neighborPositions(row, col, buf.Width)
		a, b := buf.at(aPos[0], aPos[1]), buf.at(bPos[0], bPos[1])
		l, h := a, b
		if l > h {
			l, h = h, l
		}
		delta := uint64(h - l)
		p := buf.at(row, col)

		switch {
		case p >= l && p <= h:
			if err := sink.PushBit(true); err != nil {
				return errutil.Err(err)
			}
			if err := sink.WritePhasedIn(uint64(p-l), delta+1); err != nil {
				return errutil.Err(err)
			}
		case p < l:
			if err := pushMarker(sink, false, false); err != nil {
				return errutil.Err(err)
			}
			k := model.getK(delta)
			v := uint64(l - p - 1)
			if err := sink.WriteRice(v, k); err != nil {
				return errutil.Err(err)
			}
			model.update(delta, v)
		default: // p > h
			if err := pushMarker(sink, false, true); err != nil {
				return errutil.Err(err)
			}
			k := model.getK(delta)
			v := uint64(p - h - 1)
			if err := sink.WriteRice(v, k); err != nil {
				return errutil.Err(err)
			}
			model.update(delta, v)
		}
	}
	return nil
}

func pushMarker(sink *bits.Sink, first, second bool) error {
	if err := sink.PushBit(first); err != nil {
		return err
	}
	return sink.PushBit(second)
}

// Decode reads width*height samples of the given coding depth from source
// and returns the reconstructed plane, the inverse of Encode.
func Decode(source *bits.Source, width, height int, depth uint) (*Buffer, error) {
	n := width * height
	buf := NewBuffer(width, height, depth)
	if n == 0 {
		return buf, nil
	}
	maxSample := int64(1)<<depth - 1

	v0, err := source.PullBits(depth)
	if err != nil {
		return nil, err
	}
	buf.Samples[0] = int64(v0)
	if n == 1 {
		return buf, nil
	}
	v1, err := source.PullBits(depth)
	if err != nil {
		return nil, err
	}
	buf.Samples[1] = int64(v1)

	model := newContextModel(depth)
	for idx := 2; idx < n; idx++ {
		row, col := idx/width, idx%width
		aPos, bPos := neighborPositions(row, col, width)
		a, b := buf.at(aPos[0], aPos[1]), buf.at(bPos[0], bPos[1])
		l, h := a, b
		if l > h {
			l, h = h, l
		}
		delta := uint64(h - l)

		inRange, err := source.PullBit()
		if err != nil {
			return nil, err
		}
		var p int64
		if inRange {
			off, err := source.ReadPhasedIn(delta + 1)
			if err != nil {
				return nil, err
			}
			p = l + int64(off)
		} else {
			above, err := source.PullBit()
			if err != nil {
				return nil, err
			}
			k := model.getK(delta)
			v, err := source.ReadRice(k)
			if err != nil {
				return nil, err
			}
			if above {
				p = h + int64(v) + 1
			} else {
				p = l - int64(v) - 1
			}
			if p < 0 || p > maxSample {
				return nil, bits.ErrMalformedCodeword
			}
			model.update(delta, v)
		}
		buf.set(row, col, p)
	}
	return buf, nil
}
