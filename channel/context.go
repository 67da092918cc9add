package channel

import "github.com/felics-go/flics/internal/bits"

// halveThreshold is the lazy-rescale trigger: once the cheapest candidate in
// a context's row would cost at least this many accumulated bits, every
// entry in the row is halved.
//
// ref: spec.md section 4.4 (adaptive selector)
const halveThreshold = 1024

// contextModel tracks, per context (indexed by the predictor's local
// gradient Δ), the running Rice code length each candidate K in the plane's
// K-set would have produced so far. getK always returns the cheapest
// candidate, ties going to the largest K.
type contextModel struct {
	kset  []uint
	table [][]uint64 // table[delta][i] is the accumulated cost of kset[i]
}

func newContextModel(depth uint) *contextModel {
	kset := riceKSet(depth)
	maxDelta := uint64(1)<<depth - 1
	table := make([][]uint64, maxDelta+1)
	for i := range table {
		table[i] = make([]uint64, len(kset))
	}
	return &contextModel{kset: kset, table: table}
}

// getK returns the current best Rice parameter for context delta.
func (m *contextModel) getK(delta uint64) uint {
	row := m.table[delta]
	bestIdx := 0
	best := row[0]
	for i := 1; i < len(row); i++ {
		if row[i] <= best {
			best = row[i]
			bestIdx = i
		}
	}
	return m.kset[bestIdx]
}

// update charges context delta's row for having coded value, then rescales
// the row if its cheapest entry has grown past halveThreshold.
func (m *contextModel) update(delta, value uint64) {
	row := m.table[delta]
	var min uint64
	for i, k := range m.kset {
		row[i] += bits.RiceLength(value, k)
		if i == 0 || row[i] < min {
			min = row[i]
		}
	}
	if min >= halveThreshold {
		for i := range row {
			row[i] >>= 1
		}
	}
}
