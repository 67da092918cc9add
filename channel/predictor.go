package channel

// neighborPositions returns the raster positions of the two already-coded
// neighbors used to predict the sample at (row, col) in a plane of the
// given width. It is only called for raster index 2 and beyond; the first
// two samples of a plane are always coded verbatim, with no predictor.
//
// ref: spec.md section 4.3
func neighborPositions(row, col, width int) (a, b [2]int) {
	switch {
	case width == 1:
		// col is always 0 here; (row-1,1) would alias back to (row,0), the
		// sample currently being predicted, so both neighbors fall back to
		// the single sample directly above.
		return [2]int{row - 1, 0}, [2]int{row - 1, 0}
	case row == 0:
		return [2]int{0, col - 1}, [2]int{0, col - 2}
	case col == 0:
		return [2]int{row - 1, 0}, [2]int{row - 1, 1}
	default:
		return [2]int{row - 1, col}, [2]int{row, col - 1}
	}
}
