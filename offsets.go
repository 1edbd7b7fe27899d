package fsb5

// offsetLengths turns cumulative offsets into lengths. offsets holds one
// entry per item followed by the total size as a sentinel. A length that is
// not positive, including one produced by a decreasing offset, fails at the
// index of its item; bad reports that index.
func offsetLengths(offsets []uint32) (lengths []uint32, bad int, ok bool) {
	if len(offsets) == 0 {
		return nil, 0, true
	}

	lengths = make([]uint32, len(offsets)-1)
	for i := range lengths {
		if offsets[i+1] <= offsets[i] {
			return nil, i, false
		}

		lengths[i] = offsets[i+1] - offsets[i]
	}

	return lengths, 0, true
}
