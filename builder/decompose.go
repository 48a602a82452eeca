package builder

// DecomposeAmountIntoDigits splits an amount into one chunk per nonzero
// decimal digit. Digits accumulating below dustThreshold are emitted once
// through the dust handler instead.
func DecomposeAmountIntoDigits(amount, dustThreshold uint64, chunkHandler, dustHandler func(uint64)) {
	if amount == 0 {
		return
	}
	dustHandled := false
	var dust uint64
	order := uint64(1)
	for amount != 0 {
		chunk := (amount % 10) * order
		amount /= 10
		order *= 10
		if dust+chunk < dustThreshold {
			dust += chunk
			continue
		}
		if !dustHandled && dust != 0 {
			dustHandler(dust)
			dustHandled = true
		}
		if chunk != 0 {
			chunkHandler(chunk)
		}
	}
	if !dustHandled && dust != 0 {
		dustHandler(dust)
	}
}

// AbsoluteOutputOffsetsToRelative compresses ring offsets: the first entry
// stays absolute, later entries become deltas from their predecessor.
func AbsoluteOutputOffsetsToRelative(offsets []uint64) []uint64 {
	rel := make([]uint64, len(offsets))
	copy(rel, offsets)
	for i := len(rel) - 1; i > 0; i-- {
		rel[i] -= rel[i-1]
	}
	return rel
}

// sortPermutation returns the index order that sorts n elements under less
func sortPermutation(n int, less func(i, j int) bool) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// insertion sort keeps equal key images stable
	for i := 1; i < n; i++ {
		for j := i; j > 0 && less(order[j], order[j-1]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

// applyPermutation applies a sort permutation in lockstep through the swap
// callback, one cycle at a time. The permutation slice is consumed.
func applyPermutation(order []int, swap func(i, j int)) {
	for i := range order {
		current := i
		for order[current] != i {
			next := order[current]
			swap(current, next)
			order[current] = current
			current = next
		}
		order[current] = current
	}
}
