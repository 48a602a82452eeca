package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func decompose(amount, dustThreshold uint64) []uint64 {
	var out []uint64
	DecomposeAmountIntoDigits(amount, dustThreshold,
		func(chunk uint64) { out = append(out, chunk) },
		func(dust uint64) { out = append(out, dust) })
	return out
}

func TestDecomposeBoundaries(t *testing.T) {
	assert.Empty(t, decompose(0, 0))
	assert.Equal(t, []uint64{1}, decompose(1, 0))
	assert.Equal(t, []uint64{10}, decompose(10, 0))
	assert.Equal(t, []uint64{1_000_000}, decompose(1_000_000, 0))
	assert.Equal(t, []uint64{10_000_000_000}, decompose(10_000_000_000, 0))
}

func TestDecomposeDigits(t *testing.T) {
	assert.Equal(t, []uint64{4, 30, 200, 1000}, decompose(1234, 0))
	assert.Equal(t, []uint64{9, 90, 900}, decompose(999, 0))
	assert.Equal(t, []uint64{5, 7000}, decompose(7005, 0))
}

func TestDecomposeDustThreshold(t *testing.T) {
	// digits below the threshold accumulate into one dust chunk
	assert.Equal(t, []uint64{34, 200, 1000}, decompose(1234, 100))
	// everything dust: a single chunk carrying the full amount
	assert.Equal(t, []uint64{1234}, decompose(1234, 10_000))
}

func TestAbsoluteOutputOffsetsToRelative(t *testing.T) {
	assert.Equal(t, []uint64{5, 3, 10}, AbsoluteOutputOffsetsToRelative([]uint64{5, 8, 18}))
	assert.Equal(t, []uint64{7}, AbsoluteOutputOffsetsToRelative([]uint64{7}))
	assert.Empty(t, AbsoluteOutputOffsetsToRelative(nil))

	// strictly increasing absolutes give strictly positive deltas
	rel := AbsoluteOutputOffsetsToRelative([]uint64{2, 3, 4, 100})
	for i := 1; i < len(rel); i++ {
		assert.Positive(t, rel[i])
	}
}

func TestApplyPermutationSortsInLockstep(t *testing.T) {
	values := []int{30, 10, 40, 20}
	tags := []string{"c", "a", "d", "b"}

	order := sortPermutation(len(values), func(i, j int) bool {
		return values[i] < values[j]
	})
	applyPermutation(order, func(i, j int) {
		values[i], values[j] = values[j], values[i]
		tags[i], tags[j] = tags[j], tags[i]
	})

	assert.Equal(t, []int{10, 20, 30, 40}, values)
	assert.Equal(t, []string{"a", "b", "c", "d"}, tags)
}
