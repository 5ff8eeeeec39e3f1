// Package shuffle builds reproducible play orders.
//
// A shuffled queue is fully described by its length, the index played first
// and a seed, so persisting those three values is enough to rebuild the exact
// same order after a restart.
package shuffle

import (
	"math/rand/v2"
	"slices"
)

// pcgStream is the fixed PCG increment. Changing it changes every order
// generated from a persisted seed.
const pcgStream = 0x9e3779b97f4a7c15

// Generate returns a permutation of 0..length-1 whose first element is first.
// The result depends only on (first, length, seed).
//
// If first is out of range the whole range is shuffled. length <= 0 returns
// an empty slice.
func Generate(first, length int, seed int64) []int {
	if length <= 0 {
		return []int{}
	}
	r := rand.New(rand.NewPCG(uint64(seed), pcgStream))

	order := make([]int, length)
	for i := range order {
		order[i] = i
	}

	start := 0
	if first >= 0 && first < length {
		order[0], order[first] = order[first], order[0]
		start = 1
	}
	// Fisher-Yates over the positions after the fixed first one.
	for i := length - 1; i > start; i-- {
		j := start + r.IntN(i-start+1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Order is a shuffled play order over the indexes 0..Len()-1.
type Order struct {
	seed     int64
	shuffled []int
	// position[i] is the place of index i in shuffled.
	position []int
}

// NewOrder builds the order for (first, length, seed). If first is out of
// range it falls back to Unseeded starting at index 0.
func NewOrder(first, length int, seed int64) *Order {
	if length > 0 && (first < 0 || first >= length) {
		return Unseeded(0, length)
	}
	return newOrder(Generate(first, length, seed), seed)
}

// Unseeded builds an order from a random seed. The seed is still recorded so
// the order can be persisted.
func Unseeded(first, length int) *Order {
	seed := rand.Int64()
	if length > 0 && (first < 0 || first >= length) {
		first = 0
	}
	return newOrder(Generate(first, length, seed), seed)
}

func newOrder(shuffled []int, seed int64) *Order {
	position := make([]int, len(shuffled))
	for i, index := range shuffled {
		position[index] = i
	}
	return &Order{seed: seed, shuffled: shuffled, position: position}
}

// Seed returns the seed the order was generated from.
func (o *Order) Seed() int64 { return o.seed }

// Len returns the number of indexes in the order.
func (o *Order) Len() int { return len(o.shuffled) }

// At returns the index played at position i.
func (o *Order) At(i int) int { return o.shuffled[i] }

// Indexes returns a copy of the whole order.
func (o *Order) Indexes() []int { return slices.Clone(o.shuffled) }

// First returns the first index, or -1 if the order is empty.
func (o *Order) First() int {
	if len(o.shuffled) == 0 {
		return -1
	}
	return o.shuffled[0]
}

// Last returns the last index, or -1 if the order is empty.
func (o *Order) Last() int {
	if len(o.shuffled) == 0 {
		return -1
	}
	return o.shuffled[len(o.shuffled)-1]
}

// Next returns the index played after index, or -1 at the end of the order.
func (o *Order) Next(index int) int {
	if index < 0 || index >= len(o.position) {
		return -1
	}
	p := o.position[index] + 1
	if p >= len(o.shuffled) {
		return -1
	}
	return o.shuffled[p]
}

// Previous returns the index played before index, or -1 at the start of the order.
func (o *Order) Previous(index int) int {
	if index < 0 || index >= len(o.position) {
		return -1
	}
	p := o.position[index] - 1
	if p < 0 {
		return -1
	}
	return o.shuffled[p]
}
