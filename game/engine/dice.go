package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Source abstracts the randomness behind dice and shuffles.
// *rand.Rand satisfies it; tests inject scripted sources.
type Source interface {
	Intn(n int) int
}

// NewSeed generates a random seed using crypto/rand
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// NewSeededSource returns a deterministic source for the given seed
func NewSeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// NewRandomSource returns a source seeded from crypto/rand
func NewRandomSource() (Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSeededSource(seed), nil
}

// RollWith rolls two dice using the given source
func RollWith(src Source) DiceRoll {
	d1 := src.Intn(DiceSides) + 1
	d2 := src.Intn(DiceSides) + 1
	return DiceRoll{
		D1:       d1,
		D2:       d2,
		Total:    d1 + d2,
		IsDouble: d1 == d2,
	}
}
