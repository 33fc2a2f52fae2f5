package rng

import (
	"context"
	"fmt"
	"math/rand/v2"

	"penaltysim/internal/errors"
	"penaltysim/ports"

	"gonum.org/v1/gonum/stat/distuv"
)

// SeededRNG implements ports.RNGPort with PCG sources
type SeededRNG struct{}

// NewSeededRNG creates a seeded RNG adapter
func NewSeededRNG() *SeededRNG {
	return &SeededRNG{}
}

// Stream creates a deterministic source for one iteration of a season run.
// The iteration index goes into the PCG stream selector so no two
// iterations of the same season draw from the same sequence.
func (r *SeededRNG) Stream(ctx context.Context, season string, iteration int, baseSeed uint64) (rand.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := baseSeed
	if season != "" {
		seed += uint64(hashString(season))
	}
	return rand.NewPCG(seed, uint64(iteration)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2
	}
	return hash
}

// BernoulliKicker scores each kick with probability P
type BernoulliKicker struct {
	dist distuv.Bernoulli
}

// NewBernoulliKicker creates a kicker with success probability p drawing from src
func NewBernoulliKicker(p float64, src rand.Source) *BernoulliKicker {
	return &BernoulliKicker{dist: distuv.Bernoulli{P: p, Src: src}}
}

// Kick implements ports.Kicker
func (k *BernoulliKicker) Kick() bool {
	return k.dist.Rand() == 1
}

// KickerSource builds one fair BernoulliKicker per iteration from an RNGPort
type KickerSource struct {
	rng         ports.RNGPort
	baseSeed    uint64
	probability float64
}

// NewKickerSource creates a source of fair kickers
func NewKickerSource(rngPort ports.RNGPort, baseSeed uint64) *KickerSource {
	return &KickerSource{rng: rngPort, baseSeed: baseSeed, probability: 0.5}
}

// WithProbability returns a copy scoring kicks with probability p. p must
// lie strictly between 0 and 1: at either bound both sides always match and
// sudden death never ends.
func (s *KickerSource) WithProbability(p float64) (*KickerSource, error) {
	if !(p > 0 && p < 1) {
		return nil, errors.ConfigInvalid(fmt.Sprintf("kick probability must be in (0,1), got %v", p))
	}
	c := *s
	c.probability = p
	return &c, nil
}

// Kicker implements ports.KickerSource
func (s *KickerSource) Kicker(ctx context.Context, season string, iteration int) (ports.Kicker, error) {
	src, err := s.rng.Stream(ctx, season, iteration, s.baseSeed)
	if err != nil {
		return nil, err
	}
	return NewBernoulliKicker(s.probability, src), nil
}
