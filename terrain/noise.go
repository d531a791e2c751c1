package terrain

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// NoiseConfig controls the multi-octave elevation field.
type NoiseConfig struct {
	Frequency  float64 // base sample frequency, must be > 0
	Octaves    int     // number of noise layers, must be >= 1
	Falloff    float64 // amplitude multiplier per octave
	Lacunarity float64 // frequency multiplier per octave, 2 when unset
	SeaLevel   float64 // elevation threshold below which vertices are submerged
}

// DefaultNoiseConfig returns the tuning used by the CLI and server.
func DefaultNoiseConfig() NoiseConfig {
	return NoiseConfig{
		Frequency:  2.0,
		Octaves:    5,
		Falloff:    0.5,
		Lacunarity: 2.0,
		SeaLevel:   0.5,
	}
}

func (c NoiseConfig) validate(count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: point count %d, must be positive", ErrInvalidConfig, count)
	}
	if c.Frequency <= 0 {
		return fmt.Errorf("%w: frequency %g, must be positive", ErrInvalidConfig, c.Frequency)
	}
	if c.Octaves < 1 {
		return fmt.Errorf("%w: octave count %d, must be at least 1", ErrInvalidConfig, c.Octaves)
	}
	return nil
}

func (c NoiseConfig) withDefaults() NoiseConfig {
	if c.Lacunarity <= 0 {
		c.Lacunarity = 2.0
	}
	return c
}

// heightField sums Octaves layers of simplex noise, each at Lacunarity times
// the frequency and Falloff times the amplitude of the previous one.
type heightField struct {
	noise opensimplex.Noise
	cfg   NoiseConfig
}

func newHeightField(seed uint64, cfg NoiseConfig) *heightField {
	return &heightField{
		noise: opensimplex.New(int64(seed)),
		cfg:   cfg,
	}
}

// sample returns an elevation in [0, 1] for a plane coordinate.
func (f *heightField) sample(x, y float64) float64 {
	freq := f.cfg.Frequency
	amp := 1.0
	sum := 0.0
	norm := 0.0
	for o := 0; o < f.cfg.Octaves; o++ {
		sum += f.noise.Eval2(x*freq, y*freq) * amp
		norm += amp
		amp *= f.cfg.Falloff
		freq *= f.cfg.Lacunarity
	}
	v := 0.5 + 0.5*sum/norm
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return v
}

// moistureField is a secondary low-octave perlin layer sampled per cell.
// It is independent of the elevation field so coasts and rainfall do not
// correlate. The +1 seed offset keeps the two fields decorrelated while
// staying deterministic.
type moistureField struct {
	noise *perlin.Perlin
}

func newMoistureField(seed uint64) *moistureField {
	return &moistureField{
		noise: perlin.NewPerlin(2.0, 2.0, 3, int64(seed)+1),
	}
}

// sample returns moisture in [0, 1].
func (f *moistureField) sample(x, y float64) float64 {
	v := 0.5 + 0.5*f.noise.Noise2D(x*2.0, y*2.0)
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return v
}
