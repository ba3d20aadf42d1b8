package loop

import (
	"slices"
	"time"

	"github.com/kamstrup/intmap"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/random"
	"github.com/mcoot/tetrisgame-go/internal/model"
)

// Particle tuning for line-clear bursts
const (
	ParticlesPerCell = 5
	// ParticleDecay is life lost per second; a particle starts with life 1
	ParticleDecay = 1.2
	// ParticleMaxSpeed bounds each velocity component, in cells per second
	ParticleMaxSpeed = 2.0
)

// Particle is a short-lived visual effect in board coordinates (cells,
// fractional). It is never part of the game state.
type Particle struct {
	ID    uint32
	X     float64
	Y     float64
	VX    float64
	VY    float64
	Life  float64
	Color model.Cell
}

// Effects tracks the particles spawned by line clears
type Effects struct {
	random    random.Random
	particles *intmap.Map[uint32, *Particle]
	nextID    uint32
}

// NewEffects creates an empty tracker
func NewEffects(random random.Random) *Effects {
	return &Effects{
		random:    random,
		particles: intmap.New[uint32, *Particle](64),
	}
}

// SpawnLineClear emits a burst for every occupied cell of the cleared rows
func (e *Effects) SpawnLineClear(rows []int, cells [][model.BoardCols]model.Cell) {
	for i, row := range rows {
		if i >= len(cells) {
			break
		}
		for col, color := range cells[i] {
			if color.IsEmpty() {
				continue
			}
			for n := 0; n < ParticlesPerCell; n++ {
				e.nextID++
				e.particles.Put(e.nextID, &Particle{
					ID:    e.nextID,
					X:     float64(col) + 0.5,
					Y:     float64(row) + 0.5,
					VX:    (e.random.Float64() - 0.5) * 2 * ParticleMaxSpeed,
					VY:    (e.random.Float64() - 0.5) * 2 * ParticleMaxSpeed,
					Life:  1,
					Color: color,
				})
			}
		}
	}
}

// Advance moves and ages every particle, removing the expired ones
func (e *Effects) Advance(delta time.Duration) {
	if delta <= 0 || e.particles.Len() == 0 {
		return
	}
	seconds := delta.Seconds()
	var expired []uint32
	e.particles.ForEach(func(id uint32, p *Particle) bool {
		p.X += p.VX * seconds
		p.Y += p.VY * seconds
		p.Life -= ParticleDecay * seconds
		if p.Life <= 0 {
			expired = append(expired, id)
		}
		return true
	})
	for _, id := range expired {
		e.particles.Del(id)
	}
}

// Len returns the number of live particles
func (e *Effects) Len() int {
	return e.particles.Len()
}

// Particles returns copies of the live particles in spawn order
func (e *Effects) Particles() []Particle {
	out := make([]Particle, 0, e.particles.Len())
	e.particles.ForEach(func(_ uint32, p *Particle) bool {
		out = append(out, *p)
		return true
	})
	slices.SortFunc(out, func(a, b Particle) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}

// Clear removes every particle
func (e *Effects) Clear() {
	e.particles.Clear()
}
