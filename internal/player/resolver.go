package player

import (
	"iter"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockshuffle/internal/config"
	"github.com/matzehuels/blockshuffle/pkg/blocks"
	"github.com/matzehuels/blockshuffle/pkg/shuffle"
	"github.com/matzehuels/blockshuffle/pkg/surface"
)

type table = blocks.Table[*surface.Tile]

// resolver adapts a convergence strategy to one call per frame. The sweep
// strategy keeps a pulled GenUnscramble sequence open between frames.
type resolver struct {
	name       string
	rng        *rand.Rand
	checkpoint int
	logger     *log.Logger

	canonical *table
	next      func() (bool, *table, bool)
	stop      func()
}

func newResolver(name string, rng *rand.Rand, checkpoint int, logger *log.Logger) *resolver {
	return &resolver{name: name, rng: rng, checkpoint: checkpoint, logger: logger}
}

// reset drops any open sweep and binds the resolver to canonical.
func (r *resolver) reset(canonical *table) {
	if r.stop != nil {
		r.stop()
	}
	r.next, r.stop = nil, nil
	r.canonical = canonical
}

// step advances current by one strategy call. flagged is set when a sweep
// reaches its checkpoint.
func (r *resolver) step(current *table) (done bool, next *table, flagged bool) {
	switch r.name {
	case config.ResolvePair:
		done, next = shuffle.ScrambleOne(r.canonical, current, r.rng)
		return done, next, false
	case config.ResolveSweep:
		return r.sweep(current)
	default:
		done, next = shuffle.UnscrambleRandom(r.canonical, current, r.rng)
		return done, next, false
	}
}

// sweep pulls steps until the table visibly changes. Steps that only
// confirm an already placed slot are skipped.
func (r *resolver) sweep(current *table) (bool, *table, bool) {
	if shuffle.Resolved(r.canonical, current) {
		r.reset(r.canonical)
		return true, current.Clone(), false
	}
	if r.next == nil {
		r.next, r.stop = iter.Pull2(shuffle.GenUnscramble(r.canonical, current, r.checkpoint))
	}
	for {
		flag, t, ok := r.next()
		if !ok {
			r.reset(r.canonical)
			return false, current.Clone(), false
		}
		if flag {
			r.logger.Debug("sweep checkpoint", "slot", r.checkpoint)
		}
		if flag || !blocks.Equal(t, current) {
			return false, t, flag
		}
	}
}
