// Package trace provides an optional wait-state decorator for bus.Bus,
// modeling GBA game-pak ROM access timing (distinct non-sequential and
// sequential costs) as an Akita cache-style hit/miss classification rather
// than a literal WAITCNT lookup table.
//
// This package is never required by cpu.CPU: the core's own Non-goals
// explicitly exclude modeling cache, MMU, or write-buffer behavior. Bus is
// a decorator a host can wrap its own bus.Bus in when it wants per-region
// timing without teaching the core anything about memory regions.
package trace

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/armcore/arm7tdmi/bus"
)

// Config describes one memory region's wait-state behavior, shaped after
// the teacher's timing/cache.Config (Size/Associativity/BlockSize plus
// Hit/MissLatency), substituting GBA game-pak wait-state costs for Apple M2
// L1/L2/L3 latencies.
type Config struct {
	// Base is the first address this region covers (inclusive).
	Base uint32
	// Size is the region's length in bytes.
	Size uint32
	// Associativity is the number of ways per set in the classification
	// directory.
	Associativity int
	// BlockSize is the classification granularity in bytes, standing in
	// for the game-pak prefetch buffer's burst size.
	BlockSize int
	// HitLatency is the extra ICycle cost charged on a sequential access
	// that lands in an already-resident block (an "S-cycle" access).
	HitLatency int
	// MissLatency is the extra ICycle cost charged when the access is
	// non-sequential or falls outside the resident block (an "N-cycle"
	// access).
	MissLatency int
}

// DefaultGamePakConfig returns wait-state defaults modeling a GBA cartridge
// ROM region at wait-state bank 0 (addresses 0x08000000-0x09FFFFFF) with
// typical default WAITCNT timings: 4 cycles non-sequential, 2 sequential.
func DefaultGamePakConfig() Config {
	return Config{
		Base:          0x08000000,
		Size:          0x02000000,
		Associativity: 4,
		BlockSize:     64,
		HitLatency:    2,
		MissLatency:   4,
	}
}

// DefaultGamePakConfigWS1 models wait-state bank 1 (0x0A000000-0x0BFFFFFF),
// one cycle slower to fetch non-sequentially than bank 0 by default.
func DefaultGamePakConfigWS1() Config {
	cfg := DefaultGamePakConfig()
	cfg.Base = 0x0A000000
	cfg.MissLatency = 5
	return cfg
}

// Bus wraps a bus.Bus, charging extra ICycle cost for accesses that fall
// within a configured region, classified hit/miss against an Akita
// directory the way timing/cache.Cache classifies M2 L1 accesses.
//
// Grounded on the teacher's timing/cache.Cache: same directory/dataStore-
// free classification shape (this decorator only needs hit/miss, not the
// backing data itself, since the wrapped bus.Bus already owns the data),
// same Config-per-region idea generalized from "one cache level" to "one
// wait-state bank".
type Bus struct {
	bus.Bus

	regions []region
}

type region struct {
	cfg       Config
	directory *akitacache.DirectoryImpl
}

// New wraps inner, charging wait-state cost for each configured region in
// addition to whatever ICycle(0) inner itself issues.
func New(inner bus.Bus, configs ...Config) *Bus {
	b := &Bus{Bus: inner}
	for _, cfg := range configs {
		numSets := (int(cfg.Size) / cfg.BlockSize) / cfg.Associativity
		if numSets < 1 {
			numSets = 1
		}
		b.regions = append(b.regions, region{
			cfg: cfg,
			directory: akitacache.NewDirectory(
				numSets,
				cfg.Associativity,
				cfg.BlockSize,
				akitacache.NewLRUVictimFinder(),
			),
		})
	}
	return b
}

// Read classifies addr against the region covering it (if any), charges the
// resulting wait-state cost via ICycle, and forwards the access unchanged.
func (b *Bus) Read(width uint8, addr uint32, isCode, seq bool) uint32 {
	b.chargeAccess(addr, seq)
	return b.Bus.Read(width, addr, isCode, seq)
}

// Write classifies addr exactly as Read does before forwarding the access.
func (b *Bus) Write(width uint8, addr uint32, value uint32, seq bool) {
	b.chargeAccess(addr, seq)
	b.Bus.Write(width, addr, value, seq)
}

func (b *Bus) chargeAccess(addr uint32, seq bool) {
	r := b.regionFor(addr)
	if r == nil {
		return
	}

	blockAddr := uint64(addr) - uint64(r.cfg.Base)
	blockAddr -= blockAddr % uint64(r.cfg.BlockSize)

	block := r.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		r.directory.Visit(block)
		if seq {
			b.Bus.ICycle(r.cfg.HitLatency)
			return
		}
		b.Bus.ICycle(r.cfg.MissLatency)
		return
	}

	victim := r.directory.FindVictim(blockAddr)
	if victim != nil {
		victim.Tag = blockAddr
		victim.IsValid = true
		r.directory.Visit(victim)
	}
	b.Bus.ICycle(r.cfg.MissLatency)
}

func (b *Bus) regionFor(addr uint32) *region {
	for i := range b.regions {
		cfg := b.regions[i].cfg
		if addr >= cfg.Base && addr < cfg.Base+cfg.Size {
			return &b.regions[i]
		}
	}
	return nil
}
