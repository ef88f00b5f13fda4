package bounds

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/psdrank/pkg/errors"
)

// Strategy names one bound-tightening method of the dispatcher.
type Strategy string

// Available strategies.
const (
	StrategyCutVert             Strategy = "cut-vert"
	StrategyInducedSubgraph     Strategy = "ind-subgraph"
	StrategyCliqueUpper         Strategy = "clique-upper"
	StrategySDPUpper            Strategy = "sdp-upper"
	StrategyEdgeAddition        Strategy = "edge-add"
	StrategyEdgeRemoval         Strategy = "edge-rem"
	StrategyBCDLower            Strategy = "bcd-lower"
	StrategyBCDLowerExhaustive  Strategy = "bcd-lower-exhaustive"
	StrategySDPSignedCycle      Strategy = "sdp-signed-cycle"
	StrategySDPSignedSimple     Strategy = "sdp-signed-simple"
	StrategySDPSignedExhaustive Strategy = "sdp-signed-exhaustive"
	StrategyBCDUpper            Strategy = "bcd-upper"
)

// DefaultStrategies returns the default pipeline order: cheap structural
// decompositions first, then the relaxation oracle, then the expensive
// combinatorial searches.
func DefaultStrategies() []Strategy {
	return []Strategy{
		StrategyCutVert,
		StrategyInducedSubgraph,
		StrategyCliqueUpper,
		StrategySDPUpper,
		StrategyEdgeAddition,
		StrategyBCDLowerExhaustive,
		StrategySDPSignedCycle,
		StrategyBCDUpper,
	}
}

// ValidateStrategies checks a pipeline configuration before any computation
// runs. Edge addition and edge removal recurse into each other's outputs, so
// enabling both never terminates; the combination is rejected statically.
func ValidateStrategies(strategies []Strategy) error {
	known := map[Strategy]bool{
		StrategyCutVert:             true,
		StrategyInducedSubgraph:     true,
		StrategyCliqueUpper:         true,
		StrategySDPUpper:            true,
		StrategyEdgeAddition:        true,
		StrategyEdgeRemoval:         true,
		StrategyBCDLower:            true,
		StrategyBCDLowerExhaustive:  true,
		StrategySDPSignedCycle:      true,
		StrategySDPSignedSimple:     true,
		StrategySDPSignedExhaustive: true,
		StrategyBCDUpper:            true,
	}
	hasAdd, hasRem := false, false
	for _, s := range strategies {
		if !known[s] {
			return errors.New(errors.ErrCodeInvalidConfig, "unknown strategy %q", s)
		}
		hasAdd = hasAdd || s == StrategyEdgeAddition
		hasRem = hasRem || s == StrategyEdgeRemoval
	}
	if hasAdd && hasRem {
		return errors.New(errors.ErrCodeInvalidConfig, "edge-add and edge-rem cannot both be enabled")
	}
	return nil
}

// Config is the on-disk (TOML) form of the engine configuration.
type Config struct {
	// Strategies overrides the default pipeline order when non-empty.
	Strategies []string `toml:"strategies"`

	// MaxDepth overrides the default recursion budget of 10x the vertex
	// count when positive.
	MaxDepth int `toml:"max_depth"`

	// LoadFromStore and SaveToStore toggle bound-store consultation.
	LoadFromStore *bool `toml:"load_from_store"`
	SaveToStore   *bool `toml:"save_to_store"`
}

// LoadConfig reads a TOML engine configuration and validates its strategy
// list.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if len(cfg.Strategies) > 0 {
		if err := ValidateStrategies(cfg.StrategyList()); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// StrategyList converts the raw strategy names.
func (c Config) StrategyList() []Strategy {
	out := make([]Strategy, len(c.Strategies))
	for i, s := range c.Strategies {
		out[i] = Strategy(s)
	}
	return out
}

// Apply folds the file configuration into computation options.
func (c Config) Apply(opts Options) Options {
	if len(c.Strategies) > 0 {
		opts.Strategies = c.StrategyList()
	}
	if c.MaxDepth > 0 {
		opts.MaxDepth = c.MaxDepth
	}
	if c.LoadFromStore != nil {
		opts.LoadFromStore = *c.LoadFromStore
	}
	if c.SaveToStore != nil {
		opts.SaveToStore = *c.SaveToStore
	}
	return opts
}
