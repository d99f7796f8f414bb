package flatconfig

import (
	"github.com/hashicorp/go-hclog"
)

// Composer builds a Configuration from an ordered list of fragments.
// A Composer holds no state between calls and is safe for concurrent use.
type Composer struct {
	logger hclog.Logger
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithLogger sets the logger used to trace composition.
func WithLogger(logger hclog.Logger) ComposerOption {
	return func(c *Composer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewComposer returns a Composer. Without options it logs nothing.
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose is a shorthand for NewComposer().Compose(sources...).
func Compose(sources ...Fragment) *Configuration {
	return NewComposer().Compose(sources...)
}

// Compose applies the fragments in the order given and returns the composed
// configuration. Order is the only precedence mechanism: for any file, a rule
// set by a later matching block replaces the value set by an earlier one.
//
// Blocks are copied, so later changes to the inputs are not observed. Rule ids
// and parser options are passed through without validation.
//
// Example:
//
//	cfg := flatconfig.Compose(
//	    flatconfig.Recommended(jsProvider),
//	    flatconfig.Recommended(tsProvider),
//	    &flatconfig.ConfigBlock{Name: "overrides", Rules: overrides},
//	)
//	rules := cfg.EffectiveRules("src/index.ts")
func (c *Composer) Compose(sources ...Fragment) *Configuration {
	logger := c.logger.Named("compose")
	cfg := &Configuration{}

	// globals tracks which global block last set each rule, to report shadowing.
	globals := make(map[string]string)

	for i, src := range sources {
		if src == nil {
			continue
		}
		blocks := src.Blocks()
		logger.Trace("applying fragment", "index", i, "blocks", len(blocks))

		for _, b := range blocks {
			if b == nil {
				continue
			}
			block := b.Clone()
			cfg.blocks = append(cfg.blocks, block)

			if len(block.Files) > 0 || block.IsGlobalIgnore() {
				continue
			}
			for id := range block.Rules.All() {
				if prev, ok := globals[id]; ok {
					logger.Debug("rule overridden", "rule", id, "previous", prev, "block", blockLabel(block, len(cfg.blocks)-1))
				}
				globals[id] = blockLabel(block, len(cfg.blocks)-1)
			}
		}
	}

	logger.Debug("composed configuration", "fragments", len(sources), "blocks", len(cfg.blocks))
	return cfg
}
