package rules

import (
	"hooklint/internal/config"
	"hooklint/internal/engine"
)

// Build assembles the enabled per-file rules from the configuration.
func Build(cfg config.Rules) []engine.Rule {
	var out []engine.Rule
	if cfg.DirectImports.Enabled {
		out = append(out, NewDirectImports(cfg.DirectImports))
	}
	if cfg.MixedArgs.Enabled {
		out = append(out, NewMixedArgs(cfg.MixedArgs))
	}
	if cfg.Signatures.Enabled {
		out = append(out, NewSignatures(cfg.Signatures))
	}
	if cfg.DunderAll.Enabled {
		out = append(out, NewDunderAll(cfg.DunderAll))
	}
	if cfg.Typing.Enabled {
		out = append(out, BuildTyping(cfg.Typing)...)
	}
	if cfg.StandardGenerics.Enabled {
		out = append(out, NewStandardGenerics(cfg.StandardGenerics))
	}
	if cfg.RuntimeProtocol.Enabled {
		out = append(out, RuntimeDataProtocol{})
	}
	return out
}
