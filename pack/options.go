package pack

import (
	"go.uber.org/zap"

	"modelpack/codec"
	"modelpack/dependency"
)

// Option configures a Pack at Open time.
type Option func(*Pack)

// WithLogger attaches a logger the pack uses for Debug/Warn-level
// diagnostics (dedup skips, dangling-object pruning). Never set, it
// defaults to zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(p *Pack) {
		if log != nil {
			p.log = log
		}
	}
}

// WithCodecRegistry overrides the codec registry used to dispatch Dump
// and Load. Defaults to codec.Default.
func WithCodecRegistry(r *codec.Registry) Option {
	return func(p *Pack) {
		if r != nil {
			p.codecs = r
		}
	}
}

// WithDependencyRegistry overrides the registry used to reconstruct
// context dependencies recorded in the manifest. Defaults to
// dependency.Default.
func WithDependencyRegistry(r *dependency.Registry) Option {
	return func(p *Pack) {
		if r != nil {
			p.deps = r
		}
	}
}
