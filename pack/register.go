package pack

import (
	"modelpack/codec"
	"modelpack/dependency"
)

// RegisterCodec adds a codec to the process-wide default codec registry
// used by every Pack opened without WithCodecRegistry.
func RegisterCodec(ctor codec.Constructor) {
	codec.Default.Register(ctor())
}

// RegisterDependencyType adds a context-dependency constructor to the
// process-wide default dependency registry used by every Pack opened
// without WithDependencyRegistry.
func RegisterDependencyType(tag string, ctor dependency.Constructor) {
	dependency.Default.Register(tag, ctor)
}
