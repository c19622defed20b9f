//go:build amd64 && !purego

package repack

import (
	_ "github.com/cwbudde/algo-capture/dsp/repack/internal/arch/amd64/sse2" // register SSE2 backend
	_ "github.com/cwbudde/algo-capture/dsp/repack/internal/arch/generic"    // register generic backend
	_ "github.com/cwbudde/algo-capture/dsp/repack/internal/arch/registry"   // initialize backend registry
)
