//go:build !amd64 || purego

package repack

import (
	_ "github.com/cwbudde/algo-capture/dsp/repack/internal/arch/generic"
	_ "github.com/cwbudde/algo-capture/dsp/repack/internal/arch/registry"
)
