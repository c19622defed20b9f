// Package buffer provides an owned, growable sample buffer for real-time
// processing paths. A Buffer tracks a logical length separately from its
// capacity, only ever grows its backing array and can refuse growth past a
// configured limit so callers can skip a block instead of allocating
// without bound on the audio thread.
package buffer
