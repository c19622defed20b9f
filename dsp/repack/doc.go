// Package repack squashes capture-card audio into packed frames.
//
// Capture hardware delivers interleaved frames with a fixed number of
// channel slots: 8 slots for layouts up to 7.1 and 16 slots for 9 to 16
// channels. Slots beyond the configured channel count carry no audio. A
// Repacker copies the meaningful slots of every frame into an owned
// scratch buffer, optionally reordering them into host speaker order, and
// never alters sample bits.
//
// Two sample widths are supported: 16-bit and 32-bit (integer or float).
// Copy kernels are selected once per Repacker from the CPU features; every
// kernel yields byte-identical output.
//
// A Repacker is not safe for concurrent use. The slice returned by Repack
// and the Frame returned by RepackFrame are valid until the next call.
package repack
