package repack

import "errors"

var (
	// ErrConfiguration reports an unsupported channel count, sample format or
	// slot order. It is returned by New and is fatal to the stream.
	ErrConfiguration = errors.New("repack: unsupported configuration")
	// ErrOutOfMemory reports that the scratch buffer could not grow. The
	// block is skipped; a later call may succeed.
	ErrOutOfMemory = errors.New("repack: out of memory")
	// ErrInvalidInput reports a negative frame count or a short source buffer.
	ErrInvalidInput = errors.New("repack: invalid input")
	// ErrClosed is returned by Repack after Close.
	ErrClosed = errors.New("repack: repacker closed")
)
