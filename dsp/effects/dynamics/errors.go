package dynamics

import "errors"

var (
	// ErrConfiguration reports an unusable host stream, an unknown preset or an
	// unknown detector mode.
	ErrConfiguration = errors.New("dynamics: invalid configuration")
	// ErrValidation reports a parameter outside its documented range. The
	// previous configuration stays in effect.
	ErrValidation = errors.New("dynamics: parameter out of range")
	// ErrOutOfMemory reports that the envelope buffers could not grow to the
	// requested block. The block is left unprocessed; a later call may succeed.
	ErrOutOfMemory = errors.New("dynamics: out of memory")
	// ErrInvalidInput reports a negative sample count or a channel shorter
	// than the requested count.
	ErrInvalidInput = errors.New("dynamics: invalid input")
)
