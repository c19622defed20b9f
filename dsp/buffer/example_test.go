package buffer_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-capture/dsp/buffer"
)

func ExampleBuffer() {
	b := buffer.New[float64](4)
	copy(b.Samples(), []float64{1, 2, 3, 4})

	_ = b.Resize(2)
	_ = b.Resize(6)

	fmt.Println(b.Samples())
	fmt.Println(b.Len(), b.Cap())

	// Output:
	// [1 2 0 0 0 0]
	// 6 6
}

func ExampleBuffer_SetLimit() {
	b := buffer.New[byte](0)
	b.SetLimit(64)

	err := b.Resize(128)
	fmt.Println(errors.Is(err, buffer.ErrLimitExceeded), b.Len())

	// Output:
	// true 0
}
