// Package errors provides examples of structured error handling in nebula-atom.
package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

// Example demonstrates basic error creation.
func Example() {
	err := errors.New(errors.ErrorTypeInvalidArgument, "atom type is required").
		WithDetail("index", 3)

	fmt.Println(err.Error())

	// Output:
	// invalid_argument: atom type is required
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.ErrUnexpectedEOF, errors.ErrorTypeCodec, "failed to decode atom").
		WithDetail("codec", "avro")

	if errors.IsType(err, errors.ErrorTypeCodec) {
		fmt.Println("This is a codec error")
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		fmt.Println("Cause was unexpected EOF")
	}

	fmt.Println(err)

	// Output:
	// This is a codec error
	// Cause was unexpected EOF
	// codec: failed to decode atom: unexpected EOF
}

// ExampleNewf demonstrates formatted messages.
func ExampleNewf() {
	err := errors.Newf(errors.ErrorTypeData, "serial version %d is not supported", 7)
	fmt.Println(err)

	// Output:
	// data: serial version 7 is not supported
}
