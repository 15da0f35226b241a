// Package strings provides pooled string building for nebula-atom.
//
// Atom and error formatting runs on hot paths (every log line and every
// diagnostic dump), so builders are recycled through size-classed pools.
package strings

import (
	"fmt"
	"strconv"
	"sync"
	"unsafe"
)

// BytesToString converts byte slice to string without allocation.
// The returned string shares memory with the byte slice; do not modify
// the slice afterwards.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Builder provides efficient string building
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends a single byte
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteInt appends the decimal form of i
func (b *Builder) WriteInt(i int64) {
	b.buf = strconv.AppendInt(b.buf, i, 10)
}

// Write implements io.Writer interface
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion. The result
// is only valid until the builder is reset; use Clone to keep it.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Len returns the length of the built string
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

// Clone creates a copy of a string that owns its memory
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}

// BuilderSize represents different builder sizes
type BuilderSize int

const (
	Small  BuilderSize = iota // < 1KB
	Medium                    // 1KB - 16KB
	Large                     // 16KB+
)

var (
	smallBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(1024)
		},
	}

	mediumBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(16 * 1024)
		},
	}

	largeBuilderPool = &sync.Pool{
		New: func() interface{} {
			return NewBuilder(64 * 1024)
		},
	}
)

func poolFor(size BuilderSize) *sync.Pool {
	switch size {
	case Medium:
		return mediumBuilderPool
	case Large:
		return largeBuilderPool
	default:
		return smallBuilderPool
	}
}

// SizeFor picks the builder size class for an expected output length
func SizeFor(n int) BuilderSize {
	switch {
	case n > 16*1024:
		return Large
	case n > 1024:
		return Medium
	default:
		return Small
	}
}

// GetBuilder retrieves a pooled builder of the specified size
func GetBuilder(size BuilderSize) *Builder {
	builder := poolFor(size).Get().(*Builder)
	builder.Reset()
	return builder
}

// PutBuilder returns a builder to the appropriate pool
func PutBuilder(builder *Builder, size BuilderSize) {
	if builder == nil {
		return
	}
	builder.Reset()
	poolFor(size).Put(builder)
}

// Concat efficiently concatenates strings using pooled builder
func Concat(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}

	totalLen := 0
	for _, s := range parts {
		totalLen += len(s)
	}

	size := SizeFor(totalLen)
	builder := GetBuilder(size)
	defer PutBuilder(builder, size)

	for _, s := range parts {
		builder.WriteString(s)
	}

	return Clone(builder.String())
}

// Sprintf provides a pooled alternative to fmt.Sprintf
func Sprintf(format string, args ...interface{}) string {
	if len(args) == 0 {
		return format
	}

	size := SizeFor(len(format) + len(args)*16)
	builder := GetBuilder(size)
	defer PutBuilder(builder, size)

	fmt.Fprintf(builder, format, args...)

	return Clone(builder.String())
}

// Quote wraps s in double quotes. The content is not escaped.
func Quote(s string) string {
	return Concat(`"`, s, `"`)
}
