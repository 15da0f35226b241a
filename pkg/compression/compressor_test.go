package compression

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/nebula-atom/pkg/errors"
)

func TestRoundTripAllAlgorithms(t *testing.T) {
	original := bytes.Repeat([]byte(`{"index":3,"content":"hi"}`+"\n"), 200)

	for _, alg := range Algorithms {
		for _, level := range []Level{Fastest, Default, Better, Best} {
			t.Run(string(alg)+"/"+level.String(), func(t *testing.T) {
				compressed, err := Compress(original, alg, level)
				require.NoError(t, err)

				if alg != None {
					assert.Less(t, len(compressed), len(original))
				}

				decompressed, err := Decompress(compressed, alg)
				require.NoError(t, err)
				assert.Equal(t, original, decompressed)
			})
		}
	}
}

func TestEmptyInput(t *testing.T) {
	for _, alg := range Algorithms {
		compressed, err := Compress(nil, alg, Default)
		require.NoError(t, err, alg)

		decompressed, err := Decompress(compressed, alg)
		require.NoError(t, err, alg)
		assert.Empty(t, decompressed, alg)
	}
}

func TestWriterDoesNotCloseUnderlying(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Zstd, Default)
	require.NoError(t, err)

	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// The buffer is still usable after the compressor is closed.
	buf.WriteString("trailer")
	assert.True(t, bytes.HasSuffix(buf.Bytes(), []byte("trailer")))
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, alg)

	alg, err = ParseAlgorithm("lz4")
	require.NoError(t, err)
	assert.Equal(t, LZ4, alg)

	_, err = ParseAlgorithm("brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestParseLevel(t *testing.T) {
	for _, level := range []Level{Fastest, Default, Better, Best} {
		parsed, err := ParseLevel(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	_, err := ParseLevel("max")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestUnknownAlgorithm(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Algorithm("xz"), Default)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = NewReader(&bytes.Buffer{}, Algorithm("xz"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestCorruptGzip(t *testing.T) {
	_, err := Decompress([]byte("not gzip"), Gzip)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}
