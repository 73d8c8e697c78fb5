package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedArchive_EncodeRoundTrip(t *testing.T) {
	a, err := NewFeedArchive(nil)
	require.NoError(t, err)

	small := []byte("header\n")
	body, algo := a.encode(small)
	assert.Equal(t, CompressionNone, algo)
	assert.Equal(t, small, body)

	large := bytes.Repeat([]byte("0000000000000000000000000B JF50A      STD    NH1 BLACK\n"), 200)
	body, algo = a.encode(large)
	assert.Equal(t, CompressionZstd, algo)
	assert.Less(t, len(body), len(large))

	out, err := a.decode(body, algo, len(large))
	require.NoError(t, err)
	assert.Equal(t, large, out)

	_, err = a.decode(body, "lz4", len(large))
	assert.Error(t, err)
}
