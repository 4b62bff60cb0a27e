package reader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFooterBytesUsesPoolWhenSizeKnown(t *testing.T) {
	pool := NewFooterBufferPool()
	body := `{"num_rows":1,"schema":[]}`

	data, release, err := ReadFooterBytes(pool, strings.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	defer release()

	assert.Equal(t, body, string(data))
}

func TestReadFooterBytesFallsBackWhenSizeUnknown(t *testing.T) {
	pool := NewFooterBufferPool()
	body := `{"num_rows":1,"schema":[]}`

	data, release, err := ReadFooterBytes(pool, strings.NewReader(body), 0)
	require.NoError(t, err)
	defer release()

	assert.Equal(t, body, string(data))
}

func TestReadFooterBytesFallsBackWhenSizeExceedsPool(t *testing.T) {
	pool := NewFooterBufferPool()
	body := "x"

	data, release, err := ReadFooterBytes(pool, bytes.NewBufferString(body), maxFooterSize+1)
	require.NoError(t, err)
	defer release()

	assert.Equal(t, body, string(data))
}

func TestReadFooterBytesPropagatesShortRead(t *testing.T) {
	pool := NewFooterBufferPool()

	_, _, err := ReadFooterBytes(pool, strings.NewReader("short"), 100)
	assert.Error(t, err)
}
