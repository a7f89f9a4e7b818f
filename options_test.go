package gocbkvx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnStrOptions(t *testing.T) {
	opts, err := ParseConnStrOptions("couchbase://10.0.0.1/travel-sample?kv_timeout=5s&compression=true&errmap_version=1")
	require.NoError(t, err)

	assert.Equal(t, "travel-sample", opts.BucketName)
	assert.Equal(t, "10.0.0.1", opts.CurrentHost)
	assert.Equal(t, 5*time.Second, opts.DefaultTimeout)
	assert.True(t, opts.CompressionEnabled)
	assert.Equal(t, uint16(1), opts.ErrorMapVersion)
	assert.Nil(t, opts.CompressionManager)
}

func TestParseConnStrOptionsDefaults(t *testing.T) {
	opts, err := ParseConnStrOptions("couchbase://10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "", opts.BucketName)
	assert.Equal(t, time.Duration(0), opts.DefaultTimeout)
	assert.False(t, opts.CompressionEnabled)

	f := NewOpFactory(opts)
	assert.Equal(t, defaultKvTimeout, f.Noop().Timeout())
}

func TestParseConnStrOptionsMilliseconds(t *testing.T) {
	opts, err := ParseConnStrOptions("couchbase://10.0.0.1?kv_timeout=750")
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, opts.DefaultTimeout)
}

func TestParseConnStrOptionsCompressionTuning(t *testing.T) {
	opts, err := ParseConnStrOptions("couchbase://10.0.0.1?compression_min_size=128&compression_min_ratio=0.5")
	require.NoError(t, err)

	mgr, ok := opts.CompressionManager.(*CompressionManagerDefault)
	require.True(t, ok)
	assert.Equal(t, 128, mgr.compressionMinSize)
	assert.Equal(t, 0.5, mgr.compressionMinRatio)
}

func TestParseConnStrOptionsInvalid(t *testing.T) {
	badOpts := []string{
		"kv_timeout=soon",
		"kv_timeout=-5",
		"compression=maybe",
		"compression_min_size=-1",
		"compression_min_size=0",
		"compression_min_ratio=2",
		"errmap_version=0",
	}

	for _, opt := range badOpts {
		t.Run(opt, func(t *testing.T) {
			_, err := ParseConnStrOptions("couchbase://10.0.0.1?" + opt)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestParseConnStrOptionsBadScheme(t *testing.T) {
	_, err := ParseConnStrOptions("ftp://10.0.0.1")
	assert.Error(t, err)
}
