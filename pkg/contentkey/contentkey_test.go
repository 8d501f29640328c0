package contentkey

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytes(t *testing.T) {
	data := []byte("dummy video content")

	a := FromBytes("uploads/", data, "clip.MP4")
	b := FromBytes("uploads/", append([]byte(nil), data...), "other-name.mp4")

	assert.Equal(t, a, b, "same bytes must give the same key")
	assert.Len(t, a.Identity, 40, "sha1 hex is 160 bits")
	assert.Equal(t, "uploads/"+a.Identity+".mp4", a.String())

	c := FromBytes("uploads/", []byte("different"), "clip.mp4")
	assert.NotEqual(t, a.String(), c.String())
}

func TestFromBytesKnownDigest(t *testing.T) {
	k := FromBytes("", []byte("abc"), "a.mp4")
	assert.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", k.Identity)
}

func TestFromReaderMatchesFromBytes(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 1024)

	k, n, err := FromReader("p/", bytes.NewReader(data), "x.mov")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, FromBytes("p/", data, "x.mov"), k)
}

func TestFromIdentity(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		identity string
		want     string
	}{
		{"file name keeps its extension", "", "ep12.mp4", "ep12.mp4"},
		{"prefix is prepended", "uploads/", "ep12.mp4", "uploads/ep12.mp4"},
		{"no extension uses sentinel", "", "1700000000-Ep_12", "1700000000-Ep_12.mov"},
		{"surrounding space is ignored", "", "  ep12.webm ", "ep12.webm"},
		{"dot file uses sentinel", "", ".hidden", ".hidden.mov"},
		{"extension case is kept", "", "Ep12.MP4", "Ep12.MP4"},
		{"trailing dot uses sentinel", "raw/", "Ep12.", "raw/Ep12.mov"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromIdentity(tt.prefix, tt.identity).String())
		})
	}

	assert.Equal(t, FromIdentity("p/", "a.mp4"), FromIdentity("p/", "a.mp4"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "mp4", Extension("video.MP4"))
	assert.Equal(t, "gz", Extension("archive.tar.gz"))
	assert.Equal(t, DefaultExtension, Extension(""))
	assert.Equal(t, DefaultExtension, Extension("noext"))
	assert.Equal(t, DefaultExtension, Extension("trailing."))
	assert.Equal(t, DefaultExtension, Extension("dir.d/file"))
}
