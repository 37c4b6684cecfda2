package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"community_server/server/community/domain"
)

type fakeObjectStore struct {
	keys []string
	data [][]byte
}

func (f *fakeObjectStore) PutAvatar(_ context.Context, key string, data []byte, contentType string) (string, error) {
	f.keys = append(f.keys, key)
	f.data = append(f.data, data)
	return "https://cdn.example/" + key, nil
}

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeResult(t *testing.T, uri string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, dataURIPNGPrefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, dataURIPNGPrefix))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestNormalizeThumbnailsInline(t *testing.T) {
	p := NewAvatarProcessor(nil)
	out, err := p.Normalize(context.Background(), "user-1", pngDataURI(t, 640, 480))
	require.NoError(t, err)

	img := decodeResult(t, out)
	assert.Equal(t, AvatarSize, img.Bounds().Dx())
	assert.Equal(t, AvatarSize, img.Bounds().Dy())
}

func TestNormalizeUploadsWhenStoreConfigured(t *testing.T) {
	objects := &fakeObjectStore{}
	p := NewAvatarProcessor(objects)
	out, err := p.Normalize(context.Background(), "user-1", pngDataURI(t, 32, 32))
	require.NoError(t, err)

	require.Len(t, objects.keys, 1)
	assert.True(t, strings.HasPrefix(objects.keys[0], "avatars/user-1/"))
	assert.Equal(t, "https://cdn.example/"+objects.keys[0], out)
}

func TestNormalizePassesURLsThrough(t *testing.T) {
	p := NewAvatarProcessor(&fakeObjectStore{})
	out, err := p.Normalize(context.Background(), "u", " https://api.dicebear.com/7.x/avataaars/svg?seed=x ")
	require.NoError(t, err)
	assert.Equal(t, "https://api.dicebear.com/7.x/avataaars/svg?seed=x", out)

	out, err = p.Normalize(context.Background(), "u", "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNormalizeRejectsBadInput(t *testing.T) {
	p := NewAvatarProcessor(nil)
	cases := []string{
		"ftp://example/avatar.png",
		"data:image/png,notbase64marker",
		"data:image/png;base64,@@@",
		"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not an image")),
	}
	for _, raw := range cases {
		_, err := p.Normalize(context.Background(), "u", raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, domain.ErrInvalidRequest), raw)
	}
}

func TestNormalizeRejectsOversizedDimensions(t *testing.T) {
	// Uniform gray compresses to a few KB at any size.
	img := image.NewGray(image.Rect(0, 0, maxAvatarSide+1, 8))
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, img))
	raw := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	p := NewAvatarProcessor(&fakeObjectStore{})
	_, err := p.Normalize(context.Background(), "u", raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
	assert.Contains(t, err.Error(), "4096x4096")

	out, err := NewAvatarProcessor(nil).Normalize(context.Background(), "u", pngDataURI(t, maxAvatarSide, 4))
	require.NoError(t, err)
	thumb := decodeResult(t, out)
	assert.Equal(t, AvatarSize, thumb.Bounds().Dx())
	assert.Equal(t, AvatarSize, thumb.Bounds().Dy())
}
