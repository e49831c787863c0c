package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xwebp "golang.org/x/image/webp"

	"github.com/BruksfildServices01/barberconnect/internal/config"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEncodeLogoShrinksToFit(t *testing.T) {
	out, err := EncodeLogo(bytes.NewReader(pngOf(t, 1024, 256)))
	require.NoError(t, err)

	cfg, err := xwebp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}

func TestEncodeLogoKeepsSmallImages(t *testing.T) {
	out, err := EncodeLogo(bytes.NewReader(pngOf(t, 64, 40)))
	require.NoError(t, err)

	cfg, err := xwebp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 40, cfg.Height)
}

func TestEncodeLogoRejectsGarbage(t *testing.T) {
	_, err := EncodeLogo(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestS3StorePut(t *testing.T) {
	var gotMethod, gotPath, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewS3Store(&config.Config{
		S3Bucket:          "logos",
		S3Region:          "ap-southeast-2",
		S3Endpoint:        srv.URL,
		S3AccessKeyID:     "AKIATEST",
		S3SecretAccessKey: "secret",
		S3PublicBaseURL:   "https://cdn.example/",
	})

	url, err := store.Put(context.Background(), "shops/1/logo.webp", []byte("webp-bytes"), "image/webp")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/shops/1/logo.webp", url)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/logos/shops/1/logo.webp", gotPath)
	assert.Equal(t, "image/webp", gotType)
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	store := NewS3Store(&config.Config{})
	_, err := store.Put(context.Background(), "k", nil, "image/webp")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
