package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 255, A: 128})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

// fileHeader builds a multipart.FileHeader the way net/http would after
// parsing a request.
func fileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="media"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["media"][0]
}

func TestStoreSave(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, "/media", 80)
	require.NoError(t, err)

	t.Run("re-encodes png and removes the original", func(t *testing.T) {
		stored, err := store.Save(context.Background(), fileHeader(t, "Photo.PNG", "image/png", pngBytes(t)))
		require.NoError(t, err)

		assert.Regexp(t, `^media/[0-9a-f]{32}\.jpg$`, stored)

		entries, err := os.ReadDir(root)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, filepath.Base(stored), entries[0].Name())

		f, err := os.Open(filepath.Join(root, entries[0].Name()))
		require.NoError(t, err)
		defer f.Close()

		_, format, err := image.DecodeConfig(f)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", format)

		require.NoError(t, store.Remove(stored))
		_, err = os.Stat(filepath.Join(root, entries[0].Name()))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("rejects non image content type", func(t *testing.T) {
		_, err := store.Save(context.Background(), fileHeader(t, "notes.png", "text/plain", []byte("hello")))
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("rejects extensions outside the allow-list", func(t *testing.T) {
		_, err := store.Save(context.Background(), fileHeader(t, "photo.bmp", "image/bmp", pngBytes(t)))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("rejects undecodable content and cleans up", func(t *testing.T) {
		before, err := os.ReadDir(root)
		require.NoError(t, err)

		_, err = store.Save(context.Background(), fileHeader(t, "broken.jpg", "image/jpeg", []byte("not really a jpeg")))
		assert.ErrorIs(t, err, ErrNotImage)

		after, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Save(ctx, fileHeader(t, "photo.png", "image/png", pngBytes(t)))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStoreRemoveIgnoresForeignPaths(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/media", 80)
	require.NoError(t, err)

	assert.NoError(t, store.Remove("elsewhere/file.jpg"))
	assert.NoError(t, store.Remove("media/missing.jpg"))
}
