package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/rakmedia/hr-backend-go/internal/service/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf
}

func TestUploadAvatar_ResizesLongestSide(t *testing.T) {
	store := fake.NewStorage()
	svc := NewFileService(store)

	p, err := svc.UploadAvatar(context.Background(), 7, pngOf(t, 1024, 256), "me.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "profile_pictures/7-"))
	assert.True(t, strings.HasSuffix(p, ".jpg"))

	cfg, err := jpeg.DecodeConfig(store.Read(p))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
}

func TestUploadAvatar_SmallImageKeepsSize(t *testing.T) {
	store := fake.NewStorage()
	svc := NewFileService(store)

	p, err := svc.UploadAvatar(context.Background(), 1, pngOf(t, 100, 300), "small.PNG")
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(store.Read(p))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestUploadAvatar_Rejects(t *testing.T) {
	svc := NewFileService(fake.NewStorage())

	_, err := svc.UploadAvatar(context.Background(), 1, strings.NewReader("x"), "me.gif")
	assert.Error(t, err)

	_, err = svc.UploadAvatar(context.Background(), 1, strings.NewReader("not an image"), "me.png")
	assert.Error(t, err)
}

func TestUploadTaskFile(t *testing.T) {
	store := fake.NewStorage()
	svc := NewFileService(store)

	p, err := svc.UploadTaskFile(context.Background(), 3, strings.NewReader("report"), "Q1 report.v2.PDF")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "task_files/3/Q1_report_v2-"), p)
	assert.True(t, strings.HasSuffix(p, ".pdf"))

	ok, err := store.Exists(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.DeleteFile(context.Background(), p))
	ok, err = store.Exists(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "http://files.test/"+p, svc.URL(p))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a_b-c", sanitizeName("a b-c"))
	assert.Equal(t, "file", sanitizeName("///"))
	assert.Equal(t, "etcpasswd", sanitizeName("/etc/passwd"))
}
