package workspace

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"yourmovie/canvas"
	"yourmovie/palette"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return New(t.TempDir(), canvas.NewPainter(palette.Default()))
}

func writeWithTime(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	data, err := canvas.EncodePNG(img)
	require.NoError(t, err)
	return data
}

func TestSortFilesByModificationTime(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)

	writeWithTime(t, filepath.Join(dir, "a.jpg"), base.Add(3*time.Second))
	writeWithTime(t, filepath.Join(dir, "b.jpg"), base.Add(1*time.Second))
	writeWithTime(t, filepath.Join(dir, "c.jpg"), base.Add(2*time.Second))
	writeWithTime(t, filepath.Join(dir, "d.jpg"), base.Add(2*time.Second))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	files, err := SortFiles(dir)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	assert.Equal(t, []string{"b.jpg", "c.jpg", "d.jpg", "a.jpg"}, names)
}

func TestSortFilesMissingDir(t *testing.T) {
	_, err := SortFiles(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFramesOnlyListsJPG(t *testing.T) {
	ws := newTestWorkspace(t)
	base := time.Now().Add(-time.Hour)

	writeWithTime(t, filepath.Join(ws.FramesDir(), "pic01.jpg"), base.Add(2*time.Second))
	writeWithTime(t, filepath.Join(ws.FramesDir(), "pic00.jpg"), base.Add(1*time.Second))
	writeWithTime(t, filepath.Join(ws.FramesDir(), "subtitles.txt"), base)
	writeWithTime(t, filepath.Join(ws.FramesDir(), "audio.mp3"), base)
	writeWithTime(t, filepath.Join(ws.FramesDir(), "initial.avi"), base.Add(3*time.Second))

	frames, err := ws.Frames()
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, "pic00.jpg", filepath.Base(frames[0]))
	assert.Equal(t, "pic01.jpg", filepath.Base(frames[1]))

	n, err := ws.CountFrames()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCountsOnEmptyWorkspace(t *testing.T) {
	ws := newTestWorkspace(t)

	n, err := ws.CountDrawings()
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = ws.CountFrames()
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.False(t, ws.HasAudio())
	assert.False(t, ws.HasMovie())
}

func TestSaveDrawingNumbersSequentially(t *testing.T) {
	ws := newTestWorkspace(t)
	writeWithTime(t, filepath.Join(ws.DrawingsDir(), "pic0.png"), time.Now())

	drawing := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	first, err := ws.SaveDrawing(drawing)
	require.NoError(t, err)
	second, err := ws.SaveDrawing(drawing)
	require.NoError(t, err)

	assert.Equal(t, "pic1.png", filepath.Base(first))
	assert.Equal(t, "pic2.png", filepath.Base(second))

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	img, format, err := canvas.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	sky := palette.Default().MustLookup("Sky").RGBA()
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{uint32(sky.R), uint32(sky.G), uint32(sky.B)}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestSaveUploads(t *testing.T) {
	ws := newTestWorkspace(t)
	uploads := func() []Upload {
		return []Upload{
			{Name: "one.png", Body: bytes.NewReader(pngBytes(t, 800, 600))},
			{Name: "two.PNG", Body: bytes.NewReader(pngBytes(t, 64, 64))},
		}
	}

	t.Run("for processing", func(t *testing.T) {
		paths, err := ws.SaveUploads(uploads(), true)
		require.NoError(t, err)
		require.Len(t, paths, 2)
		assert.Equal(t, filepath.Join(ws.DrawingsDir(), "0.png"), paths[0])
		assert.Equal(t, filepath.Join(ws.DrawingsDir(), "1.png"), paths[1])

		f, err := os.Open(paths[0])
		require.NoError(t, err)
		defer f.Close()
		cfg, _, err := image.DecodeConfig(f)
		require.NoError(t, err)
		assert.Equal(t, 512, cfg.Width)
		assert.Equal(t, 512, cfg.Height)
	})

	t.Run("as frames", func(t *testing.T) {
		paths, err := ws.SaveUploads(uploads(), false)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(ws.FramesDir(), "0.jpg"), paths[0])

		n, err := ws.CountFrames()
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ws.SaveUploads(nil, true)
		assert.ErrorIs(t, err, ErrNoUploads)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := ws.SaveUploads([]Upload{{Name: "song.mp3", Body: strings.NewReader("")}}, true)
		assert.ErrorIs(t, err, ErrUnsupportedUpload)
	})
}

func TestSubtitlesAndAudio(t *testing.T) {
	ws := newTestWorkspace(t)

	require.NoError(t, ws.WriteSubtitles("שלום\nעולם"))
	text, err := ws.ReadSubtitles()
	require.NoError(t, err)
	assert.Equal(t, "שלום\nעולם", text)

	require.NoError(t, ws.SaveAudio(strings.NewReader("ID3")))
	assert.True(t, ws.HasAudio())
}

func TestReset(t *testing.T) {
	ws := newTestWorkspace(t)
	writeWithTime(t, filepath.Join(ws.DrawingsDir(), "pic0.png"), time.Now())
	writeWithTime(t, filepath.Join(ws.FramesDir(), "pic00.jpg"), time.Now())

	require.NoError(t, ws.Reset())

	n, err := ws.CountDrawings()
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = ws.CountFrames()
	require.NoError(t, err)
	assert.Zero(t, n)

	path, err := ws.SaveDrawing(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)
	assert.Equal(t, "pic0.png", filepath.Base(path))
}
