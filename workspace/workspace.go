// Package workspace owns the on-disk layout of a movie project: drawings
// waiting for stylization, frames, subtitles, audio and the rendered movies.
package workspace

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"yourmovie/canvas"
	"yourmovie/config"
)

var (
	// ErrUnsupportedUpload is returned for uploads that are not jpg or png
	ErrUnsupportedUpload = errors.New("only jpg and png files are supported")

	// ErrNoUploads is returned when an upload request carries no files
	ErrNoUploads = errors.New("please select files")
)

// Upload is a named image stream, e.g. a multipart file.
type Upload struct {
	Name string
	Body io.Reader
}

// Workspace resolves every artifact path under a root directory.
type Workspace struct {
	root    string
	painter *canvas.Painter

	mu      sync.Mutex
	counter int
	seeded  bool
}

// New returns a workspace rooted at root. Directories are created on demand.
func New(root string, painter *canvas.Painter) *Workspace {
	return &Workspace{root: root, painter: painter}
}

// DrawingsDir is the directory read by the stylization loop.
func (w *Workspace) DrawingsDir() string { return filepath.Join(w.root, config.DrawingsDir) }

// FramesDir is the directory frames and movie artifacts live in.
func (w *Workspace) FramesDir() string { return filepath.Join(w.root, config.FramesDir) }

// SubtitlesPath is files/subtitles.txt.
func (w *Workspace) SubtitlesPath() string { return filepath.Join(w.FramesDir(), config.SubtitlesFile) }

// AudioPath is files/audio.mp3.
func (w *Workspace) AudioPath() string { return filepath.Join(w.FramesDir(), config.AudioFile) }

// RawMoviePath is files/initial.avi.
func (w *Workspace) RawMoviePath() string { return filepath.Join(w.FramesDir(), config.RawMovieFile) }

// MoviePath is files/final_movie.mp4.
func (w *Workspace) MoviePath() string { return filepath.Join(w.FramesDir(), config.MovieFile) }

// SortFiles lists the regular files of dir in ascending modification time.
// Files with equal times keep name order so listings are stable.
func SortFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type stamped struct {
		path string
		mod  int64
	}
	files := make([]stamped, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		files = append(files, stamped{path: filepath.Join(dir, e.Name()), mod: info.ModTime().UnixNano()})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].mod != files[j].mod {
			return files[i].mod < files[j].mod
		}
		return files[i].path < files[j].path
	})

	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.path
	}
	return out, nil
}

// Drawings lists drawings in creation order. A missing directory yields none.
func (w *Workspace) Drawings() ([]string, error) {
	files, err := SortFiles(w.DrawingsDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return files, err
}

// CountDrawings is the number of files waiting for stylization.
func (w *Workspace) CountDrawings() (int, error) {
	files, err := w.Drawings()
	return len(files), err
}

// Frames lists the .jpg files of the frames directory in creation order.
func (w *Workspace) Frames() ([]string, error) {
	files, err := SortFiles(w.FramesDir())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	frames := files[:0]
	for _, f := range files {
		if IsFrame(f) {
			frames = append(frames, f)
		}
	}
	return frames, nil
}

// CountFrames is the number of frames the movie would contain.
func (w *Workspace) CountFrames() (int, error) {
	frames, err := w.Frames()
	return len(frames), err
}

// IsFrame reports whether path is a movie frame.
func IsFrame(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".jpg"
}

// SaveDrawing composes the background into a canvas capture and stores it as
// tmp/pic<N>.png. N keeps increasing for the lifetime of the process.
func (w *Workspace) SaveDrawing(drawing image.Image) (string, error) {
	if err := os.MkdirAll(w.DrawingsDir(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create drawings dir: %w", err)
	}

	data, err := canvas.EncodePNG(w.painter.Compose(drawing))
	if err != nil {
		return "", err
	}

	n, err := w.nextDrawingIndex()
	if err != nil {
		return "", err
	}

	path := filepath.Join(w.DrawingsDir(), fmt.Sprintf("%s%d.png", config.DrawingPrefix, n))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write drawing: %w", err)
	}
	return path, nil
}

// nextDrawingIndex seeds the counter from existing pic*.png files on first use.
func (w *Workspace) nextDrawingIndex() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.seeded {
		matches, err := filepath.Glob(filepath.Join(w.DrawingsDir(), config.DrawingPrefix+"*.png"))
		if err != nil {
			return 0, err
		}
		w.counter = len(matches)
		w.seeded = true
	}

	n := w.counter
	w.counter++
	return n, nil
}

// SaveUploads resizes every upload to the canvas size. With process set the
// images become drawings (tmp/<i>.png); otherwise they go straight to the
// frames directory as JPEG frames (files/<i>.jpg).
func (w *Workspace) SaveUploads(uploads []Upload, process bool) ([]string, error) {
	if len(uploads) == 0 {
		return nil, ErrNoUploads
	}
	for _, u := range uploads {
		switch strings.ToLower(filepath.Ext(u.Name)) {
		case ".jpg", ".jpeg", ".png":
		default:
			return nil, fmt.Errorf("%s: %w", u.Name, ErrUnsupportedUpload)
		}
	}

	dir := w.FramesDir()
	if process {
		dir = w.DrawingsDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	paths := make([]string, 0, len(uploads))
	for i, u := range uploads {
		img, _, err := canvas.Decode(u.Body)
		if err != nil {
			return paths, fmt.Errorf("%s: %w", u.Name, err)
		}
		resized := canvas.Resize(img)

		var (
			data []byte
			path string
		)
		if process {
			data, err = canvas.EncodePNG(resized)
			path = filepath.Join(dir, fmt.Sprintf("%d.png", i))
		} else {
			data, err = canvas.EncodeJPEG(resized)
			path = filepath.Join(dir, fmt.Sprintf("%d.jpg", i))
		}
		if err != nil {
			return paths, fmt.Errorf("%s: %w", u.Name, err)
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteFrame stores a processed frame in the frames directory.
func (w *Workspace) WriteFrame(name string, data []byte) (string, error) {
	if err := os.MkdirAll(w.FramesDir(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create frames dir: %w", err)
	}
	path := filepath.Join(w.FramesDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write frame: %w", err)
	}
	return path, nil
}

// WriteSubtitles stores the subtitle text, one subtitle per line.
func (w *Workspace) WriteSubtitles(text string) error {
	if err := os.MkdirAll(w.FramesDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create frames dir: %w", err)
	}
	return os.WriteFile(w.SubtitlesPath(), []byte(text), 0o644)
}

// ReadSubtitles returns the stored subtitle text.
func (w *Workspace) ReadSubtitles() (string, error) {
	data, err := os.ReadFile(w.SubtitlesPath())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveAudio stores the movie soundtrack.
func (w *Workspace) SaveAudio(r io.Reader) error {
	if err := os.MkdirAll(w.FramesDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create frames dir: %w", err)
	}
	f, err := os.Create(w.AudioPath())
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	return f.Close()
}

// HasAudio reports whether a soundtrack is stored.
func (w *Workspace) HasAudio() bool { return fileExists(w.AudioPath()) }

// HasMovie reports whether a final movie was rendered.
func (w *Workspace) HasMovie() bool { return fileExists(w.MoviePath()) }

// Reset deletes every drawing, frame and movie artifact.
func (w *Workspace) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, dir := range []string{w.DrawingsDir(), w.FramesDir()} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	w.counter = 0
	w.seeded = false
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
