package movie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"yourmovie/config"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// RunFunc executes a compiled ffmpeg graph.
type RunFunc func(ctx context.Context, stream *ffmpeg.Stream) error

// ProbeFunc returns the duration of a media file in seconds.
type ProbeFunc func(path string) (float64, error)

// Run executes stream with ffmpeg and kills the process when ctx is done.
func Run(ctx context.Context, stream *ffmpeg.Stream) error {
	var stderr bytes.Buffer
	cmd := stream.WithErrorOutput(&stderr).Compile()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, lastLines(stderr.String(), 5))
		}
		return nil
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	}
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads the container duration with ffprobe.
func Probe(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var parsed probeOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	d, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe reported no duration for %s", path)
	}
	return d, nil
}

// FrameSize reads the dimensions of an image without decoding it.
func FrameSize(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read frame %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// WriteConcatList writes an ffconcat script that shows each frame for 1/fps seconds.
// The last frame is listed twice so the demuxer honors its duration.
func WriteConcatList(frames []string, fps float64, path string) error {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")

	perFrame := strconv.FormatFloat(1/fps, 'f', 6, 64)
	for _, frame := range frames {
		fmt.Fprintf(&b, "file '%s'\n", quoteConcatPath(frame))
		fmt.Fprintf(&b, "duration %s\n", perFrame)
	}
	if len(frames) > 0 {
		fmt.Fprintf(&b, "file '%s'\n", quoteConcatPath(frames[len(frames)-1]))
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func quoteConcatPath(p string) string {
	abs, err := filepath.Abs(p)
	if err == nil {
		p = abs
	}
	return strings.ReplaceAll(filepath.ToSlash(p), "'", `'\''`)
}

// RawStream encodes the concat list into a DIVX-tagged AVI at fps, with every
// frame scaled to width x height.
func RawStream(concatPath string, width, height int, fps float64, outputPath string) *ffmpeg.Stream {
	return ffmpeg.Input(concatPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", width, height)}).
		Output(outputPath, ffmpeg.KwArgs{
			"c:v":     config.RawVideoCodec,
			"vtag":    config.RawVideoTag,
			"r":       strconv.FormatFloat(fps, 'f', -1, 64),
			"q:v":     "2",
			"pix_fmt": config.PixelFormat,
		}).
		OverWriteOutput()
}

// ComposeInput describes the final encode.
type ComposeInput struct {
	RawPath    string
	OutputPath string
	Duration   float64
	// SubtitlesPath is an ASS script to burn in; empty for none
	SubtitlesPath string
	// AudioPath is looped and trimmed to Duration; empty for a silent movie
	AudioPath string
}

// ComposeStream builds the final H.264 movie from the raw AVI.
func ComposeStream(in ComposeInput) *ffmpeg.Stream {
	video := ffmpeg.Input(in.RawPath)

	if in.SubtitlesPath != "" {
		// Forward slashes and escaped colons keep the filter argument parseable
		assPath := filepath.ToSlash(in.SubtitlesPath)
		assPath = strings.ReplaceAll(assPath, ":", "\\:")
		video = ffmpeg.Filter([]*ffmpeg.Stream{video}, "ass", ffmpeg.Args{assPath})
	}

	kwargs := ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"preset":  config.VideoPreset,
		"pix_fmt": config.PixelFormat,
		"t":       fmt.Sprintf("%.2f", in.Duration),
	}

	streams := []*ffmpeg.Stream{video}
	if in.AudioPath != "" {
		audio := ffmpeg.Input(in.AudioPath, ffmpeg.KwArgs{"stream_loop": "-1"})
		streams = append(streams, audio.Audio())
		kwargs["c:a"] = config.AudioCodec
		kwargs["b:a"] = config.AudioBitrate
	}

	return ffmpeg.Output(streams, in.OutputPath, kwargs).OverWriteOutput()
}

// ExtractAudioStream copies the audio track of a downloaded video into an mp3.
func ExtractAudioStream(videoPath, audioPath string) *ffmpeg.Stream {
	return ffmpeg.Input(videoPath).
		Output(audioPath, ffmpeg.KwArgs{
			"vn":  "",
			"c:a": "libmp3lame",
			"q:a": "2",
		}).
		OverWriteOutput()
}
