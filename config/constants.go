package config

import "time"

// Canvas Constants
const (
	// CanvasSize is the width and height of drawings sent to the stylization service
	CanvasSize = 512

	// HorizonRow is the first canvas row painted as sea; rows above it are sky
	HorizonRow = 300

	// SkyLabel and SeaLabel name the palette entries used for the default background
	SkyLabel = "Sky"
	SeaLabel = "Sea"

	// Stroke width bounds for the drawing toolbox
	MinStrokeWidth     = 2
	MaxStrokeWidth     = 15
	DefaultStrokeWidth = 5
)

// Workspace Constants
const (
	// DrawingsDir holds drawings waiting for stylization
	DrawingsDir = "tmp"

	// FramesDir holds movie frames and every movie artifact
	FramesDir = "files"

	// DrawingPrefix names canvas drawings (pic0.png, pic1.png, ...)
	DrawingPrefix = "pic"

	SubtitlesFile = "subtitles.txt"
	AudioFile     = "audio.mp3"
	RawMovieFile  = "initial.avi"
	MovieFile     = "final_movie.mp4"

	// YouTubeVideoFile is the temporary download used for audio extraction
	YouTubeVideoFile = "video_for_audio.mp4"
)

// Movie Constants
const (
	MinFPS     = 0.5
	MaxFPS     = 20.0
	FPSStep    = 0.5
	DefaultFPS = 3.0

	// RawVideoCodec and RawVideoTag reproduce a DIVX-tagged AVI
	RawVideoCodec = "mpeg4"
	RawVideoTag   = "DIVX"

	// VideoCodec is the final movie encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the final movie audio codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"

	// PixelFormat keeps the output playable in browsers
	PixelFormat = "yuv420p"
)

// Subtitle Constants
const (
	SubtitleFontSize = 30
	SubtitleFont     = "Calibri"

	// SubtitleColour is yellow in ASS &HAABBGGRR notation
	SubtitleColour = "&H0000FFFF"
)

// YouTube Constants
const (
	// YouTubeWatchPrefix is the only accepted audio link form
	YouTubeWatchPrefix = "https://www.youtube.com/watch?v="

	// YouTubeLinkLength is the length of a watch link with an 11 character id
	YouTubeLinkLength = 43

	// YouTubeCategoryID for Film & Animation
	YouTubeCategoryID = "1"

	// YouTubePrivacyStatus sets published movie visibility
	YouTubePrivacyStatus = "unlisted"
)

// Service Constants
const (
	// StatusLogSize is the number of recent log entries kept for /api/status
	StatusLogSize = 50

	// PublishTimeout bounds a single publish call
	PublishTimeout = 5 * time.Minute

	// ShutdownTimeout bounds graceful HTTP shutdown
	ShutdownTimeout = 10 * time.Second

	// MaxUploadBytes caps multipart request bodies
	MaxUploadBytes = 64 << 20

	// ClientTimeout bounds studio client calls; processing runs synchronously
	ClientTimeout = 10 * time.Minute

	// StatusPollInterval is how often front ends refresh /api/status
	StatusPollInterval = 500 * time.Millisecond

	// Backoff for queued requests that find the runner busy
	KafkaRetryDelay    = time.Second
	KafkaMaxRetryDelay = 30 * time.Second
)
