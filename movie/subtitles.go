package movie

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"yourmovie/config"
)

// Cue is one subtitle line shown from Start to End seconds.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// SplitLines breaks subtitle text into one line per cue. Blank lines are kept
// and become pauses; text with nothing but whitespace has no lines.
func SplitLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// SubtitleCues gives every line an equal share of duration, back to back from 0.
func SubtitleCues(lines []string, duration float64) []Cue {
	if len(lines) == 0 || duration <= 0 {
		return nil
	}

	share := duration / float64(len(lines))
	cues := make([]Cue, len(lines))
	for i, line := range lines {
		cues[i] = Cue{
			Start: float64(i) * share,
			End:   float64(i+1) * share,
			Text:  line,
		}
	}
	cues[len(cues)-1].End = duration
	return cues
}

// WriteASS writes cues as an ASS script sized width x height: yellow text at
// the bottom center.
func WriteASS(cues []Cue, width, height int, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	fmt.Fprintln(w, "[Script Info]")
	fmt.Fprintln(w, "Title: Your Movie")
	fmt.Fprintln(w, "ScriptType: v4.00+")
	fmt.Fprintf(w, "PlayResX: %d\n", width)
	fmt.Fprintf(w, "PlayResY: %d\n", height)
	fmt.Fprintln(w, "WrapStyle: 0")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "[V4+ Styles]")
	fmt.Fprintln(w, "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding")

	// Alignment 2 is bottom center
	fmt.Fprintf(w, "Style: Default,%s,%d,%s,%s,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,1,0,2,10,10,10,1\n",
		config.SubtitleFont, config.SubtitleFontSize, config.SubtitleColour, config.SubtitleColour)

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "[Events]")
	fmt.Fprintln(w, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text")

	for _, cue := range cues {
		if strings.TrimSpace(cue.Text) == "" {
			continue
		}
		fmt.Fprintf(w, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatASSTimestamp(cue.Start),
			formatASSTimestamp(cue.End),
			escapeASS(cue.Text))
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}

// formatASSTimestamp converts seconds to ASS timestamp format (h:mm:ss.cc)
func formatASSTimestamp(seconds float64) string {
	total := int(seconds*100 + 0.5)
	hours := total / 360000
	minutes := (total / 6000) % 60
	secs := (total / 100) % 60
	centisecs := total % 100

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centisecs)
}

// escapeASS keeps user text from being read as override blocks.
func escapeASS(text string) string {
	r := strings.NewReplacer("{", "(", "}", ")", "\\", "/")
	return r.Replace(text)
}
