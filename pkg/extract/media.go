package extract

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	"github.com/tcolgate/mp3"
)

// describeImage reports pixel dimensions and color mode only. The extractor
// never OCRs, so questions requiring visual reading of the image cannot be
// answered from this path.
func describeImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", fmt.Errorf("decode image header: %w", err)
	}

	return fmt.Sprintf("image size: %dx%d, format: %s, mode: %s", cfg.Width, cfg.Height, format, colorModeName(cfg.ColorModel)), nil
}

func colorModeName(m color.Model) string {
	// Palette is a slice type; it must be ruled out before the equality
	// switch below or the interface comparison panics.
	if _, ok := m.(color.Palette); ok {
		return "Paletted"
	}

	switch m {
	case color.RGBAModel:
		return "RGBA"
	case color.NRGBAModel:
		return "NRGBA"
	case color.GrayModel:
		return "Gray"
	case color.Gray16Model:
		return "Gray16"
	case color.YCbCrModel:
		return "YCbCr"
	case color.CMYKModel:
		return "CMYK"
	}

	return "unknown"
}

// describeAudio reports duration and bitrate metadata, never a transcription.
func describeAudio(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)

	var (
		duration time.Duration
		bitrate  mp3.FrameBitRate
		frame    mp3.Frame
		skipped  int
	)

	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if err == io.EOF {
				break
			}
			if duration == 0 {
				return "", fmt.Errorf("decode mp3: %w", err)
			}
			break
		}

		duration += frame.Duration()
		bitrate = frame.Header().BitRate()
	}

	return fmt.Sprintf("mp3 duration: %.1f seconds, bitrate: %d bps", duration.Seconds(), int(bitrate)), nil
}
