package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/axion/internal/engine/framebuffer"
	"github.com/Faultbox/axion/internal/logger"
)

// ScreenshotCapture writes frames to timestamped PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// GenerateFilename returns the path the next capture is written to.
func (sc *ScreenshotCapture) GenerateFilename() string {
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, sc.now().Format("2006-01-02_15-04-05"))
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}

// CaptureFramebuffer saves fb under a generated name and returns the path.
func (sc *ScreenshotCapture) CaptureFramebuffer(fb *framebuffer.Framebuffer) (string, error) {
	path := sc.GenerateFilename()
	if err := SaveFramebuffer(path, fb); err != nil {
		return "", err
	}
	return path, nil
}

// SaveFramebuffer reads color attachment 0 of fb and writes it to path.
func SaveFramebuffer(path string, fb *framebuffer.Framebuffer) error {
	if fb == nil {
		return fmt.Errorf("screenshot: no framebuffer")
	}
	w, h := fb.Size()
	return SavePixels(path, fb.ReadPixels(), w, h)
}

// ToImage converts bottom-up RGBA pixels, as read back from the GPU, to a
// top-down image.
func ToImage(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// SavePixels writes bottom-up RGBA pixels to a PNG file at path, creating
// its directory.
func SavePixels(path string, pixels []byte, width, height int) error {
	img, err := ToImage(pixels, width, height)
	if err != nil {
		return err
	}
	return SaveImage(path, img)
}

// SaveImage writes img to a PNG file at path, creating its directory.
func SaveImage(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	logger.Named("debug").Info("screenshot saved", zap.String("path", path), zap.Int("width", img.Bounds().Dx()), zap.Int("height", img.Bounds().Dy()))
	return nil
}
