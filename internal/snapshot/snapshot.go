// Package snapshot saves a downscaled, captioned screenshot when a file
// fails, so the operator can see what the target application was showing.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/exportbot/internal/config"
	"github.com/mj1618/exportbot/internal/model"
	"github.com/mj1618/exportbot/internal/platform"
)

const captionHeight = 20

// Taker writes failure snapshots into a directory.
type Taker struct {
	shot     platform.Screenshotter
	dir      string
	maxWidth int
	now      func() time.Time
	log      *log.Logger
}

// New returns a Taker, or nil when snapshots are disabled (no directory or
// no screen capture backend).
func New(shot platform.Screenshotter, cfg config.SnapshotConfig, logger *log.Logger) *Taker {
	if shot == nil || cfg.Dir == "" {
		return nil
	}
	return &Taker{shot: shot, dir: cfg.Dir, maxWidth: cfg.MaxWidth, now: time.Now, log: logger}
}

// Capture saves the current screen for a failed file and returns the PNG path.
func (t *Taker) Capture(file model.TargetFile, stage model.Stage) (string, error) {
	img, err := t.shot.CaptureScreen()
	if err != nil {
		return "", errors.Wrap(err, "capture screen")
	}
	now := t.now()
	img = Scale(img, t.maxWidth)
	img = Caption(img, fmt.Sprintf("%s  failed at %s  %s", file.Name(), stage, now.Format(time.DateTime)))

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create snapshot dir %s", t.dir)
	}
	name := fmt.Sprintf("%s-%s-%s.png", now.Format("20060102-150405"), safeName(file.Name()), stage)
	path := filepath.Join(t.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "create snapshot file")
	}
	if err := writePNG(f, img); err != nil {
		os.Remove(path)
		return "", err
	}
	t.log.Info("snapshot saved", "path", path)
	return path, nil
}

// writePNG encodes img into w and closes it. A failed close means the data
// may never have reached the disk.
func writePNG(w io.WriteCloser, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		w.Close()
		return errors.Wrap(err, "encode snapshot")
	}
	return errors.Wrap(w.Close(), "close snapshot file")
}

// Scale shrinks img proportionally so it is at most maxWidth wide.
// A non-positive maxWidth keeps the original size.
func Scale(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Caption returns a copy of img with a dark strip underneath holding text.
func Caption(img image.Image, text string) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()+captionHeight))
	draw.Draw(out, image.Rect(0, 0, b.Dx(), b.Dy()), img, b.Min, draw.Src)
	strip := image.Rect(0, b.Dy(), b.Dx(), b.Dy()+captionHeight)
	draw.Draw(out, strip, image.NewUniform(color.RGBA{A: 255}), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		// basicfont glyphs are 13px tall with an 11px ascent.
		Dot: fixed.P(4, b.Dy()+15),
	}
	d.DrawString(text)
	return out
}

func safeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		}
		return '_'
	}, name)
}
