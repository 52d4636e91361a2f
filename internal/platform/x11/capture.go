//go:build linux

package x11

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// Screen captures the root window with GetImage.
type Screen struct {
	c *client
}

func (s *Screen) CaptureScreen() (image.Image, error) {
	if err := s.c.connect(); err != nil {
		return nil, err
	}
	geom, err := xproto.GetGeometry(s.c.conn, xproto.Drawable(s.c.root)).Reply()
	if err != nil {
		return nil, fmt.Errorf("root geometry: %w", err)
	}
	w, h := int(geom.Width), int(geom.Height)
	reply, err := xproto.GetImage(s.c.conn, xproto.ImageFormatZPixmap, xproto.Drawable(s.c.root),
		0, 0, geom.Width, geom.Height, ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return bgrxToRGBA(reply.Data, w, h)
}

// bgrxToRGBA converts a 32 bits-per-pixel little-endian ZPixmap.
func bgrxToRGBA(data []byte, w, h int) (*image.RGBA, error) {
	if len(data) < w*h*4 {
		return nil, fmt.Errorf("unexpected image size: %d bytes for %dx%d", len(data), w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h*4; i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = data[i+2], data[i+1], data[i], 255
	}
	return img, nil
}
