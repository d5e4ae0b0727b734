package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"

	"galaxy-maker-server/internal/skeleton"
	"galaxy-maker-server/internal/view"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const dataURLPrefix = "data:image/png;base64,"

// PNGRenderer rasterises views the way the interactive canvas draws them and
// returns PNG data URLs.
type PNGRenderer struct {
	logger *slog.Logger
}

func NewPNGRenderer(logger *slog.Logger) *PNGRenderer {
	return &PNGRenderer{logger: logger.With("component", "png_renderer")}
}

func (r *PNGRenderer) Capture(cp Checkpoint, v *view.ViewState, rect *view.SelectionRect) (string, error) {
	if v == nil {
		return "", fmt.Errorf("capture %s: no view", cp)
	}

	img := Render(v)
	var out image.Image = img

	switch cp {
	case CheckpointRoot:
		caption(img, v.GalaxyType)
	case CheckpointCrop:
		if rect == nil || !rect.Valid() {
			return "", fmt.Errorf("capture %s: selection required", cp)
		}
		out = Crop(img, *rect)
	}

	url, err := EncodeDataURL(out)
	if err != nil {
		return "", fmt.Errorf("capture %s: %w", cp, err)
	}

	r.logger.Debug("View captured",
		"operation", "capture",
		"checkpoint", cp,
		"zoom_level", v.ZoomLevel,
		"bytes", len(url),
	)
	return url, nil
}

// Render draws every point of v onto a black canvas. Points no larger than
// 0.6 become single pixels, the rest filled discs.
func Render(v *view.ViewState) *image.RGBA {
	w := max(1, int(math.Ceil(v.Viewport.Width)))
	h := max(1, int(math.Ceil(v.Viewport.Height)))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	if v.Glow != nil {
		cx, cy := v.Viewport.Center()
		radius := math.Min(v.Viewport.Width, v.Viewport.Height) * skeleton.DiscFraction * 1.1
		glow(img, cx, cy, radius, *v.Glow)
	}

	for _, p := range v.Points {
		if p.Size <= 0.6 {
			blend(img, int(math.Floor(p.X)), int(math.Floor(p.Y)), p.Color, p.Color.A)
			continue
		}
		disc(img, p.X, p.Y, p.Size, p.Color)
	}
	return img
}

// Crop cuts rect out of img at its own size. Parts of rect outside img stay
// transparent.
func Crop(img *image.RGBA, rect view.SelectionRect) *image.RGBA {
	w := max(1, int(math.Round(rect.Width)))
	h := max(1, int(math.Round(rect.Height)))
	origin := image.Pt(int(math.Floor(rect.X)), int(math.Floor(rect.Y)))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	src := image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}.Intersect(img.Bounds())
	if src.Empty() {
		return dst
	}
	draw.Draw(dst, src.Sub(origin), img, src.Min, draw.Src)
	return dst
}

func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeDataURL reverses EncodeDataURL.
func DecodeDataURL(url string) ([]byte, error) {
	if len(url) < len(dataURLPrefix) || url[:len(dataURLPrefix)] != dataURLPrefix {
		return nil, fmt.Errorf("not a png data url")
	}
	return base64.StdEncoding.DecodeString(url[len(dataURLPrefix):])
}

func blend(img *image.RGBA, x, y int, c view.Color, a float64) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) || a <= 0 {
		return
	}
	a = math.Min(a, 1)
	i := img.PixOffset(x, y)
	px := img.Pix[i : i+3 : i+3]
	px[0] = mix(px[0], c.R, a)
	px[1] = mix(px[1], c.G, a)
	px[2] = mix(px[2], c.B, a)
}

func mix(dst, src uint8, a float64) uint8 {
	return uint8(math.Round(float64(dst)*(1-a) + float64(src)*a))
}

func disc(img *image.RGBA, cx, cy, radius float64, c view.Color) {
	x0, x1 := int(math.Floor(cx-radius)), int(math.Ceil(cx+radius))
	y0, y1 := int(math.Floor(cy-radius)), int(math.Ceil(cy+radius))
	r2 := radius * radius
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= r2 {
				blend(img, x, y, c, c.A)
			}
		}
	}
}

// glow fades c from the center out to radius.
func glow(img *image.RGBA, cx, cy, radius float64, c view.Color) {
	x0, x1 := int(math.Floor(cx-radius)), int(math.Ceil(cx+radius))
	y0, y1 := int(math.Floor(cy-radius)), int(math.Ceil(cy+radius))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / radius
			if d >= 1 {
				continue
			}
			blend(img, x, y, c, c.A*(1-d)*(1-d))
		}
	}
}

// caption writes the archetype name in the top-left corner.
func caption(img *image.RGBA, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 200, G: 215, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 20),
	}
	d.DrawString(text)
}
