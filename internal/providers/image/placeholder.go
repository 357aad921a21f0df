package image

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	stdimage "image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
)

const (
	defaultEdge = 512
	maxEdge     = 2048
)

// Placeholder renders deterministic striped PNGs seeded from the request. It
// stands in for a real image model in development and tests.
type Placeholder struct{}

func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

func (g *Placeholder) Generate(ctx context.Context, req GenerateRequest) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	width, height := clampEdge(req.Width), clampEdge(req.Height)
	seed := deterministicSeed(req.Platform, req.ElementID, req.Prompt, width, height)
	data, err := renderPlaceholder(width, height, seed, req.Background)
	if err != nil {
		return Asset{}, fmt.Errorf("image: render placeholder: %w", err)
	}
	return Asset{
		StorageKey: placeholderKey(req.Platform, seed),
		Format:     "image/png",
		Width:      width,
		Height:     height,
		Data:       data,
	}, nil
}

var _ Generator = (*Placeholder)(nil)

func placeholderKey(platform, seed string) string {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		platform = "shared"
	}
	return fmt.Sprintf("generated/%s/%s.png", platform, seed)
}

func renderPlaceholder(width, height int, seed, background string) ([]byte, error) {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, width, height))
	base, ok := parseHex(background)
	if !ok {
		base = colorFromSeed(seed, 0)
	}
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &stdimage.Uniform{base}, stdimage.Point{}, draw.Src)

	// Centre block marks where the product sits.
	inset := stdimage.Rect(width/4, height/4, width-width/4, height-height/4)
	draw.Draw(img, inset, &stdimage.Uniform{accent}, stdimage.Point{}, draw.Src)

	diagonal := colorFromSeed(seed, 2)
	step := max(16, width/32)
	for x := inset.Min.X; x < inset.Max.X; x += step {
		for y := inset.Min.Y; y < inset.Max.Y; y++ {
			xx := x + (y - inset.Min.Y)
			if xx >= inset.Max.X {
				break
			}
			img.Set(xx, y, diagonal)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clampEdge(v int) int {
	switch {
	case v <= 0:
		return defaultEdge
	case v > maxEdge:
		return maxEdge
	default:
		return v
	}
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if len(seed) < 6 {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{R: hexByte(segment[0:2]), G: hexByte(segment[2:4]), B: hexByte(segment[4:6]), A: 255}
}

func parseHex(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	if _, err := strconv.ParseUint(s, 16, 32); err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: hexByte(s[0:2]), G: hexByte(s[2:4]), B: hexByte(s[4:6]), A: 255}, true
}

func hexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		fmt.Fprintf(hasher, "%v|", part)
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}
