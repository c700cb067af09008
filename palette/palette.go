// Package palette implements stage 2 of the worksheet pipeline: compacting
// the quantizer's raw centroids into a dense, stably-ordered palette and
// remapping the per-pixel cluster assignment onto it.
package palette

import (
	"errors"
	"fmt"
	"strconv"

	"img2worksheet/worksheet"
)

// ErrInvalidHex is returned by ParseHex when s isn't a "#rrggbb" string.
var ErrInvalidHex = errors.New("palette: hex color must be #rrggbb")

// Compact drops centroids that never appear in assignments, assigns stable
// 1-based ids in ascending order of first appearance while scanning
// assignments in pixel order, and returns the compacted palette alongside a
// remapped assignment array where each pixel's value is its 0-based index
// into the returned palette.
func Compact(centroids []worksheet.RGB, assignments []int32) ([]worksheet.PaletteColor, []int32) {
	// remap[oldIndex] = new 0-based index, or -1 until first seen.
	remap := make([]int32, len(centroids))
	for i := range remap {
		remap[i] = -1
	}

	entries := make([]worksheet.PaletteColor, 0, len(centroids))
	for _, a := range assignments {
		if remap[a] != -1 {
			continue
		}
		rgb := centroids[a]
		remap[a] = int32(len(entries))
		entries = append(entries, worksheet.PaletteColor{
			ID:        len(entries) + 1,
			RGB:       rgb,
			Hex:       hex(rgb),
			TextColor: textColor(rgb),
			Count:     0,
		})
	}

	remapped := make([]int32, len(assignments))
	for i, a := range assignments {
		remapped[i] = remap[a]
	}

	return entries, remapped
}

// hex formats an RGB as the conventional lowercase "#rrggbb" string.
func hex(c worksheet.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses a "#rrggbb" string back into an RGB, the inverse of hex.
// Satisfies the testable property that a palette entry's hex parses back to
// its rgb.
func ParseHex(s string) (worksheet.RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return worksheet.RGB{}, ErrInvalidHex
	}
	r, err := strconv.ParseUint(s[1:3], 16, 8)
	if err != nil {
		return worksheet.RGB{}, fmt.Errorf("%w: %s", ErrInvalidHex, s)
	}
	g, err := strconv.ParseUint(s[3:5], 16, 8)
	if err != nil {
		return worksheet.RGB{}, fmt.Errorf("%w: %s", ErrInvalidHex, s)
	}
	b, err := strconv.ParseUint(s[5:7], 16, 8)
	if err != nil {
		return worksheet.RGB{}, fmt.Errorf("%w: %s", ErrInvalidHex, s)
	}
	return worksheet.RGB{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// textColor applies the YIQ luminance rule: (299r+587g+114b)/1000 >= 128
// picks black label text, otherwise white.
func textColor(c worksheet.RGB) worksheet.TextColor {
	yiq := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	if yiq >= 128 {
		return worksheet.TextBlack
	}
	return worksheet.TextWhite
}
