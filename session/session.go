// Package session implements the on-disk persistence format spec.md §6
// describes: a JSON document wrapping a worksheet.Image plus painter state,
// compressed with zstd the way svanichkin-Babe's codec3.go wraps its
// bitstream payload, following the same "raw JSON then zstd-wrap" shape.
package session

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/unicode/norm"

	"img2worksheet/worksheet"
)

// CurrentVersion is the document format version New writes.
const CurrentVersion = 1

// Document is the persisted session: a processed worksheet plus the
// painter's own progress and settings, none of which the core pipeline
// reads back — it only needs to round-trip them intact.
type Document struct {
	Version       int             `json:"version"`
	ArtistName    string          `json:"artistName"`
	Timestamp     int64           `json:"timestamp"`
	SourceImage   string          `json:"sourceImage"`
	ProcessedData ProcessedData   `json:"processedData"`
	FilledRegions []int           `json:"filledRegions"`
	ActiveTheme   string          `json:"activeTheme"`
	ToolConfig    json.RawMessage `json:"toolConfig"`
}

// ProcessedData mirrors worksheet.Image with PixelData and RegionMap
// serialized as base64 strings, the more compact of the two encodings
// spec.md §6 allows.
type ProcessedData struct {
	OriginalWidth  int                      `json:"originalWidth"`
	OriginalHeight int                      `json:"originalHeight"`
	Regions        []worksheet.Region       `json:"regions"`
	Palette        []worksheet.PaletteColor `json:"palette"`
	PixelData      string                   `json:"pixelData"`
	RegionMap      string                   `json:"regionMap"`
}

// FromImage builds a ProcessedData from a worksheet.Image.
func FromImage(img *worksheet.Image) ProcessedData {
	return ProcessedData{
		OriginalWidth:  img.OriginalWidth,
		OriginalHeight: img.OriginalHeight,
		Regions:        img.Regions,
		Palette:        img.Palette,
		PixelData:      base64.StdEncoding.EncodeToString(img.PixelData),
		RegionMap:      encodeRegionMap(img.RegionMap),
	}
}

// ToImage reconstructs a worksheet.Image from a ProcessedData.
func (p ProcessedData) ToImage() (*worksheet.Image, error) {
	pixelData, err := base64.StdEncoding.DecodeString(p.PixelData)
	if err != nil {
		return nil, fmt.Errorf("session: decode pixelData: %w", err)
	}
	regionMap, err := decodeRegionMap(p.RegionMap)
	if err != nil {
		return nil, fmt.Errorf("session: decode regionMap: %w", err)
	}
	return &worksheet.Image{
		OriginalWidth:  p.OriginalWidth,
		OriginalHeight: p.OriginalHeight,
		Regions:        p.Regions,
		Palette:        p.Palette,
		PixelData:      pixelData,
		RegionMap:      regionMap,
	}, nil
}

func encodeRegionMap(m []int32) string {
	buf := make([]byte, len(m)*4)
	for i, v := range m {
		buf[i*4] = byte(v >> 24)
		buf[i*4+1] = byte(v >> 16)
		buf[i*4+2] = byte(v >> 8)
		buf[i*4+3] = byte(v)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func decodeRegionMap(s string) ([]int32, error) {
	buf, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("session: regionMap length %d not a multiple of 4", len(buf))
	}
	out := make([]int32, len(buf)/4)
	for i := range out {
		out[i] = int32(buf[i*4])<<24 | int32(buf[i*4+1])<<16 | int32(buf[i*4+2])<<8 | int32(buf[i*4+3])
	}
	return out, nil
}

// New builds a Document from a processed worksheet and painter state.
// ArtistName is normalized to NFC so visually identical names typed on
// different input methods compare equal on reload.
func New(img *worksheet.Image, artistName string, timestampMS int64, sourceImage string, filledRegions []int, activeTheme string, toolConfig json.RawMessage) Document {
	return Document{
		Version:       CurrentVersion,
		ArtistName:    norm.NFC.String(artistName),
		Timestamp:     timestampMS,
		SourceImage:   sourceImage,
		ProcessedData: FromImage(img),
		FilledRegions: filledRegions,
		ActiveTheme:   activeTheme,
		ToolConfig:    toolConfig,
	}
}

// Encode serializes doc to JSON and compresses it with zstd.
func Encode(doc Document) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("session: marshal: %w", err)
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("session: zstd writer: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		return nil, fmt.Errorf("session: zstd write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("session: zstd close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(data []byte) (Document, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("session: zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return Document{}, fmt.Errorf("session: zstd decode: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("session: unmarshal: %w", err)
	}
	return doc, nil
}
