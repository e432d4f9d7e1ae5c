// Package server exposes blendkit as the HTTP/websocket tile-assembly
// service spec.md §1 mentions in passing ("a server-side tile assembler").
// It is grounded on the teacher's stream/server package: the same echo
// app shape and gorilla/websocket upgrader, repurposed from streaming
// decoded video frames to submitting and returning blend jobs.
package server

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/tmpim/blendkit"
)

// parseHexColor parses a "#RRGGBB" or "#RRGGBBAA" string into a
// color.RGBA, matching the hex format spec.md §6 defines for the matte
// option (leading "#" optional, exactly 6 or 8 digits).
func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")

	switch len(s) {
	case 6:
		v, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid palette color %q: %s", s, err)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
	case 8:
		v, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid palette color %q: %s", s, err)
		}
		return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
	default:
		return color.RGBA{}, fmt.Errorf("invalid palette color %q: must be 6 or 8 hex digits", s)
	}
}

// layerRequest is the wire form of blendkit.LayerInput: buffers travel as
// base64 in JSON requests.
type layerRequest struct {
	Buffer string `json:"buffer"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

type tintRangeRequest [2]float64

func (r tintRangeRequest) toRange() blendkit.TintRange {
	return blendkit.TintRange{Lo: r[0], Hi: r[1]}
}

type tintRequest struct {
	H tintRangeRequest `json:"h"`
	S tintRangeRequest `json:"s"`
	L tintRangeRequest `json:"l"`
	A tintRangeRequest `json:"a"`
}

// optionsRequest mirrors blendkit.Options for JSON transport. Palette
// travels as a list of "#RRGGBB"/"#RRGGBBAA" strings rather than the
// binary Palette type.
type optionsRequest struct {
	Format      string       `json:"format"`
	Quality     int          `json:"quality"`
	Reencode    bool         `json:"reencode"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Matte       string       `json:"matte"`
	Palette     []string     `json:"palette"`
	Mode        string       `json:"mode"`
	Encoder     string       `json:"encoder"`
	Compression int          `json:"compression"`
	Tint        *tintRequest `json:"tint"`
}

// blendRequest is the full JSON body accepted by POST /api/blend and by
// each websocket frame on the streaming endpoint.
type blendRequest struct {
	Layers  []layerRequest  `json:"layers"`
	Options *optionsRequest `json:"options"`
}

// blendResponse is the JSON reply: output travels base64-encoded
// alongside the decoder warnings spec.md §6's callback passes as its
// third argument.
type blendResponse struct {
	Output   string   `json:"output"`
	Warnings []string `json:"warnings"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r *blendRequest) toLayers() ([]blendkit.LayerInput, error) {
	layers := make([]blendkit.LayerInput, len(r.Layers))
	for i, l := range r.Layers {
		buf, err := base64.StdEncoding.DecodeString(l.Buffer)
		if err != nil {
			return nil, err
		}
		layers[i] = blendkit.LayerInput{Buffer: buf, X: l.X, Y: l.Y}
	}
	return layers, nil
}

func (o *optionsRequest) toOptions() (*blendkit.Options, error) {
	if o == nil {
		return nil, nil
	}

	opts := &blendkit.Options{
		Format:      o.Format,
		Quality:     o.Quality,
		Reencode:    o.Reencode,
		Width:       o.Width,
		Height:      o.Height,
		Matte:       o.Matte,
		Mode:        o.Mode,
		Encoder:     o.Encoder,
		Compression: o.Compression,
	}

	if len(o.Palette) > 0 {
		pal := &blendkit.Palette{Colors: make([]color.RGBA, 0, len(o.Palette))}
		for _, hex := range o.Palette {
			c, err := parseHexColor(hex)
			if err != nil {
				return nil, err
			}
			pal.Colors = append(pal.Colors, c)
		}
		opts.Palette = pal
	}

	if o.Tint != nil {
		opts.Tint = &blendkit.TintOptions{
			H: o.Tint.H.toRange(),
			S: o.Tint.S.toRange(),
			L: o.Tint.L.toRange(),
			A: o.Tint.A.toRange(),
		}
	}

	return opts, nil
}
