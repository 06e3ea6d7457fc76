// Package document lowers a page-oriented description into a closed object
// table ready for the writer.
package document

import (
	"errors"
	"image"
	"time"
)

var (
	ErrNoPages       = errors.New("document: no pages")
	ErrInvalidScript = errors.New("document: invalid script")
	ErrUnknownFont   = errors.New("document: not a standard font")
	ErrImageTooLarge = errors.New("document: image too large")
)

// A4 is the default media box.
var A4 = Rectangle{URX: 595, URY: 842}

// DefaultPageTreeFanout bounds the number of kids per page tree node.
const DefaultPageTreeFanout = 16

// Document describes a whole file.
type Document struct {
	// Version is written into the header, e.g. "1.7". Empty leaves the
	// writer default.
	Version    string
	Pages      []Page
	Info       Info
	Lang       string
	JavaScript []Script
	Options    Options
}

type Options struct {
	// MaxImageDimension downscales images whose width or height exceeds it.
	// Zero keeps images at their original size.
	MaxImageDimension int
	// PageTreeFanout is the maximum number of kids per page tree node;
	// values below 2 select DefaultPageTreeFanout.
	PageTreeFanout int
}

type Page struct {
	// MediaBox defaults to A4 when empty.
	MediaBox Rectangle
	CropBox  Rectangle
	// Rotate is normalised to a multiple of 90 in [0, 360).
	Rotate int
	// Contents are content stream fragments, joined with newlines into a
	// single stream.
	Contents  [][]byte
	Resources Resources
}

// Resources maps resource names, as used by content operators, to fonts and
// images.
type Resources struct {
	Fonts  map[string]Font
	Images map[string]image.Image
}

// Font names one of the fourteen standard Type1 fonts.
type Font struct {
	BaseFont string
	// Encoding is a named encoding such as WinAnsiEncoding. Symbolic fonts
	// ignore it; other fonts default to WinAnsiEncoding.
	Encoding string
}

type Info struct {
	Title        string
	Author       string
	Subject      string
	Keywords     []string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time
}

func (i Info) empty() bool {
	return i.Title == "" && i.Author == "" && i.Subject == "" && len(i.Keywords) == 0 &&
		i.Creator == "" && i.Producer == "" && i.CreationDate.IsZero() && i.ModDate.IsZero()
}

// Script is a named document-level JavaScript action.
type Script struct {
	Name   string
	Source string
}

type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// IsZero reports whether r is the zero Rectangle.
func (r Rectangle) IsZero() bool { return r == Rectangle{} }

// Width returns URX - LLX.
func (r Rectangle) Width() float64 { return r.URX - r.LLX }

// Height returns URY - LLY.
func (r Rectangle) Height() float64 { return r.URY - r.LLY }
