package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register decoders
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wudi/pdfwriter/document"
)

// Manifest is the YAML description accepted by the build command.
type Manifest struct {
	Version string       `yaml:"version,omitempty"`
	Lang    string       `yaml:"lang,omitempty"`
	Info    InfoSpec     `yaml:"info,omitempty"`
	Options OptionsSpec  `yaml:"options,omitempty"`
	Scripts []ScriptSpec `yaml:"scripts,omitempty"`
	Pages   []PageSpec   `yaml:"pages"`
}

type InfoSpec struct {
	Title    string    `yaml:"title,omitempty"`
	Author   string    `yaml:"author,omitempty"`
	Subject  string    `yaml:"subject,omitempty"`
	Keywords []string  `yaml:"keywords,omitempty"`
	Creator  string    `yaml:"creator,omitempty"`
	Producer string    `yaml:"producer,omitempty"`
	Created  time.Time `yaml:"created,omitempty"`
	Modified time.Time `yaml:"modified,omitempty"`
}

type OptionsSpec struct {
	MaxImageDimension int `yaml:"max_image_dimension,omitempty"`
	PageTreeFanout    int `yaml:"page_tree_fanout,omitempty"`
}

// ScriptSpec holds inline Source or a File path relative to the manifest.
type ScriptSpec struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source,omitempty"`
	File   string `yaml:"file,omitempty"`
}

type PageSpec struct {
	MediaBox     []float64           `yaml:"media_box,omitempty"`
	CropBox      []float64           `yaml:"crop_box,omitempty"`
	Rotate       int                 `yaml:"rotate,omitempty"`
	Contents     []string            `yaml:"contents,omitempty"`
	ContentFiles []string            `yaml:"content_files,omitempty"`
	Fonts        map[string]FontSpec `yaml:"fonts,omitempty"`
	// Images maps resource names to PNG or JPEG files.
	Images map[string]string `yaml:"images,omitempty"`
}

type FontSpec struct {
	BaseFont string `yaml:"base_font"`
	Encoding string `yaml:"encoding,omitempty"`
}

// LoadManifest reads a manifest file and resolves the files it references
// relative to the manifest's directory.
func LoadManifest(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	return m.Document(filepath.Dir(path))
}

// ParseManifest decodes data, rejecting unknown fields.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(m.Pages) == 0 {
		return nil, fmt.Errorf("invalid manifest: %w", document.ErrNoPages)
	}
	return &m, nil
}

// Document converts m into a document description, loading referenced
// files from dir.
func (m *Manifest) Document(dir string) (*document.Document, error) {
	doc := &document.Document{
		Version: m.Version,
		Lang:    m.Lang,
		Info: document.Info{
			Title:        m.Info.Title,
			Author:       m.Info.Author,
			Subject:      m.Info.Subject,
			Keywords:     m.Info.Keywords,
			Creator:      m.Info.Creator,
			Producer:     m.Info.Producer,
			CreationDate: m.Info.Created,
			ModDate:      m.Info.Modified,
		},
		Options: document.Options{
			MaxImageDimension: m.Options.MaxImageDimension,
			PageTreeFanout:    m.Options.PageTreeFanout,
		},
	}

	for _, s := range m.Scripts {
		src := s.Source
		if s.File != "" {
			data, err := os.ReadFile(resolve(dir, s.File))
			if err != nil {
				return nil, fmt.Errorf("script %q: %w", s.Name, err)
			}
			src = string(data)
		}
		doc.JavaScript = append(doc.JavaScript, document.Script{Name: s.Name, Source: src})
	}

	for i, p := range m.Pages {
		page, err := p.page(dir)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

func (p PageSpec) page(dir string) (document.Page, error) {
	media, err := rect("media_box", p.MediaBox)
	if err != nil {
		return document.Page{}, err
	}
	crop, err := rect("crop_box", p.CropBox)
	if err != nil {
		return document.Page{}, err
	}
	page := document.Page{MediaBox: media, CropBox: crop, Rotate: p.Rotate}

	for _, c := range p.Contents {
		page.Contents = append(page.Contents, []byte(c))
	}
	for _, name := range p.ContentFiles {
		data, err := os.ReadFile(resolve(dir, name))
		if err != nil {
			return document.Page{}, err
		}
		page.Contents = append(page.Contents, data)
	}

	if len(p.Fonts) > 0 {
		page.Resources.Fonts = make(map[string]document.Font, len(p.Fonts))
		for name, f := range p.Fonts {
			page.Resources.Fonts[name] = document.Font{BaseFont: f.BaseFont, Encoding: f.Encoding}
		}
	}
	if len(p.Images) > 0 {
		page.Resources.Images = make(map[string]image.Image, len(p.Images))
		for name, file := range p.Images {
			img, err := loadImage(resolve(dir, file))
			if err != nil {
				return document.Page{}, fmt.Errorf("image %q: %w", name, err)
			}
			page.Resources.Images[name] = img
		}
	}
	return page, nil
}

func rect(field string, v []float64) (document.Rectangle, error) {
	switch len(v) {
	case 0:
		return document.Rectangle{}, nil
	case 4:
		return document.Rectangle{LLX: v[0], LLY: v[1], URX: v[2], URY: v[3]}, nil
	}
	return document.Rectangle{}, fmt.Errorf("%s needs 4 numbers, got %d", field, len(v))
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
