package document

import (
	"encoding/binary"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/wudi/pdfwriter/cos"
	"github.com/wudi/pdfwriter/encoding"
)

var (
	nameFont             = cos.MustName("Font")
	nameType1            = cos.MustName("Type1")
	nameBaseFont         = cos.MustName("BaseFont")
	nameEncoding         = cos.MustName("Encoding")
	nameImage            = cos.MustName("Image")
	nameWidth            = cos.MustName("Width")
	nameHeight           = cos.MustName("Height")
	nameColorSpace       = cos.MustName("ColorSpace")
	nameBitsPerComponent = cos.MustName("BitsPerComponent")
	nameSMask            = cos.MustName("SMask")
	nameDeviceRGB        = cos.MustName("DeviceRGB")
	nameDeviceGray       = cos.MustName("DeviceGray")
)

// standardFonts lists the base fonts every reader provides. The value marks
// symbolic fonts, which carry their own built-in encoding.
var standardFonts = map[string]bool{
	"Courier":               false,
	"Courier-Bold":          false,
	"Courier-BoldOblique":   false,
	"Courier-Oblique":       false,
	"Helvetica":             false,
	"Helvetica-Bold":        false,
	"Helvetica-BoldOblique": false,
	"Helvetica-Oblique":     false,
	"Times-Roman":           false,
	"Times-Bold":            false,
	"Times-BoldItalic":      false,
	"Times-Italic":          false,
	"Symbol":                true,
	"ZapfDingbats":          true,
}

func (a *assembler) fontResources(res Resources) (cos.Dictionary, error) {
	if len(res.Fonts) == 0 {
		return cos.Dict(), nil
	}
	fonts := make([]cos.Entry, 0, len(res.Fonts))
	for _, key := range sortedKeys(res.Fonts) {
		name, err := cos.NewName(key)
		if err != nil {
			return cos.Dictionary{}, fmt.Errorf("font resource %q: %w", key, err)
		}
		ref, err := a.ensureFont(res.Fonts[key])
		if err != nil {
			return cos.Dictionary{}, fmt.Errorf("font resource %q: %w", key, err)
		}
		fonts = append(fonts, cos.Pair(name, ref))
	}
	return cos.Dict(cos.Pair(cos.NameFont, cos.Dict(fonts...))), nil
}

func (a *assembler) ensureFont(f Font) (cos.Reference, error) {
	symbolic, ok := standardFonts[f.BaseFont]
	if !ok {
		return cos.Reference{}, fmt.Errorf("%w: %q", ErrUnknownFont, f.BaseFont)
	}
	enc := ""
	if !symbolic {
		enc = f.Encoding
		if enc == "" {
			enc = encoding.WinAnsi.Name().String()
		}
		if _, err := encoding.Lookup(enc); err != nil {
			return cos.Reference{}, err
		}
	}
	key := hashKey([]byte(f.BaseFont), []byte(enc))
	if ref, ok := a.fonts[key]; ok {
		return ref, nil
	}

	dict := cos.Dict(
		cos.Pair(cos.NameType, nameFont),
		cos.Pair(cos.NameSubtype, nameType1),
		cos.Pair(nameBaseFont, cos.MustName(f.BaseFont)),
	)
	if enc != "" {
		dict = dict.With(nameEncoding, cos.MustName(enc))
	}
	ref := a.table.Add(dict)
	a.fonts[key] = ref
	return ref, nil
}

func (a *assembler) imageResources(res Resources) (cos.Dictionary, error) {
	entries := make([]cos.Entry, 0, len(res.Images))
	for _, key := range sortedKeys(res.Images) {
		name, err := cos.NewName(key)
		if err != nil {
			return cos.Dictionary{}, fmt.Errorf("image resource %q: %w", key, err)
		}
		img := res.Images[key]
		if img == nil {
			return cos.Dictionary{}, fmt.Errorf("image resource %q: nil image", key)
		}
		if err := validateImageBounds(img.Bounds().Dx(), img.Bounds().Dy()); err != nil {
			return cos.Dictionary{}, fmt.Errorf("image resource %q: %w", key, err)
		}
		entries = append(entries, cos.Pair(name, a.ensureImage(img)))
	}
	return cos.Dict(entries...), nil
}

// ensureImage lowers img to an 8-bit DeviceRGB image XObject. Any
// transparency is split into a DeviceGray soft mask allocated right after
// the image.
func (a *assembler) ensureImage(img image.Image) cos.Reference {
	img = downscale(img, a.doc.Options.MaxImageDimension)
	w, h, rgb, alpha := splitAlpha(img)

	dims := make([]byte, 16)
	binary.BigEndian.PutUint64(dims, uint64(w))
	binary.BigEndian.PutUint64(dims[8:], uint64(h))
	key := hashKey(dims, rgb, alpha)
	if ref, ok := a.images[key]; ok {
		return ref
	}

	dict := imageDict(w, h, nameDeviceRGB)
	ref := a.table.Reserve()
	if alpha != nil {
		mask := a.table.Add(cos.NewStream(imageDict(w, h, nameDeviceGray), alpha))
		dict = dict.With(nameSMask, mask)
	}
	// ref was reserved above, so Set cannot fail.
	_ = a.table.Set(ref, cos.NewStream(dict, rgb))
	a.images[key] = ref
	return ref
}

func imageDict(w, h int, cs cos.Name) cos.Dictionary {
	return cos.Dict(
		cos.Pair(cos.NameType, cos.NameXObject),
		cos.Pair(cos.NameSubtype, nameImage),
		cos.Pair(nameWidth, cos.Int(int64(w))),
		cos.Pair(nameHeight, cos.Int(int64(h))),
		cos.Pair(nameColorSpace, cs),
		cos.Pair(nameBitsPerComponent, cos.Int(8)),
	)
}

// downscale shrinks img so neither side exceeds limit, keeping the aspect
// ratio. limit <= 0 disables scaling.
func downscale(img image.Image, limit int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if limit <= 0 || (w <= limit && h <= limit) {
		return img
	}
	scale := float64(limit) / float64(max(w, h))
	tw := max(1, int(float64(w)*scale))
	th := max(1, int(float64(h)*scale))
	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// splitAlpha returns the packed RGB samples of img and, when any pixel is
// not fully opaque, its alpha channel.
func splitAlpha(src image.Image) (w, h int, rgb, alpha []byte) {
	bounds := src.Bounds()
	w, h = bounds.Dx(), bounds.Dy()

	nrgba, ok := src.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*w {
		nrgba = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)
	}

	rgb = make([]byte, 0, w*h*3)
	alpha = make([]byte, 0, w*h)
	hasAlpha := false
	for i := 0; i < w*h; i++ {
		offset := i * 4
		rgb = append(rgb, nrgba.Pix[offset], nrgba.Pix[offset+1], nrgba.Pix[offset+2])
		a := nrgba.Pix[offset+3]
		alpha = append(alpha, a)
		if a < 255 {
			hasAlpha = true
		}
	}
	if !hasAlpha {
		alpha = nil
	}
	return w, h, rgb, alpha
}
