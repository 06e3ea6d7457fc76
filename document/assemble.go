package document

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/wudi/pdfwriter/cos"
	"github.com/wudi/pdfwriter/scripting"
)

var (
	nameLang       = cos.MustName("Lang")
	nameNames      = cos.MustName("Names")
	nameJavaScript = cos.MustName("JavaScript")
	nameS          = cos.MustName("S")
	nameJS         = cos.MustName("JS")
)

type assembler struct {
	doc    *Document
	table  *cos.Table
	fanout int

	pageRefs []cos.Reference
	parents  []cos.Reference
	fonts    map[uint64]cos.Reference
	images   map[uint64]cos.Reference
}

// Assemble lowers doc into an object table whose root is the catalog and
// whose Info entry, when doc carries metadata, is the Info dictionary.
//
// Objects are numbered catalog first, then the page tree depth-first with
// leaf pages in document order, then fonts, images, content streams,
// scripts and finally the Info dictionary.
func Assemble(doc *Document) (*cos.Table, error) {
	if doc == nil || len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}
	scripts := append([]Script(nil), doc.JavaScript...)
	sort.SliceStable(scripts, func(i, j int) bool { return scripts[i].Name < scripts[j].Name })
	for _, s := range scripts {
		if err := scripting.Check(s.Name, s.Source); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidScript, s.Name, err)
		}
	}

	a := &assembler{
		doc:      doc,
		table:    cos.NewTable(),
		fanout:   doc.Options.PageTreeFanout,
		pageRefs: make([]cos.Reference, len(doc.Pages)),
		parents:  make([]cos.Reference, len(doc.Pages)),
		fonts:    make(map[uint64]cos.Reference),
		images:   make(map[uint64]cos.Reference),
	}
	if a.fanout < 2 {
		a.fanout = DefaultPageTreeFanout
	}
	a.table.SetVersion(doc.Version)

	catalog := a.table.Reserve()
	pages, err := a.allocTree(0, len(doc.Pages), cos.Reference{})
	if err != nil {
		return nil, err
	}

	resources := make([]cos.Dictionary, len(doc.Pages))
	for i := range doc.Pages {
		if resources[i], err = a.fontResources(doc.Pages[i].Resources); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}
	for i := range doc.Pages {
		xobjects, err := a.imageResources(doc.Pages[i].Resources)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
		if xobjects.Len() > 0 {
			resources[i] = resources[i].With(cos.NameXObject, xobjects)
		}
	}
	contents := make([]cos.Reference, len(doc.Pages))
	for i, p := range doc.Pages {
		if len(p.Contents) == 0 {
			continue
		}
		contents[i] = a.table.Add(cos.NewStream(cos.Dict(), bytes.Join(p.Contents, []byte("\n"))))
	}
	var names cos.Value
	if len(scripts) > 0 {
		names = a.scripts(scripts)
	}
	if !doc.Info.empty() {
		a.table.SetInfo(a.table.Add(infoDictionary(doc.Info)))
	}

	for i, p := range doc.Pages {
		if err := a.table.Set(a.pageRefs[i], a.page(i, p, resources[i], contents[i])); err != nil {
			return nil, err
		}
	}
	root := cos.Dict(
		cos.Pair(cos.NameType, cos.NameCatalog),
		cos.Pair(cos.NamePages, pages),
	)
	if doc.Lang != "" {
		root = root.With(nameLang, cos.NewText(doc.Lang))
	}
	if names != nil {
		root = root.With(nameNames, names)
	}
	if err := a.table.Set(catalog, root); err != nil {
		return nil, err
	}
	a.table.SetRoot(catalog)
	return a.table, nil
}

// allocTree reserves a page tree node covering pages [first, first+n) and,
// below it, either the leaf pages themselves or up to fanout balanced
// subtrees.
func (a *assembler) allocTree(first, n int, parent cos.Reference) (cos.Reference, error) {
	node := a.table.Reserve()
	kids := make([]cos.Value, 0, a.fanout)
	if n <= a.fanout {
		for i := first; i < first+n; i++ {
			a.pageRefs[i] = a.table.Reserve()
			a.parents[i] = node
			kids = append(kids, a.pageRefs[i])
		}
	} else {
		chunk := a.fanout
		for chunk*a.fanout < n {
			chunk *= a.fanout
		}
		children := (n + chunk - 1) / chunk
		size, rem := n/children, n%children
		start := first
		for c := 0; c < children; c++ {
			k := size
			if c < rem {
				k++
			}
			kid, err := a.allocTree(start, k, node)
			if err != nil {
				return cos.Reference{}, err
			}
			kids = append(kids, kid)
			start += k
		}
	}

	dict := cos.Dict(
		cos.Pair(cos.NameType, cos.NamePages),
		cos.Pair(cos.NameKids, cos.NewArray(kids...)),
		cos.Pair(cos.NameCount, cos.Int(int64(n))),
	)
	if !parent.IsZero() {
		dict = dict.With(cos.NameParent, parent)
	}
	return node, a.table.Set(node, dict)
}

func (a *assembler) page(i int, p Page, resources cos.Dictionary, contents cos.Reference) cos.Dictionary {
	media := p.MediaBox
	if media.IsZero() {
		media = A4
	}
	dict := cos.Dict(
		cos.Pair(cos.NameType, cos.NamePage),
		cos.Pair(cos.NameParent, a.parents[i]),
		cos.Pair(cos.NameMediaBox, rectArray(media)),
		cos.Pair(cos.NameResources, resources),
	)
	if !p.CropBox.IsZero() {
		dict = dict.With(cos.NameCropBox, rectArray(p.CropBox))
	}
	if rot := normalizeRotation(p.Rotate); rot != 0 {
		dict = dict.With(cos.NameRotate, cos.Int(int64(rot)))
	}
	if !contents.IsZero() {
		dict = dict.With(cos.NameContents, contents)
	}
	return dict
}

// scripts adds one JavaScript action per script and returns the catalog
// Names dictionary pointing at them. scripts must be sorted by name.
func (a *assembler) scripts(scripts []Script) cos.Dictionary {
	tree := make([]cos.Value, 0, 2*len(scripts))
	for _, s := range scripts {
		ref := a.table.Add(cos.Dict(
			cos.Pair(nameS, nameJavaScript),
			cos.Pair(nameJS, cos.NewText(s.Source)),
		))
		tree = append(tree, cos.NewText(s.Name), ref)
	}
	return cos.Dict(cos.Pair(nameJavaScript, cos.Dict(cos.Pair(nameNames, cos.NewArray(tree...)))))
}

func rectArray(r Rectangle) cos.Array {
	return cos.Floats(r.LLX, r.LLY, r.URX, r.URY)
}

// normalizeRotation rounds deg to the nearest quarter turn in [0, 360).
func normalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return (deg + 45) / 90 * 90 % 360
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func hashKey(parts ...[]byte) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
