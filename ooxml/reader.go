// Package ooxml reads Office Open XML packages (docx, xlsx) as text.
// Parts are located through package relationships, the same way office
// suites resolve them, rather than by hard-coded entry names.
package ooxml

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"

	"github.com/fwojciec/confscan"
)

// DefaultMaxPartSize caps the uncompressed size of a single part.
const DefaultMaxPartSize = 64 << 20

const (
	// sniffSize is how much of the file header is inspected before opening it as a zip.
	sniffSize = 262

	// maxRelsSize caps relationship parts independently of the part limit.
	maxRelsSize = 4 << 20
)

// Ensure Reader implements confscan.DocumentReader at compile time.
var _ confscan.DocumentReader = (*Reader)(nil)

// Reader implements confscan.DocumentReader for Open XML packages.
type Reader struct {
	fs          confscan.FileSystem
	maxPartSize uint64
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxPartSize sets the largest part, in bytes, the reader will inflate.
func WithMaxPartSize(n uint64) Option {
	return func(r *Reader) {
		r.maxPartSize = n
	}
}

// NewReader creates a Reader that opens files through fsys.
func NewReader(fsys confscan.FileSystem, opts ...Option) *Reader {
	r := &Reader{
		fs:          fsys,
		maxPartSize: DefaultMaxPartSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OpenText returns the raw content of the part targeted by the package's
// officeDocument relationship (word/document.xml for word-processing files).
func (r *Reader) OpenText(filePath string) (string, error) {
	pkg, err := r.open(filePath)
	if err != nil {
		return "", err
	}
	defer pkg.Close()

	rels, err := pkg.relationships("")
	if err != nil {
		return "", err
	}
	for _, rel := range rels {
		if rel.external || !strings.HasSuffix(rel.typ, "/officeDocument") {
			continue
		}
		return pkg.readPart(rel.target)
	}
	return "", confscan.Errorf(confscan.ENOTFOUND, "%s: main document part not found", filePath)
}

// OpenParts returns the raw content of every part reachable through
// relationships from the package root. Parts are visited breadth-first and
// each part is returned once. Relationship parts and external targets are
// not included.
func (r *Reader) OpenParts(filePath string) ([]string, error) {
	pkg, err := r.open(filePath)
	if err != nil {
		return nil, err
	}
	defer pkg.Close()

	rootRels, err := pkg.relationships("")
	if err != nil {
		return nil, err
	}

	var parts []string
	seen := make(map[string]bool)
	queue := internalTargets(rootRels)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		if !pkg.has(name) {
			continue
		}
		content, err := pkg.readPart(name)
		if err != nil {
			return nil, err
		}
		parts = append(parts, content)

		rels, err := pkg.relationships(name)
		if err != nil {
			return nil, err
		}
		queue = append(queue, internalTargets(rels)...)
	}
	return parts, nil
}

func (r *Reader) open(filePath string) (*pkg, error) {
	info, err := r.fs.Stat(filePath)
	if err != nil {
		return nil, err
	}

	f, err := r.fs.Open(filePath)
	if err != nil {
		return nil, err
	}

	head := make([]byte, sniffSize)
	n, err := f.ReadAt(head, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !isZipContainer(head[:n]) {
		f.Close()
		return nil, confscan.Errorf(confscan.EINVALID, "%s: not an Open XML package", filePath)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		f.Close()
		return nil, confscan.Errorf(confscan.EINVALID, "%s: %v", filePath, err)
	}

	p := &pkg{
		file:        f,
		files:       make(map[string]*zip.File, len(zr.File)),
		maxPartSize: r.maxPartSize,
	}
	for _, zf := range zr.File {
		p.files[strings.ToLower(zf.Name)] = zf
	}
	return p, nil
}

// isZipContainer reports whether head starts a zip archive. It rejects
// other files from the header alone, before zip.NewReader seeks to the end
// of the file and scans backward for the central directory. Only the zip
// matcher is consulted: every Open XML package is a zip, while the
// document-specific matchers depend on entry order.
func isZipContainer(head []byte) bool {
	return filetype.Is(head, "zip")
}

// pkg is an open package. Part names are stored lower-cased because part
// names are compared case-insensitively.
type pkg struct {
	file        confscan.File
	files       map[string]*zip.File
	maxPartSize uint64
}

func (p *pkg) Close() error {
	return p.file.Close()
}

func (p *pkg) has(name string) bool {
	_, ok := p.files[strings.ToLower(name)]
	return ok
}

func (p *pkg) readPart(name string) (string, error) {
	zf, ok := p.files[strings.ToLower(name)]
	if !ok {
		return "", confscan.Errorf(confscan.ENOTFOUND, "part %q not found", name)
	}
	if zf.UncompressedSize64 > p.maxPartSize {
		return "", confscan.Errorf(confscan.EINVALID, "part %q exceeds %d bytes", name, p.maxPartSize)
	}

	rc, err := zf.Open()
	if err != nil {
		return "", fmt.Errorf("opening part %q: %w", name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, int64(p.maxPartSize)))
	if err != nil {
		return "", fmt.Errorf("reading part %q: %w", name, err)
	}
	return string(b), nil
}

// relationship is one <Relationship> entry with its target resolved to a
// part name.
type relationship struct {
	typ      string
	target   string
	external bool
}

// relationships parses the relationship part belonging to source. The empty
// source denotes the package itself. A missing relationship part yields no
// relationships, except for the package root, which every package must have.
func (p *pkg) relationships(source string) ([]relationship, error) {
	relsName := relationshipsPartName(source)
	zf, ok := p.files[strings.ToLower(relsName)]
	if !ok {
		if source == "" {
			return nil, confscan.Errorf(confscan.EINVALID, "package relationships not found")
		}
		return nil, nil
	}

	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", relsName, err)
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(io.LimitReader(rc, maxRelsSize)); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", relsName, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parsing %q: empty relationships part", relsName)
	}

	var rels []relationship
	for _, el := range root.SelectElements("Relationship") {
		target := el.SelectAttrValue("Target", "")
		if target == "" {
			continue
		}
		rel := relationship{
			typ:      el.SelectAttrValue("Type", ""),
			external: strings.EqualFold(el.SelectAttrValue("TargetMode", ""), "External"),
		}
		if rel.external {
			rel.target = target
		} else {
			rel.target = resolveTarget(source, target)
		}
		rels = append(rels, rel)
	}
	return rels, nil
}

// relationshipsPartName returns the name of the relationship part for source,
// e.g. word/document.xml -> word/_rels/document.xml.rels.
func relationshipsPartName(source string) string {
	if source == "" {
		return "_rels/.rels"
	}
	dir, file := path.Split(source)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget resolves a relationship target against the directory of its
// source part. Absolute targets are relative to the package root.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return strings.TrimPrefix(path.Join(path.Dir("/"+source), target), "/")
}

func internalTargets(rels []relationship) []string {
	var names []string
	for _, rel := range rels {
		if !rel.external {
			names = append(names, rel.target)
		}
	}
	return names
}
