// Package ooxmltest builds minimal Open XML packages for tests.
package ooxmltest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

const (
	relNS          = "http://schemas.openxmlformats.org/package/2006/relationships"
	officeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	worksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	sharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	customProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties"
)

// Rel is one relationship entry.
type Rel struct {
	Type     string
	Target   string
	External bool
}

// Package is an in-memory Open XML package under construction.
type Package struct {
	parts map[string]string
	order []string
	rels  map[string][]Rel
}

// New returns an empty package.
func New() *Package {
	return &Package{
		parts: make(map[string]string),
		rels:  make(map[string][]Rel),
	}
}

// Part adds a part with the given name and content.
func (p *Package) Part(name, content string) *Package {
	if _, ok := p.parts[name]; !ok {
		p.order = append(p.order, name)
	}
	p.parts[name] = content
	return p
}

// Rel adds a relationship from source (empty for the package root) to target.
func (p *Package) Rel(source string, rel Rel) *Package {
	p.rels[source] = append(p.rels[source], rel)
	return p
}

// Bytes serializes the package as a zip archive.
func (p *Package) Bytes() []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	write("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`)
	for source, rels := range p.rels {
		write(relsName(source), relsXML(rels))
	}
	for _, name := range p.order {
		write(name, p.parts[name])
	}

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func relsName(source string) string {
	if source == "" {
		return "_rels/.rels"
	}
	i := strings.LastIndex(source, "/")
	return source[:i+1] + "_rels/" + source[i+1:] + ".rels"
}

func relsXML(rels []Rel) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<Relationships xmlns="` + relNS + `">`)
	for i, r := range rels {
		mode := ""
		if r.External {
			mode = ` TargetMode="External"`
		}
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="%s"%s/>`, i+1, r.Type, r.Target, mode)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// Docx returns a word-processing package whose main part contains body.
func Docx(body string) []byte {
	return New().
		Rel("", Rel{Type: officeDocument, Target: "word/document.xml"}).
		Part("word/document.xml", `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+body+`</w:body></w:document>`).
		Bytes()
}

// Xlsx returns a spreadsheet package with a workbook, one sheet, a
// shared-strings part holding cells, and a custom-properties part holding props.
func Xlsx(cells, props string) []byte {
	return New().
		Rel("", Rel{Type: officeDocument, Target: "xl/workbook.xml"}).
		Rel("", Rel{Type: customProps, Target: "docProps/custom.xml"}).
		Rel("xl/workbook.xml", Rel{Type: worksheet, Target: "worksheets/sheet1.xml"}).
		Rel("xl/workbook.xml", Rel{Type: sharedStrings, Target: "sharedStrings.xml"}).
		Part("xl/workbook.xml", `<workbook><sheets><sheet name="Sheet1" r:id="rId1"/></sheets></workbook>`).
		Part("xl/worksheets/sheet1.xml", `<worksheet><sheetData/></worksheet>`).
		Part("xl/sharedStrings.xml", `<sst><si><t>`+cells+`</t></si></sst>`).
		Part("docProps/custom.xml", `<Properties>`+props+`</Properties>`).
		Bytes()
}

// OfficeDocument is the relationship type of a package's main part.
const OfficeDocument = officeDocument

// Marked is a custom-properties fragment carrying the default marker.
const Marked = `<property name="confidentialityType"><vt:lpwstr>secret</vt:lpwstr></property>`
