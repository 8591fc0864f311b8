// Package tmx reads and writes a minimal subset of the TMX 1.4
// interchange format: translation units with one source and one target
// variant each. The TM engine itself never sees TMX; this package
// turns documents into plain (source, target, language) tuples at the
// boundary and back again on export.
package tmx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Entry is one already-parsed translation pair.
type Entry struct {
	SourceLang string
	TargetLang string
	SourceText string
	TargetText string
}

// tmxDoc is the decoding shape of a TMX document.
type tmxDoc struct {
	XMLName xml.Name  `xml:"tmx"`
	Header  tmxHeader `xml:"header"`
	Body    struct {
		TUs []tmxTU `xml:"tu"`
	} `xml:"body"`
}

type tmxHeader struct {
	SrcLang string `xml:"srclang,attr"`
}

type tmxTU struct {
	TUVs []tmxTUV `xml:"tuv"`
}

type tmxTUV struct {
	// TMX carries the language in xml:lang; matching on the local
	// name picks it up regardless of the xml namespace prefix.
	Lang string `xml:"lang,attr"`
	Seg  string `xml:"seg"`
}

// Read parses a TMX document into entries. Units without both a
// source-language and a second variant are skipped rather than
// failing the whole file.
func Read(r io.Reader) ([]Entry, error) {
	var doc tmxDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing tmx: %w", err)
	}

	srcLang := doc.Header.SrcLang

	var entries []Entry //nolint:prealloc // skipped units are unknown up front
	for _, tu := range doc.Body.TUs {
		var src, tgt *tmxTUV
		for i := range tu.TUVs {
			tuv := &tu.TUVs[i]
			switch {
			case src == nil && langEqual(tuv.Lang, srcLang):
				src = tuv
			case tgt == nil:
				tgt = tuv
			}
		}

		// Without a declared srclang, fall back to document order.
		if src == nil && srcLang == "" && len(tu.TUVs) >= 2 {
			src, tgt = &tu.TUVs[0], &tu.TUVs[1]
		}
		if src == nil || tgt == nil {
			continue
		}

		entries = append(entries, Entry{
			SourceLang: src.Lang,
			TargetLang: tgt.Lang,
			SourceText: strings.TrimSpace(src.Seg),
			TargetText: strings.TrimSpace(tgt.Seg),
		})
	}

	return entries, nil
}

// writeDoc is the encoding shape; xml:lang must be emitted literally.
type writeDoc struct {
	XMLName xml.Name    `xml:"tmx"`
	Version string      `xml:"version,attr"`
	Header  writeHeader `xml:"header"`
	Body    struct {
		TUs []writeTU `xml:"tu"`
	} `xml:"body"`
}

type writeHeader struct {
	CreationTool string `xml:"creationtool,attr"`
	SegType      string `xml:"segtype,attr"`
	DataType     string `xml:"datatype,attr"`
	SrcLang      string `xml:"srclang,attr"`
}

type writeTU struct {
	TUVs []writeTUV `xml:"tuv"`
}

type writeTUV struct {
	Lang string `xml:"xml:lang,attr"`
	Seg  string `xml:"seg"`
}

// Write serialises entries as a TMX 1.4 document. srcLang is the
// header's declared source language; entries carrying their own
// language tags keep them.
func Write(w io.Writer, srcLang string, entries []Entry) error {
	doc := writeDoc{
		Version: "1.4",
		Header: writeHeader{
			CreationTool: "memoria",
			SegType:      "sentence",
			DataType:     "plaintext",
			SrcLang:      srcLang,
		},
	}

	doc.Body.TUs = make([]writeTU, len(entries))
	for i, e := range entries {
		sl := e.SourceLang
		if sl == "" {
			sl = srcLang
		}
		doc.Body.TUs[i] = writeTU{
			TUVs: []writeTUV{
				{Lang: sl, Seg: e.SourceText},
				{Lang: e.TargetLang, Seg: e.TargetText},
			},
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing tmx header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding tmx: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing tmx encoder: %w", err)
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// langEqual compares language tags case-insensitively, as TMX
// requires.
func langEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}
