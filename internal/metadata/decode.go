package metadata

import (
	"bufio"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	textKey = "#text"
	attrPfx = "@"
)

// ErrEmptyDocument is returned when the input holds no root element or value.
var ErrEmptyDocument = errors.New("empty metadata document")

// Decode reads a metadata record as XML or JSON. format is "xml", "json" or
// "auto"/"" (sniffed from the first non-blank byte).
func Decode(r io.Reader, format string) (map[string]any, error) {
	br := bufio.NewReader(r)
	actual := strings.ToLower(strings.TrimSpace(format))
	switch actual {
	case "", "auto":
		actual = sniffFormat(br)
	case "xml", "json":
		// ok
	default:
		return nil, fmt.Errorf("unsupported metadata format: %q", format)
	}
	if actual == "json" {
		return DecodeJSON(br)
	}
	return DecodeXML(br)
}

func sniffFormat(br *bufio.Reader) string {
	for i := 1; ; i++ {
		b, err := br.Peek(i)
		if err != nil || len(b) < i {
			return "xml"
		}
		c := b[i-1]
		switch c {
		case ' ', '\t', '\r', '\n', 0xEF, 0xBB, 0xBF:
			continue
		case '{', '[':
			return "json"
		default:
			return "xml"
		}
	}
}

// DecodeJSON reads a JSON rendition of a record (as produced by catalog
// JSON APIs or XML-to-JSON converters). A top-level array is unwrapped to its
// first object.
func DecodeJSON(r io.Reader) (map[string]any, error) {
	var v any
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	for _, it := range AsList(v) {
		if m, ok := it.(map[string]any); ok {
			return m, nil
		}
	}
	return nil, ErrEmptyDocument
}

// DecodeXML builds a generic tree from an XML document. Element names lose
// their namespace prefix, repeated children become []any, attributes are
// stored under "@name" and mixed text under "#text". Leaf elements without
// attributes collapse to their text.
func DecodeXML(r io.Reader) (map[string]any, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, ErrEmptyDocument
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		node, err := decodeElement(dec, start)
		if err != nil {
			return nil, err
		}
		return map[string]any{start.Name.Local: node}, nil
	}
}

func decodeElement(dec *xml.Decoder, start xml.StartElement) (any, error) {
	children := map[string]any{}
	for _, a := range start.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		children[attrPfx+a.Name.Local] = a.Value
	}

	var text bytes.Buffer
	hasElements := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing XML element %q: %w", start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			hasElements = true
			child, err := decodeElement(dec, t)
			if err != nil {
				return nil, err
			}
			appendChild(children, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			s := strings.TrimSpace(text.String())
			if !hasElements && len(children) == 0 {
				return s, nil
			}
			if s != "" {
				children[textKey] = s
			}
			return children, nil
		}
	}
}

func appendChild(m map[string]any, name string, child any) {
	existing, ok := m[name]
	if !ok {
		m[name] = child
		return
	}
	if list, ok := existing.([]any); ok {
		m[name] = append(list, child)
		return
	}
	m[name] = []any{existing, child}
}
