package dataset

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// parseMarkup reads one data file into a raw record. The markup grammar is
// the upstream project's XML: a single root element whose "name" attribute
// identifies the entity, with nested elements for list-valued attributes.
func parseMarkup(file string, kind EntityKind, r io.Reader) (*Record, error) {
	d := xml.NewDecoder(r)

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil, parseErrorf(file, "no root element")
		}
		if err != nil {
			return nil, wrapMarkupError(file, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		attrs, err := parseElement(d, start, file)
		if err != nil {
			return nil, err
		}

		name, ok := attrs.Get("name")
		if !ok {
			return nil, parseErrorf(file, "root element <%s> has no name attribute", start.Name.Local)
		}
		text, _ := name.AsText()
		if text == "" {
			return nil, parseErrorf(file, "root element <%s> has an empty name", start.Name.Local)
		}

		return &Record{Kind: kind, Name: text, File: file, Attrs: attrs}, nil
	}
}

// parseElement consumes one element and its subtree. An element with no
// attributes and no children becomes its trimmed text; any
// other element becomes a map of attribute names and child element names,
// with leftover text under "#text". Repeated child names coalesce into a
// list. A child element shadows a like-named attribute.
func parseElement(d *xml.Decoder, start xml.StartElement, file string) (Value, error) {
	attrs := make(map[string]Value, len(start.Attr))
	for _, a := range start.Attr {
		attrs[a.Name.Local] = Text(strings.TrimSpace(a.Value))
	}

	children := make(map[string][]Value)
	var text strings.Builder

	for {
		tok, err := d.Token()
		if err != nil {
			return Value{}, wrapMarkupError(file, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(d, t, file)
			if err != nil {
				return Value{}, err
			}
			children[t.Name.Local] = append(children[t.Name.Local], child)

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			if len(attrs) == 0 && len(children) == 0 {
				return Text(strings.TrimSpace(text.String())), nil
			}
			for name, vs := range children {
				if len(vs) == 1 {
					attrs[name] = vs[0]
				} else {
					attrs[name] = List(vs...)
				}
			}
			if trimmed := strings.TrimSpace(text.String()); trimmed != "" {
				attrs["#text"] = Text(trimmed)
			}
			return Map(attrs), nil
		}
	}
}

// wrapMarkupError converts decoder failures into ParseErrors, keeping the
// line number when the decoder reports one.
func wrapMarkupError(file string, err error) error {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &ParseError{File: file, Line: syn.Line, Message: syn.Msg}
	}
	if errors.Is(err, io.EOF) {
		return &ParseError{File: file, Message: "unexpected end of file"}
	}
	return &ParseError{File: file, Message: err.Error()}
}
