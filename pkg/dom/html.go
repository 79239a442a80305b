package dom

import (
	"io"
	"strings"
)

var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "source": {}, "track": {}, "wbr": {},
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\u00a0", "&nbsp;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "\u00a0", "&nbsp;")
)

// HTML serializes a node the way a browser serializes outerHTML: attributes
// in insertion order, boolean attributes as key="key", void elements without
// a closing tag.
func HTML(n Node) string {
	var builder strings.Builder
	writeNode(&builder, n)
	return builder.String()
}

// Render writes the serialized node to w.
func Render(w io.Writer, n Node) error {
	_, err := io.WriteString(w, HTML(n))
	return err
}

// InnerHTML serializes only the children of a node.
func InnerHTML(n Node) string {
	var builder strings.Builder
	for _, child := range Children(n) {
		writeNode(&builder, child)
	}
	return builder.String()
}

func writeNode(builder *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Element:
		if v != nil {
			writeElement(builder, v)
		}
	case *Control:
		if v != nil {
			writeElement(builder, &v.Element)
		}
	case *Text:
		if v != nil {
			builder.WriteString(textEscaper.Replace(v.Data))
		}
	case *Raw:
		if v != nil {
			builder.WriteString(v.HTML)
		}
	}
}

func writeElement(builder *strings.Builder, el *Element) {
	if el.Tag == "" {
		for _, child := range el.Children {
			writeNode(builder, child)
		}
		return
	}

	builder.WriteByte('<')
	builder.WriteString(el.Tag)
	for _, attr := range el.Attrs {
		builder.WriteByte(' ')
		builder.WriteString(attr.Key)
		builder.WriteString(`="`)
		if attr.Boolean {
			builder.WriteString(attr.Key)
		} else {
			builder.WriteString(attrEscaper.Replace(attr.Val))
		}
		builder.WriteByte('"')
	}
	builder.WriteByte('>')

	if _, void := voidElements[el.Tag]; void {
		return
	}
	for _, child := range el.Children {
		writeNode(builder, child)
	}
	builder.WriteString("</")
	builder.WriteString(el.Tag)
	builder.WriteByte('>')
}
