package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var booleanAttrs = map[string]struct{}{
	"autofocus":      {},
	"checked":        {},
	"disabled":       {},
	"formnovalidate": {},
	"hidden":         {},
	"multiple":       {},
	"novalidate":     {},
	"readonly":       {},
	"required":       {},
	"selected":       {},
}

// Parse reads an HTML fragment (for example a previously rendered form) and
// returns it as a tag-less container. Comments and doctype nodes are dropped;
// attribute order is preserved.
func Parse(r io.Reader) (*Element, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}

	root := &Element{}
	for _, node := range nodes {
		if converted := convert(node); converted != nil {
			root.Children = append(root.Children, converted)
		}
	}
	return root, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (*Element, error) {
	return Parse(strings.NewReader(markup))
}

func convert(node *html.Node) Node {
	switch node.Type {
	case html.TextNode:
		return &Text{Data: node.Data}
	case html.ElementNode:
		attrs := make(Attrs, 0, len(node.Attr))
		for _, attr := range node.Attr {
			key := strings.ToLower(attr.Key)
			if _, ok := booleanAttrs[key]; ok {
				attrs = append(attrs, Bool(key))
				continue
			}
			attrs = append(attrs, A(key, attr.Val))
		}
		var children []Node
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if converted := convert(child); converted != nil {
				children = append(children, converted)
			}
		}
		el := Element{Tag: strings.ToLower(node.Data), Attrs: attrs, Children: children}
		if IsControlTag(el.Tag) {
			return &Control{Element: el}
		}
		return &el
	default:
		return nil
	}
}
