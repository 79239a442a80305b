package dom

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Builder constructs tree nodes. Renderers and render hooks receive the same
// Builder so custom markup is built with the same node types the defaults use.
type Builder interface {
	El(tag string, attrs Attrs, children ...Node) Node
	Text(data string) Node
	Raw(markup string) Node
}

// BuilderOption configures a TreeBuilder.
type BuilderOption func(*TreeBuilder)

// WithSanitizer overrides the policy applied to Raw markup.
func WithSanitizer(policy *bluemonday.Policy) BuilderOption {
	return func(b *TreeBuilder) {
		if policy != nil {
			b.policy = policy
		}
	}
}

// TreeBuilder is the default Builder. Control tags produce *Control nodes,
// every other tag produces *Element.
type TreeBuilder struct {
	policy *bluemonday.Policy
}

var _ Builder = (*TreeBuilder)(nil)

// NewBuilder returns a TreeBuilder using the default sanitizer policy.
func NewBuilder(options ...BuilderOption) *TreeBuilder {
	b := &TreeBuilder{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	if b.policy == nil {
		b.policy = defaultSanitizer()
	}
	return b
}

// El builds an element or control. Nil children are dropped.
func (b *TreeBuilder) El(tag string, attrs Attrs, children ...Node) Node {
	tag = strings.ToLower(strings.TrimSpace(tag))
	el := Element{
		Tag:      tag,
		Attrs:    attrs,
		Children: compact(children),
	}
	if IsControlTag(tag) {
		return &Control{Element: el}
	}
	return &el
}

// Text builds a text node.
func (b *TreeBuilder) Text(data string) Node {
	return &Text{Data: data}
}

// Raw sanitizes markup and wraps it in a Raw node. Markup that sanitizes to
// nothing yields nil, which El drops.
func (b *TreeBuilder) Raw(markup string) Node {
	cleaned := strings.TrimSpace(b.policy.Sanitize(markup))
	if cleaned == "" {
		return nil
	}
	return &Raw{HTML: cleaned}
}

var (
	sanitizerOnce sync.Once
	sanitizer     *bluemonday.Policy
)

func defaultSanitizer() *bluemonday.Policy {
	sanitizerOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		policy.AllowElements("span", "small", "strong", "em")
		sanitizer = policy
	})
	return sanitizer
}

// Sanitize cleans markup with the default policy.
func Sanitize(markup string) string {
	return strings.TrimSpace(defaultSanitizer().Sanitize(markup))
}
