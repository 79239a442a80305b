package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemaform/pkg/dom"
)

func TestHTML_SerializesBooleanAndVoidElements(t *testing.T) {
	b := dom.NewBuilder()
	form := b.El("form", dom.Attrs{dom.Bool("novalidate")},
		b.El("input", dom.Attrs{dom.A("name", "field1"), dom.Bool("required"), dom.A("type", "text"), dom.A("value", "Hello")}),
	)

	assert.Equal(t,
		`<form novalidate="novalidate"><input name="field1" required="required" type="text" value="Hello"></form>`,
		dom.HTML(form))
}

func TestHTML_EscapesTextAndAttributes(t *testing.T) {
	b := dom.NewBuilder()
	node := b.El("p", dom.Attrs{dom.A("title", `a "quoted" & <b>`)}, b.Text("1 < 2 & 3 > 2"))

	assert.Equal(t,
		`<p title="a &quot;quoted&quot; &amp; <b>">1 &lt; 2 &amp; 3 &gt; 2</p>`,
		dom.HTML(node))
}

func TestBuilder_ControlTagsProduceControls(t *testing.T) {
	b := dom.NewBuilder()

	for _, tag := range []string{"input", "SELECT", "textarea"} {
		_, ok := b.El(tag, nil).(*dom.Control)
		assert.True(t, ok, "expected %s to build a control", tag)
	}
	_, ok := b.El("div", nil).(*dom.Element)
	assert.True(t, ok)
}

func TestBuilder_DropsNilChildren(t *testing.T) {
	b := dom.NewBuilder()
	node := b.El("div", nil, nil, b.Text("x"), b.Raw(""))

	assert.Equal(t, "<div>x</div>", dom.HTML(node))
}

func TestBuilder_RawIsSanitized(t *testing.T) {
	b := dom.NewBuilder()
	node := b.El("div", nil, b.Raw(`<strong class="hint">ok</strong><script>alert(1)</script>`))

	assert.Equal(t, `<div><strong class="hint">ok</strong></div>`, dom.HTML(node))
}

func TestParse_RoundTripsRenderedMarkup(t *testing.T) {
	markup := `<form novalidate="novalidate"><input name="field1" required="required" type="text" value="Hello">` +
		`<select multiple="multiple" name="leselect"><option value="1">One</option><option value="2" selected="selected">Two</option></select>` +
		`<div><label><input name="leradio" type="radio" value="3" checked="checked">Three</label></div></form>`

	root, err := dom.ParseString(markup)
	require.NoError(t, err)
	assert.Equal(t, markup, dom.HTML(root))
}

func TestControl_SelectState(t *testing.T) {
	root, err := dom.ParseString(`<select name="s"><option value="a">A</option><option>B</option></select>`)
	require.NoError(t, err)

	sel, ok := root.Children[0].(*dom.Control)
	require.True(t, ok)

	assert.Equal(t, "select-one", sel.Type())
	assert.Equal(t, []string{"a"}, sel.SelectedValues(), "first option is implicitly selected")

	sel.SetValue("B")
	assert.Equal(t, "B", sel.Value())
	assert.Equal(t, `<select name="s"><option value="a">A</option><option selected="selected">B</option></select>`, dom.HTML(sel))
}

func TestControl_InputState(t *testing.T) {
	b := dom.NewBuilder()
	input := b.El("input", dom.Attrs{dom.A("name", "cb"), dom.A("type", "checkbox")}).(*dom.Control)

	assert.Equal(t, "cb", input.Name())
	assert.Equal(t, "checkbox", input.Type())
	assert.False(t, input.Checked())

	input.SetChecked(true)
	assert.True(t, input.Checked())
	input.SetChecked(false)
	assert.False(t, input.Checked())

	input.SetCustomValidity("taken")
	assert.Equal(t, "taken", input.CustomValidity())
	assert.NotContains(t, dom.HTML(input), "taken")
}

func TestTextContent(t *testing.T) {
	b := dom.NewBuilder()
	node := b.El("label", nil, b.El("span", nil, b.Text("Hello ")), b.Text("world"))

	assert.Equal(t, "Hello world", dom.TextContent(node))
	assert.Equal(t, "<span>Hello </span>world", dom.InnerHTML(node))
}
