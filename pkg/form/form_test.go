package form_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemaform/pkg/dom"
	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/locator"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/testsupport"
	"github.com/goliatone/go-schemaform/pkg/validation"
)

var twoFields = model.Schema{
	{Name: "field1", Value: "Hello", Required: true},
	{Name: "field2", Required: true},
}

func TestForm_DisplaysValidityAfterSubmit(t *testing.T) {
	f, err := form.New(twoFields, form.WithChildRenderer(testsupport.StatusChild))
	require.NoError(t, err)

	before := `<div class="foo"><p>field1</p><label class="bar"><p></p><input name="field1" required="required" type="text" value="Hello"></label></div>` +
		`<div class="foo"><p>field2</p><label class="bar"><p></p><input name="field2" required="required" type="text" value=""></label></div>`
	assert.Equal(t, before, dom.InnerHTML(f.Tree()))

	event := form.NewSubmitEvent()
	sub := f.Dispatch(context.Background(), event)
	require.NotNil(t, sub)
	assert.True(t, event.DefaultPrevented())
	assert.Equal(t, validation.StateRejected, sub.State())

	assert.Equal(t, before, dom.InnerHTML(f.Tree()), "re-render waits for the next tick")
	assert.Equal(t, 1, f.Flush())

	after := `<div class="foo"><p>field1</p><label class="bar"><p>YEAH</p><input name="field1" required="required" type="text" value="Hello"></label></div>` +
		`<div class="foo"><p>field2</p><label class="bar"><p>NOPE</p><input name="field2" required="required" type="text" value=""></label></div>`
	assert.Equal(t, after, dom.InnerHTML(f.Tree()))
}

func TestForm_ValidityClearsOnSuccessfulPass(t *testing.T) {
	f, err := form.New(twoFields, form.WithChildRenderer(testsupport.StatusChild))
	require.NoError(t, err)

	_, err = f.Validate(context.Background())
	require.NoError(t, err)
	f.Flush()
	assert.False(t, f.Validity()["field2"].Valid)

	require.NoError(t, f.Set("field2", "World"))
	result, err := f.Validate(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Valid)
	f.Flush()

	assert.True(t, f.Validity()["field2"].Valid)
	assert.NotContains(t, f.HTML(), "NOPE")
	assert.Contains(t, f.HTML(), `value="World"`)
}

func TestForm_OnSubmitSeesEverySubmission(t *testing.T) {
	f, err := form.New(twoFields)
	require.NoError(t, err)

	var observed []*validation.Submission
	f.OnSubmit(func(sub *validation.Submission) { observed = append(observed, sub) })

	rejected := f.Dispatch(context.Background(), form.NewSubmitEvent())
	assert.Equal(t, validation.StateRejected, rejected.State())
	require.Len(t, observed, 1)
	assert.Same(t, rejected, observed[0])
	result, err := observed[0].Result()
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"field2"}, result.Invalid())

	control, ok := locator.Locate(f.Tree(), "field2")
	require.True(t, ok)
	control.SetValue("typed")

	resolved := f.Dispatch(context.Background(), form.NewSubmitEvent())
	assert.Equal(t, validation.StateResolved, resolved.State())
	require.Len(t, observed, 2)
	assert.Same(t, resolved, observed[1])
	result, err = observed[1].Result()
	require.NoError(t, err)
	assert.Equal(t, "typed", result.Controls["field2"].Value())
}

func TestForm_DispatchIgnoresOtherEvents(t *testing.T) {
	f, err := form.New(twoFields)
	require.NoError(t, err)

	event := &form.Event{Type: "reset"}
	assert.Nil(t, f.Dispatch(context.Background(), event))
	assert.False(t, event.DefaultPrevented())
	assert.Nil(t, f.Dispatch(context.Background(), nil))
}

func TestForm_RerenderKeepsUserState(t *testing.T) {
	schema := model.Schema{
		{Name: "cb", Type: model.KindCheckbox, Value: "yes", Required: true},
		{Name: "r", Type: model.KindRadio, Options: []model.Option{{Label: "A", Value: "a"}, {Label: "B", Value: "b"}}, Value: "a"},
	}
	f, err := form.New(schema, form.WithHooks(testsupport.CustomHooks()))
	require.NoError(t, err)

	group := locator.Group(f.Tree(), "r")
	require.Len(t, group, 2)
	group[0].SetChecked(false)
	group[1].SetChecked(true)

	_, err = f.Validate(context.Background())
	require.NoError(t, err)
	f.Flush()

	values := f.Values()
	assert.Equal(t, "b", values.Get("r"))
	assert.Empty(t, values["cb"])
	assert.False(t, f.Validity()["cb"].Valid)
}

func TestForm_RerenderKeepsImplicitSelectDefault(t *testing.T) {
	schema := model.Schema{
		{Name: "s", Type: model.KindSelect, Options: []model.Option{{Label: "One", Value: "1"}, {Label: "Two", Value: "2"}}},
		{Name: "note"},
	}
	f, err := form.New(schema)
	require.NoError(t, err)
	before := f.HTML()
	assert.NotContains(t, before, "selected")

	result, err := f.Validate(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Valid)
	f.Flush()
	assert.Equal(t, before, f.HTML())

	require.NoError(t, f.Set("note", "hi"))
	assert.NotContains(t, f.HTML(), "selected")
	assert.Equal(t, "1", f.Values().Get("s"), "the first option is still submitted")

	require.NoError(t, f.Set("s", "2"))
	_, err = f.Validate(context.Background())
	require.NoError(t, err)
	f.Flush()
	assert.Contains(t, f.HTML(), `<option value="2" selected="selected">Two</option>`)
}

func TestForm_ApplyAndSetSchema(t *testing.T) {
	f, err := form.New(twoFields)
	require.NoError(t, err)

	require.NoError(t, f.Apply(url.Values{"field1": {"A"}, "field2": {"B"}}))
	assert.Equal(t, url.Values{"field1": {"A"}, "field2": {"B"}}, f.Values())

	assert.Error(t, f.Set("nope", "x"))

	err = f.SetSchema(model.Schema{{Name: "x"}, {Name: "x"}})
	assert.ErrorIs(t, err, model.ErrDuplicateName)
	assert.Len(t, f.Schema(), 2, "failed SetSchema keeps the previous schema")

	require.NoError(t, f.SetSchema(model.Schema{{Name: "only", Value: "v"}}))
	assert.Equal(t, `<form novalidate="novalidate"><input name="only" type="text" value="v"></form>`, f.HTML())
	assert.Empty(t, f.Validity())
}

func TestForm_CustomErrors(t *testing.T) {
	f, err := form.New(twoFields)
	require.NoError(t, err)

	f.SetCustomErrors(map[string][]string{
		"/body/field1": {"Already taken"},
		"form":         {"Try again later"},
	})
	assert.Equal(t, []string{"Try again later"}, f.FormErrors())

	result, err := f.Validate(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Fields["field1"].Validity.CustomError)
	assert.Equal(t, "Already taken", result.Fields["field1"].Validity.Message)

	f.Flush()
	control, ok := locator.Locate(f.Tree(), "field1")
	require.True(t, ok)
	assert.Equal(t, "Already taken", control.CustomValidity(), "custom errors survive re-render")

	require.NoError(t, f.Set("field1", "Other"))
	control, ok = locator.Locate(f.Tree(), "field1")
	require.True(t, ok)
	assert.Empty(t, control.CustomValidity(), "editing a field clears its custom error")

	f.SetCustomErrors(nil)
	assert.Empty(t, f.FormErrors())
}

func TestForm_RejectsMalformedSchema(t *testing.T) {
	_, err := form.New(model.Schema{{Name: "s", Type: model.KindSelect}})
	assert.ErrorIs(t, err, model.ErrMissingOptions)
}

func TestForm_RenderOptions(t *testing.T) {
	f, err := form.New(model.Schema{{Name: "a"}},
		form.WithRenderOptions(render.WithHiddenFields(render.CSRFToken("_csrf", "tok"))),
	)
	require.NoError(t, err)
	assert.Equal(t, "tok", f.Values().Get("_csrf"))

	_, err = f.Validate(context.Background())
	require.NoError(t, err)
	f.Flush()
	assert.Contains(t, f.HTML(), `<input name="_csrf" type="hidden" value="tok">`)
}

func TestQueue_RunsInOrderIncludingNestedWork(t *testing.T) {
	q := form.NewQueue()
	var order []int
	q.NextTick(func() {
		order = append(order, 1)
		q.NextTick(func() { order = append(order, 3) })
	})
	q.NextTick(func() { order = append(order, 2) })
	q.NextTick(nil)

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 3, q.Flush())
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Equal(t, 0, q.Flush())
}

func TestQueue_WorkQueuedBeforeSubmitRunsFirst(t *testing.T) {
	q := form.NewQueue()
	f, err := form.New(twoFields, form.WithQueue(q), form.WithChildRenderer(testsupport.StatusChild))
	require.NoError(t, err)

	var seen string
	f.NextTick(func() { seen = f.HTML() })
	f.Dispatch(context.Background(), form.NewSubmitEvent())
	f.Flush()

	assert.NotContains(t, seen, "NOPE", "earlier work sees the tree before the re-render")
	assert.Contains(t, f.HTML(), "NOPE")
}

func TestData(t *testing.T) {
	b := dom.NewBuilder()
	tree := b.El("form", nil,
		b.El("input", dom.Attrs{dom.A("name", "t"), dom.A("value", "x")}),
		b.El("input", dom.Attrs{dom.A("name", "off"), dom.A("value", "x"), dom.Bool("disabled")}),
		b.El("input", dom.Attrs{dom.A("name", "cb"), dom.A("type", "checkbox"), dom.Bool("checked")}),
		b.El("input", dom.Attrs{dom.A("name", "un"), dom.A("type", "checkbox")}),
		b.El("select", dom.Attrs{dom.A("name", "s")},
			b.El("option", dom.Attrs{dom.A("value", "1")}, b.Text("One")),
			b.El("option", dom.Attrs{dom.A("value", "2")}, b.Text("Two")),
		),
		b.El("textarea", dom.Attrs{dom.A("name", "ta")}, b.Text("body")),
		b.El("input", dom.Attrs{dom.A("type", "submit"), dom.A("name", "go")}),
	)

	want := url.Values{
		"t":  {"x"},
		"cb": {"on"},
		"s":  {"1"},
		"ta": {"body"},
	}
	assert.Equal(t, want, form.Data(tree))
}
