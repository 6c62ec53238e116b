package template

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, p Payload) Compiled {
	t.Helper()

	c, err := NewRenderer().Compile(context.Background(), uuid.New(), uuid.New(), uuid.New(), p)
	require.NoError(t, err)

	return c
}

func TestCompile(t *testing.T) {
	c := compile(t, Payload{
		Subject:    "Order {{.orderId}} shipped",
		Content:    "<p>Hi {{.firstName}}, order {{.orderId}} is on its way.</p>",
		SenderName: "{{.company}} Support",
		Variables: map[string]any{
			"orderId":   "42",
			"firstName": "Ada",
			"company":   "Acme",
		},
	})

	assert.Equal(t, "Order 42 shipped", c.Subject)
	assert.Equal(t, "<p>Hi Ada, order 42 is on its way.</p>", c.HTML)
	assert.Equal(t, "Hi Ada, order 42 is on its way.", c.Text)
	assert.Equal(t, "Acme Support", c.SenderName)
}

func TestCompile_VariablesUnderPayloadKey(t *testing.T) {
	c := compile(t, Payload{
		Subject:   "{{.payload.orderId}}",
		Content:   "<p>{{.payload.orderId}}</p>",
		Variables: map[string]any{"orderId": "42"},
	})

	assert.Equal(t, "42", c.Subject)
	assert.Equal(t, "<p>42</p>", c.HTML)
}

func TestCompile_LayoutWrapsBody(t *testing.T) {
	c := compile(t, Payload{
		Subject: "s",
		Content: "<p>body</p>",
		Layout:  "<html><body>{{.Content}}</body></html>",
	})

	// The rendered body must land in the layout unescaped.
	assert.Equal(t, "<html><body><p>body</p></body></html>", c.HTML)
}

func TestCompile_Events(t *testing.T) {
	c := compile(t, Payload{
		Subject: "s",
		Content: "{{range .events}}<li>{{.name}}</li>{{end}}",
		Events: []map[string]any{
			{"name": "created"},
			{"name": "shipped"},
		},
	})

	assert.Equal(t, "<li>created</li><li>shipped</li>", c.HTML)
}

func TestCompile_HTMLEscapesVariables(t *testing.T) {
	c := compile(t, Payload{
		Subject:   "s",
		Content:   "<p>{{.name}}</p>",
		Variables: map[string]any{"name": "<script>alert(1)</script>"},
	})

	assert.NotContains(t, c.HTML, "<script>")
}

func TestCompile_ParseError(t *testing.T) {
	_, err := NewRenderer().Compile(context.Background(), uuid.New(), uuid.New(), uuid.New(), Payload{
		Subject: "s",
		Content: "{{.broken",
	})

	assert.ErrorIs(t, err, ErrCompilationFailed)
}

func TestCompile_MissingVariableIsEmpty(t *testing.T) {
	c := compile(t, Payload{
		Subject: "Hello {{.missing}}",
		Content: "<p>ok</p>",
	})

	assert.Equal(t, "Hello ", c.Subject)
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "one two", stripTags("<div>one <b>two</b></div>"))
	assert.Equal(t, "plain", stripTags("plain"))
	assert.Equal(t, "", stripTags("<br/>"))
}
