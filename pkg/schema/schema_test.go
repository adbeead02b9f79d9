package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/build"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/schema"
)

const serverSchema = `
form:
  type: record
  name: server
  fields:
    - name: host
      type: string
      prompt: Which host?
    - name: port
      type: uint
      default: "8080"
    - name: secret
      type: string
      hidden: true
      default: hunter2
    - name: tags
      type: sequence
      element: {type: string}
    - name: tls
      type: union
      variants:
        - name: none
          default: true
        - name: enabled
          payload:
            type: record
            name: tls
            fields:
              - name: cert
                type: path
`

func TestParseAndCompile(t *testing.T) {
	s, err := schema.Parse([]byte(serverSchema))
	require.NoError(t, err)

	root, err := s.Compile()
	require.NoError(t, err)

	assert.Equal(t, []string{"host", "port", "tags", "tls"}, root.Subfields(nil))
	assert.Equal(t, "Which host?", root.Options([]string{"host"}).Prompt)
}

func TestCompiledTreesAreIndependent(t *testing.T) {
	s, err := schema.Parse([]byte(serverSchema))
	require.NoError(t, err)

	a, err := s.Compile()
	require.NoError(t, err)
	b, err := s.Compile()
	require.NoError(t, err)

	require.NoError(t, a.Apply(domain.Text("alpha"), []string{"host"}))
	assert.True(t, build.Complete(a))
	assert.False(t, build.Complete(b))
}

func TestSchemaEndToEnd(t *testing.T) {
	s, err := schema.Parse([]byte(serverSchema))
	require.NoError(t, err)
	root, err := s.Compile()
	require.NoError(t, err)

	b := espalier.New[map[string]any](root)
	steps := []domain.Input{
		domain.Choice("host"),
		domain.Text("localhost"),
		domain.Choice(domain.FinalizeID),
	}
	var got *map[string]any
	for _, in := range steps {
		got, err = b.Choose(in)
		require.NoError(t, err)
	}
	require.NotNil(t, got)
	assert.Equal(t, "localhost", (*got)["host"])
	assert.Equal(t, uint64(8080), (*got)["port"])
	assert.Equal(t, "hunter2", (*got)["secret"])
	assert.Equal(t, []any{}, (*got)["tags"])
	assert.Equal(t, build.Variant{Name: "none"}, (*got)["tls"])
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  string
	}{
		{
			name: "unknown type",
			doc:  "form: {type: blob}",
			err:  `unknown type "blob"`,
		},
		{
			name: "missing type",
			doc:  "form: {name: x}",
			err:  "missing type",
		},
		{
			name: "empty record",
			doc:  "form: {type: record, name: x}",
			err:  "at least one field",
		},
		{
			name: "duplicate field",
			doc: `
form:
  type: record
  fields:
    - {name: a, type: string}
    - {name: a, type: int}
`,
			err: `duplicate field "a"`,
		},
		{
			name: "reserved field name",
			doc: `
form:
  type: record
  fields:
    - {name: __new, type: string}
`,
			err: "reserved",
		},
		{
			name: "hidden without default",
			doc: `
form:
  type: record
  fields:
    - {name: a, type: string, hidden: true}
`,
			err: "hidden field needs a complete default",
		},
		{
			name: "malformed default",
			doc: `
form:
  type: record
  fields:
    - {name: a, type: int, default: many}
`,
			err: "invalid default",
		},
		{
			name: "union with only hidden variants",
			doc: `
form:
  type: union
  variants:
    - {name: a, hidden: true}
`,
			err: "at least one visible variant",
		},
		{
			name: "union with two defaults",
			doc: `
form:
  type: union
  variants:
    - {name: a, default: true}
    - {name: b, default: true}
`,
			err: "at most one default variant",
		},
		{
			name: "sequence without element",
			doc:  "form: {type: sequence}",
			err:  "sequence needs an element",
		},
		{
			name: "cell with children",
			doc: `
form:
  type: string
  fields:
    - {name: a, type: string}
`,
			err: "take no fields",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestValidateAggregatesAllViolations(t *testing.T) {
	doc := `
form:
  type: record
  fields:
    - {name: a, type: blob}
    - {name: b, type: int, default: many}
`
	_, err := schema.Parse([]byte(doc))
	require.Error(t, err)
	assert.Len(t, schema.ValidationErrors(err), 2)
}
