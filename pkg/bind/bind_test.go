package bind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/pkg/bind"
	"github.com/aretw0/espalier/pkg/build"
	"github.com/aretw0/espalier/pkg/domain"
)

type server struct {
	Host    string  `espalier:"prompt=Which host?"`
	Port    uint16  `espalier:"default=8080"`
	Debug   bool    `espalier:"hidden,default=false"`
	Alias   *string `espalier:"rename=nickname"`
	Tags    []string
	Ignored string `espalier:"-"`
	private string
}

func TestBindStructSurface(t *testing.T) {
	root, err := bind.Bind[server]()
	require.NoError(t, err)

	assert.Equal(t, []string{"Host", "Port", "Alias", "Tags"}, root.Subfields(nil))

	opts := root.Options(nil)
	labels := map[string]string{}
	for _, c := range opts.Choices {
		labels[c.ID] = c.Label
	}
	assert.Equal(t, "Edit nickname", labels["Alias"])
	assert.NotContains(t, labels, "Debug")
	assert.NotContains(t, labels, "Ignored")

	assert.Equal(t, "Which host?", root.Options([]string{"Host"}).Prompt)
}

func TestBindEndToEnd(t *testing.T) {
	root, err := bind.Bind[server]()
	require.NoError(t, err)
	b := espalier.New[server](root)

	steps := []domain.Input{
		domain.Choice("Host"),
		domain.Text("localhost"),
		domain.Choice("Tags"),
		domain.Choice(domain.NewID),
		domain.Text("dev"),
		domain.Choice(domain.BackID),
		domain.Choice(domain.FinalizeID),
	}
	var got *server
	for _, in := range steps {
		got, err = b.Choose(in)
		require.NoError(t, err)
	}
	require.NotNil(t, got)
	assert.Equal(t, "localhost", got.Host)
	assert.Equal(t, uint16(8080), got.Port)
	assert.False(t, got.Debug)
	assert.Nil(t, got.Alias)
	assert.Equal(t, []string{"dev"}, got.Tags)
}

func TestBindDefaultsComplete(t *testing.T) {
	type cfg struct {
		Retries int     `espalier:"default=3"`
		Ratio   float64 `espalier:"default=0.5"`
		Marker  rune    `espalier:"char,default=x"`
	}
	root, err := bind.Bind[cfg]()
	require.NoError(t, err)
	require.True(t, build.Complete(root))

	raw, ok := root.Extract()
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"Retries": 3,
		"Ratio":   0.5,
		"Marker":  'x',
	}, raw)
}

func TestBindLeafRoot(t *testing.T) {
	root, err := bind.Bind[int]()
	require.NoError(t, err)
	require.NoError(t, root.Apply(domain.Text("42"), nil))
	v, ok := root.Extract()
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestBindRecursiveType(t *testing.T) {
	type node struct {
		Name string
		Next *node
	}
	root, err := bind.Bind[node]()
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Next"}, root.Subfields(nil))
}

func TestBindTagErrors(t *testing.T) {
	tests := []struct {
		name string
		err  string
		run  func() (build.Value, error)
	}{
		{
			name: "unsupported type",
			err:  "unsupported type",
			run: func() (build.Value, error) {
				type bad struct{ M map[string]int }
				return bind.Bind[bad]()
			},
		},
		{
			name: "unknown option",
			err:  "unknown tag option",
			run: func() (build.Value, error) {
				type bad struct {
					A string `espalier:"shiny"`
				}
				return bind.Bind[bad]()
			},
		},
		{
			name: "hidden without default",
			err:  "hidden field needs a complete default",
			run: func() (build.Value, error) {
				type bad struct {
					A string `espalier:"hidden"`
					B string
				}
				return bind.Bind[bad]()
			},
		},
		{
			name: "malformed default",
			err:  "invalid default",
			run: func() (build.Value, error) {
				type bad struct {
					A int `espalier:"default=many"`
				}
				return bind.Bind[bad]()
			},
		},
		{
			name: "char on the wrong type",
			err:  "char applies only to int32",
			run: func() (build.Value, error) {
				type bad struct {
					A int64 `espalier:"char"`
				}
				return bind.Bind[bad]()
			},
		},
		{
			name: "default on optional",
			err:  "default is not supported on optional",
			run: func() (build.Value, error) {
				type bad struct {
					A *int `espalier:"default=1"`
				}
				return bind.Bind[bad]()
			},
		},
		{
			name: "no bindable fields",
			err:  "no bindable fields",
			run: func() (build.Value, error) {
				type bad struct {
					A string `espalier:"-"`
				}
				return bind.Bind[bad]()
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.run()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestMustBindPanics(t *testing.T) {
	assert.Panics(t, func() {
		type bad struct{ C chan int }
		bind.MustBind[bad]()
	})
}
