package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/domain"
)

func newTestUnion() *Union {
	return NewUnion("shape", "",
		VariantSpec{Name: "point"},
		VariantSpec{Name: "circle", Make: func() Value {
			return NewFloat[float64](CellConfig[float64]{Prompt: "Radius?"})
		}},
		VariantSpec{Name: "ghost", Hidden: true},
	)
}

func TestUnionStartsUnselected(t *testing.T) {
	u := newTestUnion()
	_, ok := u.Extract()
	assert.False(t, ok)
	assert.True(t, u.Snapshot().Missing)

	opts := u.Options(nil)
	assert.True(t, opts.HasChoice("point"))
	assert.True(t, opts.HasChoice("circle"))
	assert.False(t, opts.HasChoice("ghost"))

	// Only variants with a payload are enterable.
	assert.Equal(t, []string{"circle"}, u.Subfields(nil))
}

func TestUnionEmptyVariantCompletes(t *testing.T) {
	u := newTestUnion()
	require.NoError(t, u.Apply(domain.Choice("point"), nil))
	v, ok := u.Extract()
	require.True(t, ok)
	assert.Equal(t, Variant{Name: "point"}, v)
	assert.Equal(t, "point", u.Snapshot().Value)
}

func TestUnionPayloadVariant(t *testing.T) {
	u := newTestUnion()
	require.NoError(t, u.Apply(domain.Choice("circle"), nil))
	_, ok := u.Extract()
	assert.False(t, ok)

	opts := u.Options(nil)
	for _, c := range opts.Choices {
		if c.ID == "circle" {
			assert.True(t, c.NeedsAction)
		}
	}

	require.NoError(t, u.Apply(domain.Text("2.5"), []string{"circle"}))
	v, ok := u.Extract()
	require.True(t, ok)
	assert.Equal(t, Variant{Name: "circle", Value: 2.5}, v)
}

func TestUnionReselectKeepsState(t *testing.T) {
	u := newTestUnion()
	require.NoError(t, u.Apply(domain.Choice("circle"), nil))
	require.NoError(t, u.Apply(domain.Text("1.0"), []string{"circle"}))

	// Selecting the active variant again preserves its payload.
	require.NoError(t, u.Apply(domain.Choice("circle"), nil))
	v, ok := u.Extract()
	require.True(t, ok)
	assert.Equal(t, Variant{Name: "circle", Value: 1.0}, v)

	// Switching away discards it.
	require.NoError(t, u.Apply(domain.Choice("point"), nil))
	require.NoError(t, u.Apply(domain.Choice("circle"), nil))
	_, ok = u.Extract()
	assert.False(t, ok)
}

func TestUnionHiddenAndUnknownVariants(t *testing.T) {
	u := newTestUnion()
	assert.ErrorIs(t, u.Apply(domain.Choice("ghost"), nil), domain.ErrInvalidChoice)
	assert.ErrorIs(t, u.Apply(domain.Choice("square"), nil), domain.ErrInvalidChoice)
	assert.ErrorIs(t, u.Apply(domain.Text("circle"), nil), domain.ErrUnexpectedText)
}

func TestUnionDefaultVariant(t *testing.T) {
	u := NewUnion("mode", "",
		VariantSpec{Name: "auto"},
		VariantSpec{Name: "manual", Make: func() Value {
			return NewString(CellConfig[string]{})
		}},
	).WithDefault("auto")

	v, ok := u.Extract()
	require.True(t, ok)
	assert.Equal(t, Variant{Name: "auto"}, v)
}

func TestUnionStructuralPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewUnion("u", "", VariantSpec{Name: "only", Hidden: true})
	})
	assert.Panics(t, func() {
		NewUnion("u", "",
			VariantSpec{Name: "a"},
			VariantSpec{Name: "a"},
		)
	})
	assert.Panics(t, func() {
		NewUnion("u", "", VariantSpec{Name: domain.NewID})
	})
	assert.Panics(t, func() {
		newTestUnion().WithDefault("missing")
	})
	// Forwarding into a non-active variant is out of contract.
	u := newTestUnion()
	require.NoError(t, u.Apply(domain.Choice("point"), nil))
	assert.Panics(t, func() {
		_ = u.Apply(domain.Text("1"), []string{"circle"})
	})
}

func TestUnionVariantSnapshotRelabel(t *testing.T) {
	u := NewUnion("shape", "",
		VariantSpec{Name: "rect", Label: "rectangle", Make: func() Value {
			return NewRecord("payload", "",
				Field{Name: "w", Value: NewInt[int32](CellConfig[int32]{})},
				Field{Name: "h", Value: NewInt[int32](CellConfig[int32]{})},
			)
		}},
	)
	require.NoError(t, u.Apply(domain.Choice("rect"), nil))
	snap := u.Snapshot()
	require.True(t, snap.Composite)
	assert.Equal(t, "rectangle", snap.Label)
	assert.Len(t, snap.Children, 2)
}
