package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/build"
)

func newConsole(input string) (*Console, *strings.Builder) {
	root := build.NewRecord("profile", "",
		build.Field{Name: "name", Value: build.NewString(build.CellConfig[string]{})},
		build.Field{Name: "age", Value: build.NewInt[int64](build.Default[int64](30))},
	)
	var out strings.Builder
	return New(root, strings.NewReader(input), &out, false), &out
}

func TestConsoleFillsAndFinishes(t *testing.T) {
	// Pick the first field by number, type the value, then finish.
	c, out := newConsole("1\nAda\n:d\n")
	value, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada", "age": int64(30)}, value)
	assert.Contains(t, out.String(), "Edit name")
}

func TestConsoleAcceptsChoiceIDs(t *testing.T) {
	c, _ := newConsole("age\n47\n1\nAda\n:d\n")
	value, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(47), value["age"])
}

func TestConsoleQuit(t *testing.T) {
	c, _ := newConsole(":q\n")
	_, err := c.Run()
	assert.ErrorIs(t, err, ErrQuit)
}

func TestConsoleEOF(t *testing.T) {
	c, _ := newConsole("")
	_, err := c.Run()
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsoleRejectsGarbageAndContinues(t *testing.T) {
	c, out := newConsole("99\n1\nAda\n:d\n")
	value, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, "Ada", value["name"])
	assert.Contains(t, out.String(), "Pick a number from the menu")
}

func TestConsoleTreeCommand(t *testing.T) {
	c, out := newConsole(":t\n1\nAda\n:d\n")
	_, err := c.Run()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "**profile**")
	assert.Contains(t, out.String(), "Missing values")
}

func TestConsoleBadTextShowsErrorAndKeepsGoing(t *testing.T) {
	c, out := newConsole("2\nmany\n47\n1\nAda\n:d\n")
	value, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(47), value["age"])
	assert.Contains(t, out.String(), "invalid input")
}
