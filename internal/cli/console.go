package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	espalier "github.com/aretw0/espalier"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/build"
	"github.com/aretw0/espalier/pkg/domain"
)

// ErrQuit is returned by Run when the user abandons the session.
var ErrQuit = errors.New("session abandoned")

// Console drives one builder session over a line-based terminal. Menus are
// numbered; a leading colon marks a command:
//
//	:b  go back        :t  show the tree so far
//	:d  finish         :q  quit without a value
type Console struct {
	engine *espalier.Builder[map[string]any]
	in     *bufio.Scanner
	out    io.Writer
	render func(string) (string, error)
}

// New creates a console over a fresh tree. With fancy set, markdown is
// styled for the terminal; otherwise it is printed raw, which keeps piped
// runs scriptable.
func New(root build.Value, in io.Reader, out io.Writer, fancy bool) *Console {
	render := func(md string) (string, error) { return md, nil }
	if fancy {
		render = tui.NewRenderer()
	}
	return &Console{
		engine: espalier.New[map[string]any](root),
		in:     bufio.NewScanner(in),
		out:    out,
		render: render,
	}
}

// Run loops until the value is finished or the input ends. It returns
// ErrQuit when the user quits and io.EOF when the input dries up first.
func (c *Console) Run() (map[string]any, error) {
	for {
		opts := c.engine.GetOptions()
		c.printMarkdown(tui.OptionsMarkdown(opts))

		fmt.Fprint(c.out, "> ")
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		line := strings.TrimSpace(c.in.Text())

		in, ok := c.parse(line, opts)
		if !ok {
			continue
		}
		if in == nil {
			return nil, ErrQuit
		}

		value, err := c.engine.Choose(*in)
		if err != nil {
			c.printMarkdown(fmt.Sprintf("**%v**\n", err))
			continue
		}
		if value != nil {
			return *value, nil
		}
	}
}

// parse maps a raw line onto an input. A nil input with ok means quit; not
// ok means the line was handled locally (or rejected) and the menu should
// be shown again.
func (c *Console) parse(line string, opts domain.Options) (*domain.Input, bool) {
	switch line {
	case ":q":
		return nil, true
	case ":b":
		in := domain.Choice(domain.BackID)
		return &in, true
	case ":d":
		in := domain.Choice(domain.FinalizeID)
		return &in, true
	case ":t":
		md := tui.TreeMarkdown(c.engine.Snapshot())
		if missing := tui.MissingTable(c.engine.Snapshot()); missing != "" {
			md += "\n" + missing
		}
		c.printMarkdown(md)
		return nil, false
	}

	if opts.TextInput {
		in := domain.Text(line)
		return &in, true
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(opts.Choices) {
		in := domain.Choice(opts.Choices[n-1].ID)
		return &in, true
	}
	// Power users may type the choice id directly.
	if opts.HasChoice(line) {
		in := domain.Choice(line)
		return &in, true
	}

	c.printMarkdown("**Pick a number from the menu, or :q to quit.**\n")
	return nil, false
}

func (c *Console) printMarkdown(md string) {
	if rendered, err := c.render(md); err == nil {
		fmt.Fprint(c.out, rendered)
	} else {
		fmt.Fprint(c.out, md)
	}
}

// PrintValue writes the finished value as indented JSON.
func PrintValue(out io.Writer, value map[string]any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
