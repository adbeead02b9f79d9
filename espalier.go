package espalier

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/pkg/build"
	"github.com/aretw0/espalier/pkg/domain"
)

// Builder is the navigation engine: it owns one node tree and a path
// cursor addressing the currently focused node. T is the type the finished
// value is decoded into; use map[string]any for schema-driven trees.
//
// A Builder is not safe for concurrent use. One interactive session maps to
// one Builder with one exclusive owner; pkg/session provides the locking
// for concurrent hosts.
type Builder[T any] struct {
	root   build.Value
	path   []string
	logger *slog.Logger
}

type config struct {
	logger *slog.Logger
}

// Option configures a Builder.
type Option func(*config)

// WithLogger sets a structured logger for navigation events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New creates a Builder over a node tree. The tree must have been freshly
// constructed for this session; the Builder assumes exclusive ownership.
func New[T any](root build.Value, opts ...Option) *Builder[T] {
	cfg := config{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Builder[T]{root: root, logger: cfg.logger}
}

// GetOptions returns the menu for the current cursor position. At the root
// menu a synthetic "Done" choice appears once the value is complete; every
// nested menu carries a synthetic "Go back" choice.
func (b *Builder[T]) GetOptions() domain.Options {
	if len(b.path) == 0 {
		opts := b.root.Options(nil)
		if b.IsDone() {
			opts.Choices = append(opts.Choices, domain.OptionChoice{
				ID:    domain.FinalizeID,
				Label: "Done",
			})
		}
		return opts
	}
	opts := b.root.Options(b.path)
	opts.Choices = append(opts.Choices, domain.OptionChoice{
		ID:    domain.BackID,
		Label: "Go back",
	})
	return opts
}

// Choose applies one input. The returned value is non-nil only on the
// terminal transition: selecting Done at the root menu of a complete tree.
// On any error the tree and the cursor are unchanged, so the caller can
// simply re-prompt.
func (b *Builder[T]) Choose(in domain.Input) (*T, error) {
	if len(b.path) == 0 && in.IsChoice() && in.Value() == domain.FinalizeID {
		if !b.IsDone() {
			return nil, domain.ErrInvalidChoice
		}
		v, err := b.Finalize()
		if err != nil {
			return nil, err
		}
		b.logger.Debug("session finished")
		return &v, nil
	}

	if len(b.path) > 0 && in.IsChoice() && in.Value() == domain.BackID {
		b.path = b.path[:len(b.path)-1]
		b.logger.Debug("navigated back", "path", b.path)
		return nil, nil
	}

	legal := b.root.Subfields(b.path)
	if in.IsChoice() && slices.Contains(legal, in.Value()) {
		// Descend: the apply both validates and performs any side effect of
		// the selection (e.g. a sequence appending a fresh element).
		if err := b.root.Apply(in, b.path); err != nil {
			return nil, err
		}
		b.path = append(b.path, in.Value())
		b.logger.Debug("descended", "path", b.path)
		return nil, nil
	}

	// Direct interaction with the focused node: a leaf mutation or a
	// terminal selection. Success hands control back to the parent menu.
	if err := b.root.Apply(in, b.path); err != nil {
		return nil, err
	}
	if len(b.path) > 0 {
		b.path = b.path[:len(b.path)-1]
	}
	b.logger.Debug("applied", "input", in.String(), "path", b.path)
	return nil, nil
}

// IsDone reports whether every required value in the tree is set.
func (b *Builder[T]) IsDone() bool {
	_, ok := b.root.Extract()
	return ok
}

// Finalize materializes the finished value. It fails with ErrMissingValue
// while the tree is incomplete; the session keeps going in that case.
func (b *Builder[T]) Finalize() (T, error) {
	var out T
	raw, ok := b.root.Extract()
	if !ok {
		return out, domain.ErrMissingValue
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}
	if err := decode(raw, &out); err != nil {
		// The tree claimed to produce a T it cannot: the node producer and
		// the caller disagree, which is not recoverable by re-prompting.
		panic(fmt.Sprintf("espalier: built value does not decode into %T: %v", out, err))
	}
	return out, nil
}

// Snapshot returns the display tree of the whole builder, independent of
// the cursor. Rendering it never affects the session.
func (b *Builder[T]) Snapshot() domain.Tree {
	return b.root.Snapshot()
}

// Path returns a copy of the current cursor path, mostly for logging and
// diagnostics.
func (b *Builder[T]) Path() []string {
	return slices.Clone(b.path)
}

func decode(raw any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
