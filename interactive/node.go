// Package interactive implements command trees whose nodes can be given as command line
// tokens or asked for interactively, and which serialize back into the equivalent tokens.
package interactive

import (
	"context"
	"fmt"

	"github.com/near/near-cli-go/transaction"
)

// Node is one level of a command tree receiving context C from its parent.
//
// A node starts unresolved. Parse fills in whatever the tokens provide and forwards the rest of
// the tokens to the child, Resolve asks for everything still missing, after which Tokens returns
// the canonical token sequence of the subtree and Process executes it.
type Node[C any] interface {
	// Parse consumes the tokens of this node and passes the remaining ones to its child.
	Parse(env *Env, args []string) error

	// Resolve completes the node, prompting for missing values, then resolves its child with
	// the context derived for it.
	Resolve(ctx context.Context, env *Env, in C) error

	// Tokens returns the canonical tokens of the resolved subtree.
	Tokens() []string

	// Process executes the resolved subtree, contributing to the transaction.
	Process(ctx context.Context, env *Env, in C, tx transaction.Unsigned) error
}

// Variant is one entry offered by Select.
type Variant struct {
	Tag     string
	Message string
}

// Select asks the user to pick one of the variants and returns its index. A single variant is
// picked without asking.
func Select(p Prompter, title string, variants []Variant) (int, error) {
	switch len(variants) {
	case 0:
		panic("interactive: no variants to select from")
	case 1:
		return 0, nil
	}

	options := make([]string, 0, len(variants))
	for _, v := range variants {
		options = append(options, v.Message)
	}
	idx, err := p.Select(title, options)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(variants) {
		return 0, fmt.Errorf("%w: selection %d out of range", ErrInput, idx)
	}
	return idx, nil
}

// Choice is a variant of a Menu.
type Choice[C any] struct {
	// Tag is the subcommand token.
	Tag string
	// Message is the description shown when selecting.
	Message string
	// New creates the unresolved node of the variant.
	New func() Node[C]
}

// Menu is a closed set of variants, offered in declaration order.
type Menu[C any] struct {
	Title   string
	Choices []Choice[C]
}

// Variants returns the variants of the menu.
func (m *Menu[C]) Variants() []Variant {
	variants := make([]Variant, 0, len(m.Choices))
	for _, c := range m.Choices {
		variants = append(variants, Variant{Tag: c.Tag, Message: c.Message})
	}
	return variants
}

// Tags returns the tags of all variants.
func (m *Menu[C]) Tags() []string {
	tags := make([]string, 0, len(m.Choices))
	for _, c := range m.Choices {
		tags = append(tags, c.Tag)
	}
	return tags
}

func (m *Menu[C]) find(tag string) (Choice[C], bool) {
	for _, c := range m.Choices {
		if c.Tag == tag {
			return c, true
		}
	}
	return Choice[C]{}, false
}

// Switch creates an unresolved node selecting one of the menu variants.
func (m *Menu[C]) Switch() *Switch[C] {
	seen := make(map[string]bool, len(m.Choices))
	for _, c := range m.Choices {
		if seen[c.Tag] {
			panic(fmt.Sprintf("interactive: duplicate variant '%s' in menu '%s'", c.Tag, m.Title))
		}
		seen[c.Tag] = true
	}
	return &Switch[C]{menu: m}
}

// Switch is a node selecting one variant of a Menu. The chosen variant receives the same
// context as the switch.
type Switch[C any] struct {
	menu  *Menu[C]
	tag   string
	child Node[C]
}

// Tag returns the selected tag, empty when unresolved.
func (s *Switch[C]) Tag() string {
	return s.tag
}

// Child returns the node of the selected variant, nil when unresolved.
func (s *Switch[C]) Child() Node[C] {
	return s.child
}

func (s *Switch[C]) choose(env *Env, c Choice[C]) {
	s.tag = c.Tag
	s.child = c.New()
	env.Logger.Debug("variant selected", "menu", s.menu.Title, "tag", c.Tag)
}

// Parse implements Node.
func (s *Switch[C]) Parse(env *Env, args []string) error {
	if len(args) == 0 {
		return nil
	}
	c, ok := s.menu.find(args[0])
	if !ok {
		return unexpectedToken(args[0], s.menu.Tags())
	}
	s.choose(env, c)
	return s.child.Parse(env, args[1:])
}

// Resolve implements Node.
func (s *Switch[C]) Resolve(ctx context.Context, env *Env, in C) error {
	if s.child == nil {
		idx, err := Select(env.Prompter, s.menu.Title, s.menu.Variants())
		if err != nil {
			return err
		}
		s.choose(env, s.menu.Choices[idx])
	}
	return s.child.Resolve(ctx, env, in)
}

// Tokens implements Node.
func (s *Switch[C]) Tokens() []string {
	return Prepend(s.child.Tokens(), s.tag)
}

// Process implements Node.
func (s *Switch[C]) Process(ctx context.Context, env *Env, in C, tx transaction.Unsigned) error {
	return s.child.Process(ctx, env, in, tx)
}
