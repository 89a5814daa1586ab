package variables

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/getmockd/stencil/pkg/stencil"
)

var _ stencil.Resolver = (*Prompt)(nil)

// AskFunc asks the user for a single value. title names the placeholder.
type AskFunc func(title string) (string, error)

// Prompt asks the user for every variable it is consulted about. Put it last
// in a Chain so it only sees names no other source knows. Answers are
// memoised, so each placeholder is asked for once.
type Prompt struct {
	memo *Memo
}

// NewPrompt creates a resolver that prompts on the terminal.
func NewPrompt() *Prompt {
	return NewPromptWith(askTerminal)
}

// NewPromptWith creates a Prompt that uses ask instead of the terminal.
func NewPromptWith(ask AskFunc) *Prompt {
	return &Prompt{memo: NewMemo(askResolver{ask: ask})}
}

// LookupName implements stencil.Resolver.
func (p *Prompt) LookupName(name string) (string, bool) {
	return p.memo.LookupName(name)
}

// LookupGroup implements stencil.Resolver.
func (p *Prompt) LookupGroup(group string, index int) (string, bool) {
	return p.memo.LookupGroup(group, index)
}

type askResolver struct {
	ask AskFunc
}

func (a askResolver) LookupName(name string) (string, bool) {
	return a.answer("${" + name + "}")
}

func (a askResolver) LookupGroup(group string, index int) (string, bool) {
	return a.answer("${" + group + ":" + strconv.Itoa(index) + "}")
}

// answer treats an aborted prompt as a missing value.
func (a askResolver) answer(title string) (string, bool) {
	v, err := a.ask(title)
	if err != nil {
		return "", false
	}
	return v, true
}

func askTerminal(title string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Value for " + title).
				Value(&value),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return value, nil
}
