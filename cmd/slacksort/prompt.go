// Copyright (c) 2018 Tim Heckman
//
// Use of this source code is governed by the MIT License that can be found in
// the LICENSE file at the root of this repository.

package main

import (
	"context"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
)

// prompter asks the person at the terminal for things.
type prompter interface {
	// Ask prompts for a value, offering def as an editable default.
	Ask(label, def string, validate func(string) error) (string, error)

	// Secret prompts for a value without echoing it.
	Secret(label string, validate func(string) error) (string, error)

	// Confirm asks a yes or no question. No is the default.
	Confirm(label string) (bool, error)
}

type promptUI struct {
	in  io.ReadCloser
	out io.WriteCloser
}

func newPromptUI(in io.Reader, out io.Writer) *promptUI {
	return &promptUI{in: io.NopCloser(in), out: nopWriteCloser{out}}
}

func (p *promptUI) Ask(label, def string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate:  validate,
		Stdin:     p.in,
		Stdout:    p.out,
	}

	v, err := prompt.Run()
	return v, promptErr(err)
}

func (p *promptUI) Secret(label string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: validate,
		Stdin:    p.in,
		Stdout:   p.out,
	}

	v, err := prompt.Run()
	return v, promptErr(err)
}

func (p *promptUI) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.in,
		Stdout:    p.out,
	}

	_, err := prompt.Run()

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, promptErr(err)
	}
}

func promptErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return errors.Wrap(context.Canceled, "prompt interrupted")
	default:
		return errors.Wrap(err, "prompt failed")
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
