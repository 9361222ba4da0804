// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prompt asks the user for the answers that were not given as flags.
package prompt

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/walteh/create-springboot/pkg/project"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrNotInteractive is returned when answers are missing and there is no terminal to ask on
	ErrNotInteractive = errors.Base("missing answers and no terminal to prompt on")
	// ErrCancelled is returned when the user aborts the form
	ErrCancelled = errors.Base("cancelled by user")
)

// 📝 Answers holds the values the form fields are bound to
type Answers struct {
	Profile     project.Profile
	PackageBase string
}

// FormRunner runs a built form; the form writes into answers
type FormRunner func(ctx context.Context, form *huh.Form, answers *Answers) error

// 🎯 Prompter fills in the missing parts of a project config
type Prompter struct {
	interactive bool
	run         FormRunner
}

// 🏭 New creates a prompter bound to the process terminal
func New() *Prompter {
	return &Prompter{
		interactive: IsInteractive(os.Stdin, os.Stdout),
		run: func(ctx context.Context, form *huh.Form, _ *Answers) error {
			return form.RunWithContext(ctx)
		},
	}
}

// NewWithRunner creates a prompter with an explicit terminal state and form runner
func NewWithRunner(interactive bool, run FormRunner) *Prompter {
	return &Prompter{interactive: interactive, run: run}
}

// IsInteractive reports whether both files are terminals
func IsInteractive(in, out *os.File) bool {
	return isTerminal(in) && isTerminal(out)
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// missing lists the flags that would supply the unanswered questions
func missing(cfg *project.Config) []string {
	var flags []string
	if cfg.Profile == "" {
		flags = append(flags, "--profile")
	}
	if cfg.PackageBase == "" {
		flags = append(flags, "--package-base")
	}
	return flags
}

// 💬 Complete asks for the profile and package base when cfg lacks them.
// Answers already present are never asked again.
func (p *Prompter) Complete(ctx context.Context, cfg *project.Config) error {
	logger := zerolog.Ctx(ctx)

	flags := missing(cfg)
	if len(flags) == 0 {
		logger.Debug().Msg("all answers supplied, skipping prompt")
		return nil
	}
	if !p.interactive {
		return errors.Errorf("%w: pass %s", ErrNotInteractive, strings.Join(flags, " and "))
	}

	answers := &Answers{Profile: project.ProfileDev}

	var fields []huh.Field
	if cfg.Profile == "" {
		opts := make([]huh.Option[project.Profile], 0, len(project.Profiles))
		for _, pr := range project.Profiles {
			opts = append(opts, huh.NewOption(pr.Description(), pr))
		}
		fields = append(fields, huh.NewSelect[project.Profile]().
			Title("Which profile should the project start with?").
			Options(opts...).
			Value(&answers.Profile))
	}
	if cfg.PackageBase == "" {
		fields = append(fields, huh.NewInput().
			Title("Package base").
			Description("Your group id segment, e.g. acme for com.acme."+cfg.SanitizedName()).
			Placeholder("acme").
			Validate(project.ValidatePackageBase).
			Value(&answers.PackageBase))
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := p.run(ctx, form, answers); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return errors.Errorf("running prompt: %w", err)
	}

	if cfg.Profile == "" {
		cfg.Profile = answers.Profile
	}
	if cfg.PackageBase == "" {
		if err := project.ValidatePackageBase(answers.PackageBase); err != nil {
			return errors.Errorf("package base: %w", err)
		}
		cfg.PackageBase = answers.PackageBase
	}

	logger.Debug().Str("profile", string(cfg.Profile)).Str("package_base", cfg.PackageBase).Msg("prompt answered")
	return nil
}
