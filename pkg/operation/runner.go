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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/create-springboot/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one step of a transformation
type Operation interface {
	// Name is shown to the user while the step runs
	Name() string
	// Execute performs the step
	Execute(ctx context.Context) error
}

// 🔧 step adapts a function to the Operation interface
type step struct {
	name string
	fn   func(ctx context.Context) error
}

func (s step) Name() string                      { return s.name }
func (s step) Execute(ctx context.Context) error { return s.fn(ctx) }

// NewOperation wraps fn as a named operation
func NewOperation(name string, fn func(ctx context.Context) error) Operation {
	return step{name: name, fn: fn}
}

// 🏃 OperationRunner executes operations one after the other
type OperationRunner struct {
	logger *zerolog.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger) *OperationRunner {
	return &OperationRunner{
		logger: logger,
	}
}

// 🏃 Run executes ops in order and stops at the first failure.
// Each operation starts only after the previous one returned, so every
// file system change it made is already in place.
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	console := log.FromContext(ctx)

	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled before %q: %w", op.Name(), err)
		}

		console.StartStep(ctx, i+1, len(ops), op.Name())
		r.logger.Debug().Str("step", op.Name()).Msg("executing operation")

		if err := op.Execute(ctx); err != nil {
			err = errors.Errorf("step %d/%d %q: %w", i+1, len(ops), op.Name(), err)
			console.FailStep(ctx, err)
			return err
		}
	}

	return nil
}
