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

package log

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_rewrite_action",
			op: func(t *testing.T, logger *Logger) {
				logger.LogAction(context.Background(), Action{
					Kind:         ActionRewrite,
					Path:         "pom.xml",
					Replacements: 2,
				})
			},
			wantLogs: []string{
				"⟳ rewrite    pom.xml (2)",
			},
		},
		{
			name: "log_move_action",
			op: func(t *testing.T, logger *Logger) {
				logger.LogAction(context.Background(), Action{
					Kind:   ActionMove,
					Path:   "src/main/java/com/blueisfresh/bootguard",
					Target: "src/main/java/com/jdoe/myapp",
				})
			},
			wantLogs: []string{
				"→ move       src/main/java/com/blueisfresh/bootguard → src/main/java/com/jdoe/myapp",
			},
		},
		{
			name: "log_step",
			op: func(t *testing.T, logger *Logger) {
				logger.StartStep(context.Background(), 3, 7, "replace tokens")
			},
			wantLogs: []string{
				"◆ [3/7] replace tokens",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("creating myapp")
			},
			wantLogs: []string{
				"create-springboot • creating myapp",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	fallback := FromContext(context.Background())
	require.NotNil(t, fallback, "missing logger should fall back to a silent one")
	assert.NotPanics(t, func() { fallback.Info("dropped") })
}

func TestLoggerTracksStepAndActions(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))
	ctx := context.Background()

	logger.StartStep(ctx, 1, 2, "relocate packages")
	logger.LogAction(ctx, Action{Kind: ActionRemove, Path: "src/main/java/com/blueisfresh"})
	logger.FailStep(ctx, errors.New("disk full"))

	assert.Equal(t, "relocate packages", logger.Step())
	assert.Len(t, logger.Actions(), 1)
	assert.Contains(t, buf.String(), `step "relocate packages" failed: disk full`)
	assert.Contains(t, buf.String(), "partially transformed")
}
