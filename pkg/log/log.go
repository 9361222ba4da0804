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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	actionIndent = 4  // spaces to indent action entries
	kindWidth    = 10 // Width for the action kind
)

// 🏷️ ActionKind is the kind of file system change reported to the user
type ActionKind string

const (
	ActionRewrite ActionKind = "rewrite"
	ActionMove    ActionKind = "move"
	ActionRemove  ActionKind = "remove"
	ActionRename  ActionKind = "rename"
	ActionProfile ActionKind = "profile"
	ActionSkip    ActionKind = "skip"
)

// 🎯 Action represents one change made to the project tree
type Action struct {
	Kind         ActionKind // What happened
	Path         string     // Path relative to the project root
	Target       string     // Destination for moves and renames
	Replacements int        // Number of replacements made
	Detail       string     // Optional human readable detail
}

// 🎯 Logger reports progress to the console and mirrors it to zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	step    string
	actions []Action
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a silent one if none is set
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, *zerolog.Ctx(ctx))
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatAction formats an action for display
func (l *Logger) formatAction(a Action) string {
	var symbol rune
	var symbolColor color.Attribute
	switch a.Kind {
	case ActionRemove:
		symbol = '✗'
		symbolColor = color.FgRed
	case ActionMove, ActionRename:
		symbol = '→'
		symbolColor = color.FgBlue
	case ActionRewrite:
		symbol = '⟳'
		symbolColor = color.FgYellow
	case ActionProfile:
		symbol = '⚙'
		symbolColor = color.FgMagenta
	default:
		symbol = '-'
		symbolColor = color.Faint
	}

	line := fmt.Sprintf("%*s%s %s %s",
		actionIndent, "",
		color.New(symbolColor).Sprint(string(symbol)),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", kindWidth, a.Kind)),
		a.Path)

	if a.Target != "" {
		line += " → " + a.Target
	}
	if a.Replacements > 0 {
		line += color.New(color.Faint).Sprintf(" (%d)", a.Replacements)
	}
	if a.Detail != "" {
		line += color.New(color.Faint).Sprintf(" %s", a.Detail)
	}
	return line
}

// 📝 LogAction logs a change to the project tree
func (l *Logger) LogAction(ctx context.Context, a Action) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.actions = append(l.actions, a)

	fmt.Fprintln(l.console, l.formatAction(a))

	l.zlog.Info().
		Str("step", l.step).
		Str("kind", string(a.Kind)).
		Str("path", a.Path).
		Str("target", a.Target).
		Int("replacements", a.Replacements).
		Str("detail", a.Detail).
		Msg("project action")
}

// 📝 StartStep prints a step header and remembers the step in progress
func (l *Logger) StartStep(ctx context.Context, index, total int, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.step = name

	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Faint).Sprintf("[%d/%d]", index, total),
		color.New(color.Bold).Sprint(name))

	l.zlog.Info().Int("index", index).Int("total", total).Str("step", name).Msg("starting step")
}

// 📝 FailStep reports the step that was in progress when err happened
func (l *Logger) FailStep(ctx context.Context, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "❌ %s %s\n",
		color.New(color.FgRed).Sprintf("step %q failed:", l.step),
		err)
	fmt.Fprintf(l.console, "   %s\n",
		color.New(color.Faint).Sprint("the project tree is partially transformed"))

	l.zlog.Error().Err(err).Str("step", l.step).Msg("step failed")
}

// 📋 Step returns the name of the step in progress
func (l *Logger) Step() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.step
}

// 📋 Actions returns a copy of the actions logged so far
func (l *Logger) Actions() []Action {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Action, len(l.actions))
	copy(out, l.actions)
	return out
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("create-springboot")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
