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

package plan

import (
	"context"
	_ "embed"
	"os"
	"regexp"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

//go:embed default.hcl
var defaultPlan []byte

// DefaultFilename is the name reported for the embedded plan
const DefaultFilename = "default.hcl"

// 🔌 Parser is the interface for plan parsers
type Parser interface {
	// 📝 Parse decodes a plan, resolving placeholders against vars
	Parse(ctx context.Context, data []byte, filename string, vars map[string]string) (*Plan, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🎯 Load loads a rename plan from a file
func Load(ctx context.Context, path string, vars map[string]string) (*Plan, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading rename plan")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading plan file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	return parse(ctx, p, data, path, vars)
}

// 📦 Default returns the embedded plan for the bootguard template
func Default(ctx context.Context, vars map[string]string) (*Plan, error) {
	zerolog.Ctx(ctx).Debug().Msg("loading embedded rename plan")
	return parse(ctx, &HCLParser{}, defaultPlan, DefaultFilename, vars)
}

// DefaultSource returns the unexpanded HCL of the embedded plan, a starting point for custom plans
func DefaultSource() []byte {
	return append([]byte(nil), defaultPlan...)
}

func parse(ctx context.Context, p Parser, data []byte, filename string, vars map[string]string) (*Plan, error) {
	pl, err := p.Parse(ctx, data, filename, vars)
	if err != nil {
		return nil, errors.Errorf("parsing plan: %w", err)
	}

	if err := pl.Validate(); err != nil {
		return nil, errors.Errorf("validating plan: %w", err)
	}

	return pl, nil
}

var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandString resolves ${var} placeholders; unknown names are an error
func expandString(s string, vars map[string]string) (string, error) {
	var missing string
	out := placeholder.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-1]
		v, ok := vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", errors.Errorf("unknown variable %q in %q", missing, s)
	}
	return out, nil
}

// expand resolves placeholders in every string of a decoded YAML or JSON plan
func (p *Plan) expand(vars map[string]string) error {
	var err error
	ex := func(s *string) {
		if err != nil {
			return
		}
		*s, err = expandString(*s, vars)
	}
	exAll := func(ss []string) {
		for i := range ss {
			ex(&ss[i])
		}
	}

	if p.Template != nil {
		ex(&p.Template.Repo)
		ex(&p.Template.Ref)
	}
	if p.Layout != nil {
		ex(&p.Layout.MainSource)
		ex(&p.Layout.TestSource)
		ex(&p.Layout.Resources)
	}
	exAll(p.Exclude)
	exAll(p.SkipDirs)
	for i := range p.Profiles {
		pr := &p.Profiles[i]
		ex(&pr.Name)
		ex(&pr.Config)
		ex(&pr.Target)
		ex(&pr.ActiveKey)
		exAll(pr.Purge)
	}
	for i := range p.Tokens {
		t := &p.Tokens[i]
		ex(&t.From)
		ex(&t.To)
		exAll(t.Include)
		exAll(t.Exclude)
	}
	if p.Package != nil {
		ex(&p.Package.From)
		ex(&p.Package.To)
	}
	for i := range p.Qualified {
		ex(&p.Qualified[i].From)
		ex(&p.Qualified[i].To)
	}
	for i := range p.EntryPoints {
		ex(&p.EntryPoints[i].From)
		ex(&p.EntryPoints[i].To)
		exAll(p.EntryPoints[i].References)
	}
	return err
}
