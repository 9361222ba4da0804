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
	"fmt"
	"path"
	"strings"

	"github.com/walteh/create-springboot/pkg/text"
	"github.com/walteh/create-springboot/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

const (
	// EntryPointMain is the entry point that lives under the main source root
	EntryPointMain = "main"
	// EntryPointTest is the entry point that lives under the test source root
	EntryPointTest = "test"
)

// 📦 Template names the repository a project is generated from
type Template struct {
	Repo string `hcl:"repo" yaml:"repo" json:"repo"`                             // owner/name on GitHub, or a local directory
	Ref  string `hcl:"ref,optional" yaml:"ref,omitempty" json:"ref,omitempty"` // Branch or tag
}

// 📂 Layout locates the source roots inside the template
type Layout struct {
	MainSource string `hcl:"main_source,optional" yaml:"main_source,omitempty" json:"main_source,omitempty"`
	TestSource string `hcl:"test_source,optional" yaml:"test_source,omitempty" json:"test_source,omitempty"`
	Resources  string `hcl:"resources,optional" yaml:"resources,omitempty" json:"resources,omitempty"`
}

// ⚙️ Profile describes how one environment profile is applied
type Profile struct {
	Name      string   `hcl:"name,label" yaml:"name" json:"name"`
	Config    string   `hcl:"config" yaml:"config" json:"config"`                                        // Profile-specific file, relative to resources
	Target    string   `hcl:"target,optional" yaml:"target,omitempty" json:"target,omitempty"`             // File the profile file is copied over
	ActiveKey string   `hcl:"active_key,optional" yaml:"active_key,omitempty" json:"active_key,omitempty"` // Property forced to the profile name
	Purge     []string `hcl:"purge,optional" yaml:"purge,omitempty" json:"purge,omitempty"`                // Paths removed, relative to the project root
}

// 🔄 Token is one global literal substitution
type Token struct {
	ID      string   `hcl:"id,label" yaml:"id" json:"id"`
	From    string   `hcl:"from" yaml:"from" json:"from"`
	To      string   `hcl:"to" yaml:"to" json:"to"`
	Include []string `hcl:"include,optional" yaml:"include,omitempty" json:"include,omitempty"`
	Exclude []string `hcl:"exclude,optional" yaml:"exclude,omitempty" json:"exclude,omitempty"`
}

// 📦 Package is the fully-qualified package migration
type Package struct {
	From string `hcl:"from" yaml:"from" json:"from"`
	To   string `hcl:"to" yaml:"to" json:"to"`
}

// 🔄 Qualified is a literal substitution run after relocation
type Qualified struct {
	ID   string `hcl:"id,label" yaml:"id" json:"id"`
	From string `hcl:"from" yaml:"from" json:"from"`
	To   string `hcl:"to" yaml:"to" json:"to"`
}

// 🎯 EntryPoint is a class whose name and file name are both rewritten
type EntryPoint struct {
	ID     string `hcl:"id,label" yaml:"id" json:"id"`
	Source string `hcl:"source" yaml:"source" json:"source"` // main or test
	From   string `hcl:"from" yaml:"from" json:"from"`       // Old class name
	To     string `hcl:"to" yaml:"to" json:"to"`             // New class name

	// References are globs of other files whose whole-word mentions of the class are renamed too
	References []string `hcl:"references,optional" yaml:"references,omitempty" json:"references,omitempty"`
}

// Rule returns the whole-word rename of the class, scoped to its references
func (ep EntryPoint) Rule() text.ReplacementRule {
	return text.ReplacementRule{
		FromText:        ep.From,
		ToText:          ep.To,
		FileFilterGlobs: ep.References,
		WholeWord:       true,
	}
}

// 📚 Plan is the ordered rename plan applied to a fetched template
type Plan struct {
	Template    *Template    `hcl:"template,block" yaml:"template,omitempty" json:"template,omitempty"`
	Layout      *Layout      `hcl:"layout,block" yaml:"layout,omitempty" json:"layout,omitempty"`
	Exclude     []string     `hcl:"exclude,optional" yaml:"exclude,omitempty" json:"exclude,omitempty"`
	SkipDirs    []string     `hcl:"skip_dirs,optional" yaml:"skip_dirs,omitempty" json:"skip_dirs,omitempty"`
	Profiles    []Profile    `hcl:"profile,block" yaml:"profiles,omitempty" json:"profiles,omitempty"`
	Tokens      []Token      `hcl:"token,block" yaml:"tokens" json:"tokens"`
	Package     *Package     `hcl:"package,block" yaml:"package,omitempty" json:"package,omitempty"`
	Qualified   []Qualified  `hcl:"qualified,block" yaml:"qualified,omitempty" json:"qualified,omitempty"`
	EntryPoints []EntryPoint `hcl:"entry_point,block" yaml:"entry_points,omitempty" json:"entry_points,omitempty"`
}

// 🔍 Validate checks the plan and fills defaults
func (p *Plan) Validate() error {
	if p.Layout == nil {
		p.Layout = &Layout{}
	}
	if p.Layout.MainSource == "" {
		p.Layout.MainSource = "src/main/java"
	}
	if p.Layout.TestSource == "" {
		p.Layout.TestSource = "src/test/java"
	}
	if p.Layout.Resources == "" {
		p.Layout.Resources = "src/main/resources"
	}
	if p.Template != nil {
		if p.Template.Repo == "" {
			return errors.Errorf("template.repo is required")
		}
		if p.Template.Ref == "" {
			p.Template.Ref = "main"
		}
	}

	for _, rel := range []string{p.Layout.MainSource, p.Layout.TestSource, p.Layout.Resources} {
		if err := checkRelative(rel); err != nil {
			return errors.Errorf("layout: %w", err)
		}
	}

	if err := p.WalkOptions().Validate(); err != nil {
		return err
	}

	seen := map[string]bool{}
	for i := range p.Profiles {
		pr := &p.Profiles[i]
		switch pr.Name {
		case "dev", "prod":
		default:
			return errors.Errorf("profile %q: unknown profile (want dev or prod)", pr.Name)
		}
		if seen[pr.Name] {
			return errors.Errorf("profile %q: declared twice", pr.Name)
		}
		seen[pr.Name] = true
		if pr.Config == "" {
			return errors.Errorf("profile %q: config is required", pr.Name)
		}
		if pr.Target == "" {
			pr.Target = "application.properties"
		}
		for _, rel := range append([]string{pr.Config, pr.Target}, pr.Purge...) {
			if err := checkRelative(rel); err != nil {
				return errors.Errorf("profile %q: %w", pr.Name, err)
			}
		}
	}

	if len(p.Tokens) == 0 {
		return errors.Errorf("at least one token is required")
	}
	replacer := text.NewSimpleTextReplacer()
	if err := replacer.ValidateRules(p.TokenRules()); err != nil {
		return errors.Errorf("token: %w", err)
	}
	if err := replacer.ValidateRules(p.QualifiedRules()); err != nil {
		return errors.Errorf("qualified: %w", err)
	}

	if p.Package != nil {
		for _, s := range []string{p.Package.From, p.Package.To} {
			if s == "" || strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") || strings.Contains(s, "..") || strings.ContainsAny(s, `/\`) {
				return errors.Errorf("package: %q is not a dotted package name", s)
			}
		}
	}

	for _, ep := range p.EntryPoints {
		if ep.Source != EntryPointMain && ep.Source != EntryPointTest {
			return errors.Errorf("entry_point %q: source must be %q or %q", ep.ID, EntryPointMain, EntryPointTest)
		}
		if ep.From == "" || ep.To == "" {
			return errors.Errorf("entry_point %q: from and to are required", ep.ID)
		}
		if p.Package == nil {
			return errors.Errorf("entry_point %q: requires a package block", ep.ID)
		}
		if err := replacer.ValidateRules([]text.ReplacementRule{ep.Rule()}); err != nil {
			return errors.Errorf("entry_point %q: %w", ep.ID, err)
		}
	}

	return nil
}

func checkRelative(rel string) error {
	clean := path.Clean(rel)
	if rel == "" || path.IsAbs(rel) || clean == ".." || strings.HasPrefix(clean, "../") {
		return errors.Errorf("%q must be a relative path inside the project", rel)
	}
	return nil
}

// 🔍 Profile returns the profile block with the given name
func (p *Plan) Profile(name string) (*Profile, bool) {
	for i := range p.Profiles {
		if p.Profiles[i].Name == name {
			return &p.Profiles[i], true
		}
	}
	return nil, false
}

// WalkOptions returns the walker exclusions, falling back to the defaults
func (p *Plan) WalkOptions() walk.Options {
	opts := walk.DefaultOptions()
	if p.Exclude != nil {
		opts.Exclude = p.Exclude
	}
	if p.SkipDirs != nil {
		opts.SkipDirs = p.SkipDirs
	}
	return opts
}

// TokenRules converts the tokens into replacement rules, in plan order
func (p *Plan) TokenRules() []text.ReplacementRule {
	rules := make([]text.ReplacementRule, 0, len(p.Tokens))
	for _, t := range p.Tokens {
		rules = append(rules, text.ReplacementRule{
			FromText:        t.From,
			ToText:          t.To,
			FileFilterGlobs: t.Include,
			ExcludeGlobs:    t.Exclude,
		})
	}
	return rules
}

// QualifiedRules converts the package migration and the qualified blocks into replacement rules
func (p *Plan) QualifiedRules() []text.ReplacementRule {
	var rules []text.ReplacementRule
	if p.Package != nil {
		rules = append(rules, text.ReplacementRule{FromText: p.Package.From, ToText: p.Package.To})
	}
	for _, q := range p.Qualified {
		rules = append(rules, text.ReplacementRule{FromText: q.From, ToText: q.To})
	}
	return rules
}

// Needles returns the old literals a finished project should no longer contain.
// A literal is left out when any of its replacements still contains it.
func (p *Plan) Needles() []string {
	pairs := make([][2]string, 0, len(p.Tokens)+1)
	for _, t := range p.Tokens {
		pairs = append(pairs, [2]string{t.From, t.To})
	}
	if p.Package != nil {
		pairs = append(pairs, [2]string{p.Package.From, p.Package.To})
	}

	unsafe := map[string]bool{}
	for _, pair := range pairs {
		if strings.Contains(pair[1], pair[0]) {
			unsafe[pair[0]] = true
		}
	}

	var needles []string
	seen := map[string]bool{}
	for _, pair := range pairs {
		from := pair[0]
		if from == "" || unsafe[from] || seen[from] {
			continue
		}
		seen[from] = true
		needles = append(needles, from)
	}
	return needles
}

// PackageDir converts a dotted package name into a slash-separated directory
func PackageDir(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// SourceRoot returns the layout root of an entry point source
func (p *Plan) SourceRoot(source string) string {
	if source == EntryPointTest {
		return p.Layout.TestSource
	}
	return p.Layout.MainSource
}

// OwnerDir is the old package's parent directory, e.g. com/blueisfresh
func (p *Plan) OwnerDir() string {
	if p.Package == nil {
		return ""
	}
	dir := path.Dir(PackageDir(p.Package.From))
	if dir == "." {
		return ""
	}
	return dir
}

// 📝 String returns a short description of the plan
func (p *Plan) String() string {
	repo := "<none>"
	if p.Template != nil {
		repo = p.Template.Repo + "@" + p.Template.Ref
	}
	pkg := "<none>"
	if p.Package != nil {
		pkg = p.Package.From + " -> " + p.Package.To
	}
	return fmt.Sprintf("template %s, %d tokens, package %s, %d entry points", repo, len(p.Tokens), pkg, len(p.EntryPoints))
}
