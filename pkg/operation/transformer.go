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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/walteh/create-springboot/pkg/ident"
	"github.com/walteh/create-springboot/pkg/log"
	"github.com/walteh/create-springboot/pkg/plan"
	"github.com/walteh/create-springboot/pkg/project"
	"github.com/walteh/create-springboot/pkg/relocate"
	"github.com/walteh/create-springboot/pkg/text"
	"github.com/walteh/create-springboot/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 📦 Move records a path that was moved or renamed, relative to the project root
type Move struct {
	From string
	To   string
}

// 📋 Summary records what a transformation changed
type Summary struct {
	Root           string
	Identifiers    ident.Identifiers
	Profile        project.Profile
	ProfileApplied bool
	RewrittenFiles []string // Unique relative paths, sorted
	Replacements   int      // Total literal replacements across every pass
	Relocations    []Move
	Purged         []string
	EntryPoints    []Move

	rewritten map[string]bool
}

func (s *Summary) recordRewrite(rel string, count int) {
	if s.rewritten == nil {
		s.rewritten = map[string]bool{}
	}
	s.Replacements += count
	if !s.rewritten[rel] {
		s.rewritten[rel] = true
		s.RewrittenFiles = append(s.RewrittenFiles, rel)
		sort.Strings(s.RewrittenFiles)
	}
}

// 🔄 Transformer rewrites a fetched template into a personalised project
type Transformer struct{}

// 🏭 New creates a new transformer
func New() *Transformer {
	return &Transformer{}
}

// run carries the state of one transformation
type run struct {
	root    string
	cfg     project.Config
	plan    *plan.Plan
	ids     ident.Identifiers
	opts    walk.Options
	summary *Summary
}

// 🏃 Run transforms the tree at root in place.
// Steps run strictly in order; a failure stops the run and leaves the tree
// partially transformed. The summary reflects every change made up to that point.
func (t *Transformer) Run(ctx context.Context, root string, cfg project.Config, pl *plan.Plan) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating project config: %w", err)
	}
	if pl == nil {
		return nil, errors.Errorf("rename plan is required")
	}
	if err := pl.Validate(); err != nil {
		return nil, errors.Errorf("validating plan: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}

	r := &run{
		root:    absRoot,
		cfg:     cfg,
		plan:    pl,
		opts:    pl.WalkOptions(),
		summary: &Summary{Root: absRoot, Profile: cfg.Profile},
	}

	logger.Debug().Str("root", absRoot).Stringer("config", cfg).Stringer("plan", pl).Msg("starting transformation")

	err = NewRunner(logger).Run(ctx,
		NewOperation("derive identifiers", r.deriveIdentifiers),
		NewOperation("apply profile", r.applyProfile),
		NewOperation("replace tokens", r.replaceTokens),
		NewOperation("relocate packages", r.relocatePackages),
		NewOperation("purge old owner", r.purgeOldOwner),
		NewOperation("replace qualified names", r.replaceQualified),
		NewOperation("rename entry points", r.renameEntryPoints),
	)
	return r.summary, err
}

func (r *run) rel(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func (r *run) abs(rel ...string) string {
	parts := []string{r.root}
	for _, p := range rel {
		parts = append(parts, filepath.FromSlash(p))
	}
	return filepath.Join(parts...)
}

// 1️⃣ deriveIdentifiers computes every name from the raw project name
func (r *run) deriveIdentifiers(ctx context.Context) error {
	r.ids = r.cfg.Identifiers()
	r.summary.Identifiers = r.ids

	zerolog.Ctx(ctx).Debug().
		Str("project", r.ids.Project).
		Str("name", r.ids.Name).
		Str("package_base", r.ids.PackageBase).
		Str("class_name", r.ids.ClassName).
		Msg("derived identifiers")
	return nil
}

// 2️⃣ applyProfile copies the profile configuration over the main one and purges profile leftovers
func (r *run) applyProfile(ctx context.Context) error {
	console := log.FromContext(ctx)

	prof, ok := r.plan.Profile(string(r.cfg.Profile))
	if !ok {
		console.Warningf("plan has no profile %q, leaving configuration as fetched", r.cfg.Profile)
		return nil
	}

	src := r.abs(r.plan.Layout.Resources, prof.Config)
	dst := r.abs(r.plan.Layout.Resources, prof.Target)

	var content, original []byte
	var mode os.FileMode
	switch info, err := os.Stat(src); {
	case err == nil:
		if content, err = os.ReadFile(src); err != nil {
			return errors.Errorf("reading profile file: %w", err)
		}
		mode = info.Mode().Perm()
		r.summary.ProfileApplied = true
	case os.IsNotExist(err):
		console.Warningf("profile file not found: %s", r.rel(src))
		info, err := os.Stat(dst)
		if err != nil && !os.IsNotExist(err) {
			return errors.Errorf("checking %s: %w", r.rel(dst), err)
		}
		if err == nil {
			if content, err = os.ReadFile(dst); err != nil {
				return errors.Errorf("reading %s: %w", r.rel(dst), err)
			}
			original = content
			mode = info.Mode().Perm()
		}
	default:
		return errors.Errorf("checking profile file: %w", err)
	}

	if prof.ActiveKey != "" && (r.summary.ProfileApplied || original != nil) {
		content = setProperty(content, prof.ActiveKey, string(r.cfg.Profile))
	}

	if r.summary.ProfileApplied || (original != nil && !bytes.Equal(content, original)) {
		if err := os.WriteFile(dst, content, mode); err != nil {
			return errors.Errorf("writing %s: %w", r.rel(dst), err)
		}
		console.LogAction(ctx, log.Action{
			Kind:   log.ActionProfile,
			Path:   r.rel(dst),
			Detail: string(r.cfg.Profile),
		})
	}

	for _, rel := range prof.Purge {
		r.purge(ctx, r.abs(rel))
	}

	return nil
}

// 3️⃣ replaceTokens runs one walk per token, in plan order
func (r *run) replaceTokens(ctx context.Context) error {
	return r.rewriteTree(ctx, r.plan.TokenRules())
}

// 4️⃣ relocatePackages moves the package directory under each source root
func (r *run) relocatePackages(ctx context.Context) error {
	if r.plan.Package == nil {
		return nil
	}
	console := log.FromContext(ctx)

	oldDir := plan.PackageDir(r.plan.Package.From)
	newDir := plan.PackageDir(r.plan.Package.To)

	for _, source := range []string{r.plan.Layout.MainSource, r.plan.Layout.TestSource} {
		oldPath := r.abs(source, oldDir)
		newPath := r.abs(source, newDir)

		moved, err := relocate.Relocate(ctx, oldPath, newPath)
		if err != nil {
			return err
		}
		if !moved {
			zerolog.Ctx(ctx).Debug().Str("path", r.rel(oldPath)).Msg("package directory absent, skipping")
			continue
		}

		relocate.PruneEmptyParents(ctx, oldPath, r.abs(source))

		m := Move{From: r.rel(oldPath), To: r.rel(newPath)}
		r.summary.Relocations = append(r.summary.Relocations, m)
		console.LogAction(ctx, log.Action{Kind: log.ActionMove, Path: m.From, Target: m.To})
	}
	return nil
}

// 5️⃣ purgeOldOwner removes what is left of the old owner directory under each source root
func (r *run) purgeOldOwner(ctx context.Context) error {
	owner := r.plan.OwnerDir()
	if owner == "" || r.plan.Package == nil {
		return nil
	}
	newDir := plan.PackageDir(r.plan.Package.To)

	for _, source := range []string{r.plan.Layout.MainSource, r.plan.Layout.TestSource} {
		ownerPath := r.abs(source, owner)
		if relocate.Within(r.abs(source, newDir), ownerPath) {
			zerolog.Ctx(ctx).Debug().Str("path", r.rel(ownerPath)).Msg("new package lives in the old owner directory, keeping it")
			continue
		}
		r.purge(ctx, ownerPath)
	}
	return nil
}

// 6️⃣ replaceQualified rewrites fully-qualified names and build coordinates
func (r *run) replaceQualified(ctx context.Context) error {
	return r.rewriteTree(ctx, r.plan.QualifiedRules())
}

// 7️⃣ renameEntryPoints renames each entry-point class and its file
func (r *run) renameEntryPoints(ctx context.Context) error {
	if r.plan.Package == nil {
		return nil
	}
	console := log.FromContext(ctx)
	newDir := plan.PackageDir(r.plan.Package.To)

	for _, ep := range r.plan.EntryPoints {
		dir := r.abs(r.plan.SourceRoot(ep.Source), newDir)
		oldFile := filepath.Join(dir, ep.From+".java")
		newFile := filepath.Join(dir, ep.To+".java")

		if _, err := os.Stat(oldFile); err != nil {
			if os.IsNotExist(err) {
				zerolog.Ctx(ctx).Debug().Str("entry_point", ep.ID).Str("path", r.rel(oldFile)).Msg("entry point absent, skipping")
				continue
			}
			return errors.Errorf("checking entry point %s: %w", ep.ID, err)
		}

		rule := ep.Rule()
		rule.FileFilterGlobs = nil
		if err := r.rewriteFile(ctx, oldFile, rule); err != nil {
			return err
		}

		if _, err := relocate.Relocate(ctx, oldFile, newFile); err != nil {
			return errors.Errorf("renaming entry point %s: %w", ep.ID, err)
		}
		m := Move{From: r.rel(oldFile), To: r.rel(newFile)}
		if m.From != m.To {
			r.summary.EntryPoints = append(r.summary.EntryPoints, m)
			console.LogAction(ctx, log.Action{Kind: log.ActionRename, Path: m.From, Target: m.To})
		}

		if len(ep.References) > 0 {
			if err := r.rewriteTree(ctx, []text.ReplacementRule{ep.Rule()}); err != nil {
				return err
			}
		}
	}
	return nil
}

// rewriteTree walks the tree once per rule and rewrites every file in the rule's scope
func (r *run) rewriteTree(ctx context.Context, rules []text.ReplacementRule) error {
	for _, rule := range rules {
		err := walk.Walk(ctx, r.root, r.opts, func(ctx context.Context, path, rel string) error {
			if !rule.AppliesTo(rel) {
				return nil
			}
			return r.rewriteFile(ctx, path, rule)
		})
		if err != nil {
			return errors.Errorf("replacing %q: %w", rule.FromText, err)
		}
	}
	return nil
}

func (r *run) rewriteFile(ctx context.Context, path string, rule text.ReplacementRule) error {
	res, err := text.RewriteFile(ctx, path, []text.ReplacementRule{rule})
	if err != nil {
		return errors.Errorf("rewriting %s: %w", r.rel(path), err)
	}
	if !res.WasModified {
		return nil
	}

	rel := r.rel(path)
	r.summary.recordRewrite(rel, res.ReplacementCount)
	log.FromContext(ctx).LogAction(ctx, log.Action{
		Kind:         log.ActionRewrite,
		Path:         rel,
		Replacements: res.ReplacementCount,
		Detail:       rule.FromText + " → " + rule.ToText,
	})
	return nil
}

func (r *run) purge(ctx context.Context, path string) {
	rel := r.rel(path)
	removed, err := relocate.Purge(ctx, path)
	if err != nil {
		log.FromContext(ctx).Warningf("could not remove %s: %s", rel, err)
		return
	}
	if !removed {
		return
	}
	r.summary.Purged = append(r.summary.Purged, rel)
	log.FromContext(ctx).LogAction(ctx, log.Action{Kind: log.ActionRemove, Path: rel})
}
