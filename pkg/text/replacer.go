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

// Package text rewrites file contents with literal search/replace rules.
//
// Search text is never interpreted as a pattern: a dot in a package name
// only ever matches a dot.
package text

import (
	"context"
	"io"

	"github.com/bmatcuk/doublestar/v4"
)

// ReplacementRule defines a single literal replacement
type ReplacementRule struct {
	// FromText is the literal text to replace
	FromText string

	// ToText is the replacement text
	ToText string

	// FileFilterGlobs limits the rule to matching relative paths; empty means every file
	FileFilterGlobs []string

	// ExcludeGlobs removes matching relative paths from the rule's scope
	ExcludeGlobs []string

	// WholeWord only replaces occurrences not surrounded by identifier characters
	WholeWord bool
}

// AppliesTo reports whether the rule's scope covers the slash separated relative path
func (r ReplacementRule) AppliesTo(rel string) bool {
	for _, pattern := range r.ExcludeGlobs {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	if len(r.FileFilterGlobs) == 0 {
		return true
	}
	for _, pattern := range r.FileFilterGlobs {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ReplacementResult contains the results of a text replacement operation
type ReplacementResult struct {
	// WasModified indicates if any replacements were made
	WasModified bool

	// ReplacementCount is the number of replacements made
	ReplacementCount int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte
}

// TextReplacer defines the interface for text replacement operations
type TextReplacer interface {
	// ReplaceText applies a set of replacement rules to the content
	ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error)

	// ValidateRules checks that all rules are valid
	ValidateRules(rules []ReplacementRule) error
}
