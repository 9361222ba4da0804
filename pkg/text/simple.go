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

package text

import (
	"context"
	"io"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// SimpleTextReplacer implements TextReplacer using literal string replacement
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText implements TextReplacer.ReplaceText
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	currentContent := string(originalContent)
	for _, rule := range rules {
		if rule.FromText == "" || rule.FromText == rule.ToText {
			continue
		}

		var newContent string
		var count int
		if rule.WholeWord {
			newContent, count = replaceWholeWord(currentContent, rule.FromText, rule.ToText)
		} else {
			count = strings.Count(currentContent, rule.FromText)
			newContent = strings.ReplaceAll(currentContent, rule.FromText, rule.ToText)
		}

		if count > 0 {
			result.WasModified = true
			result.ReplacementCount += count
		}

		currentContent = newContent
	}

	if result.WasModified {
		result.ModifiedContent = []byte(currentContent)
	}
	return result, nil
}

// ValidateRules implements TextReplacer.ValidateRules
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.FromText == "" {
			return errors.Errorf("rule %d: from_text is required", i)
		}
		for _, pattern := range append(append([]string{}, rule.FileFilterGlobs...), rule.ExcludeGlobs...) {
			if !doublestar.ValidatePattern(pattern) {
				return errors.Errorf("rule %d: invalid glob %q", i, pattern)
			}
		}
	}
	return nil
}

// replaceWholeWord replaces occurrences of from that are not part of a longer identifier
func replaceWholeWord(s, from, to string) (string, int) {
	var b strings.Builder
	count := 0
	i := 0
	for {
		j := strings.Index(s[i:], from)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(from)
		if isBoundary(s, start-1) && isBoundary(s, end) {
			b.WriteString(s[i:start])
			b.WriteString(to)
			count++
			i = end
			continue
		}
		b.WriteString(s[i : start+1])
		i = start + 1
	}
	if count == 0 {
		return s, 0
	}
	b.WriteString(s[i:])
	return b.String(), count
}

// isBoundary reports whether the byte at idx does not continue a Java identifier
func isBoundary(s string, idx int) bool {
	if idx < 0 || idx >= len(s) {
		return true
	}
	c := s[idx]
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '$':
		return false
	}
	return true
}
