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

// Package ident derives the secondary identifiers of a generated project
// from the single name the user typed.
package ident

import (
	"regexp"
	"strings"
)

// 🔤 packageBasePattern matches a single Java identifier segment
var packageBasePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// 🧼 Sanitize strips every character outside [A-Za-z0-9] and lowercases the rest
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}

// 🔠 Capitalize upper-cases the first character of s
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		return string(c-('a'-'A')) + s[1:]
	}
	return s
}

// ✅ ValidPackageBase reports whether s can be used as a Java package segment
func ValidPackageBase(s string) bool {
	return packageBasePattern.MatchString(s)
}

// 🏷️ Identifiers holds every name derived for one generated project
type Identifiers struct {
	Project     string // Raw project name, also the directory name
	Name        string // Sanitized package-safe name
	PackageBase string // User supplied package owner segment
	ClassName   string // Capitalized form of Name used for class names
}

// 🏭 Derive computes the identifiers for a project
func Derive(project, packageBase string) Identifiers {
	name := Sanitize(project)
	return Identifiers{
		Project:     project,
		Name:        name,
		PackageBase: packageBase,
		ClassName:   Capitalize(name),
	}
}

// 🗺️ Variables returns the placeholder values used by rename plans
func (id Identifiers) Variables() map[string]string {
	return map[string]string{
		"project":      id.Project,
		"name":         id.Name,
		"package_base": id.PackageBase,
		"class_name":   id.ClassName,
	}
}
