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

// Package project holds the configuration record of one generated project.
package project

import (
	"fmt"
	"os"
	"strings"

	"github.com/walteh/create-springboot/pkg/ident"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidPackageBase is returned for a package base that is not a Java identifier
	ErrInvalidPackageBase = errors.Base("package base must be a valid Java identifier")
	// ErrTargetExists is returned when the project directory is already present
	ErrTargetExists = errors.Base("project directory already exists")
)

// 🌱 Profile selects the environment-specific configuration of a project
type Profile string

const (
	ProfileDev  Profile = "dev"
	ProfileProd Profile = "prod"
)

// Profiles lists every supported profile, default first
var Profiles = []Profile{ProfileDev, ProfileProd}

// 🔍 ParseProfile parses a profile name
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(strings.ToLower(strings.TrimSpace(s))); p {
	case ProfileDev, ProfileProd:
		return p, nil
	}
	return "", errors.Errorf("unknown profile %q (want dev or prod)", s)
}

// Description returns the label shown when choosing a profile
func (p Profile) Description() string {
	switch p {
	case ProfileDev:
		return "dev (SQLite)"
	case ProfileProd:
		return "prod (Postgres)"
	}
	return string(p)
}

// 📚 Config is the validated input of a transformation run
type Config struct {
	ProjectName string  // Raw project name, also the directory name
	PackageBase string  // Java package owner segment
	Profile     Profile // Selected profile
}

// SanitizedName is always recomputed from ProjectName
func (c Config) SanitizedName() string {
	return ident.Sanitize(c.ProjectName)
}

// Identifiers derives every name used by the rename plan
func (c Config) Identifiers() ident.Identifiers {
	return ident.Derive(c.ProjectName, c.PackageBase)
}

// Variables returns the plan placeholders for this configuration
func (c Config) Variables() map[string]string {
	vars := c.Identifiers().Variables()
	vars["profile"] = string(c.Profile)
	return vars
}

// 🔍 ValidateName checks the project name on its own
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("project name is required")
	}
	if ident.Sanitize(name) == "" {
		return errors.Errorf("project name %q has no letters or digits", name)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.Errorf("project name %q must be a single path segment", name)
	}
	return nil
}

// 🔍 ValidatePackageBase checks a package base
func ValidatePackageBase(s string) error {
	if !ident.ValidPackageBase(s) {
		return errors.Errorf("%q: %w", s, ErrInvalidPackageBase)
	}
	return nil
}

// 🔍 Validate checks if the configuration is valid
func (c Config) Validate() error {
	if err := ValidateName(c.ProjectName); err != nil {
		return err
	}
	if err := ValidatePackageBase(c.PackageBase); err != nil {
		return err
	}
	if _, err := ParseProfile(string(c.Profile)); err != nil {
		return err
	}
	return nil
}

// 📂 CheckTarget fails when dir already exists
func CheckTarget(dir string) error {
	if _, err := os.Lstat(dir); err == nil {
		return errors.Errorf("%s: %w", dir, ErrTargetExists)
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking %s: %w", dir, err)
	}
	return nil
}

// 📝 String returns a string representation of the config
func (c Config) String() string {
	return fmt.Sprintf("%s (com.%s.%s, %s)", c.ProjectName, c.PackageBase, c.SanitizedName(), c.Profile)
}
