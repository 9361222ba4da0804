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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/walteh/create-springboot/pkg/operation"
	"github.com/walteh/create-springboot/pkg/verify"
)

// nextSteps lists the commands that start the generated project
func nextSteps(target string, summary *operation.Summary) []string {
	return []string{
		"cd " + target,
		fmt.Sprintf("./mvnw spring-boot:run -Dspring-boot.run.profiles=%s", summary.Profile),
	}
}

// 📋 printSummary prints what changed and how to start the project
func printSummary(w io.Writer, target string, summary *operation.Summary, findings []verify.Finding) {
	ids := summary.Identifiers

	var b strings.Builder
	fmt.Fprintf(&b, "project     %s\n", ids.Project)
	fmt.Fprintf(&b, "package     com.%s.%s\n", ids.PackageBase, ids.Name)
	fmt.Fprintf(&b, "main class  %sApplication\n", ids.ClassName)
	fmt.Fprintf(&b, "profile     %s\n", summary.Profile.Description())
	fmt.Fprintf(&b, "files       %d rewritten, %d replacements\n", len(summary.RewrittenFiles), summary.Replacements)
	fmt.Fprintf(&b, "moved       %d packages, %d entry points\n", len(summary.Relocations), len(summary.EntryPoints))
	fmt.Fprintf(&b, "removed     %d paths", len(summary.Purged))
	if len(findings) > 0 {
		fmt.Fprintf(&b, "\nleftovers   %d (see warnings above)", len(findings))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, pterm.DefaultBox.WithTitle("🌱 project created").Sprint(b.String()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, pterm.Bold.Sprint("next steps:"))
	for _, step := range nextSteps(target, summary) {
		fmt.Fprintf(w, "  %s\n", step)
	}
}
