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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/create-springboot/pkg/plan"
	"github.com/walteh/create-springboot/pkg/project"
	"github.com/walteh/create-springboot/pkg/prompt"
	"github.com/walteh/create-springboot/pkg/provider"
)

func writeTemplate(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"pom.xml":   "<project>\n  <groupId>com.blueisfresh</groupId>\n  <artifactId>bootguard</artifactId>\n</project>\n",
		"README.md": "# bootguard\n",
		"src/main/java/com/blueisfresh/bootguard/BootguardApplication.java":      "package com.blueisfresh.bootguard;\n\npublic class BootguardApplication {}\n",
		"src/test/java/com/blueisfresh/bootguard/BootguardApplicationTests.java": "package com.blueisfresh.bootguard;\n\n@SpringBootTest(classes = BootguardApplication.class)\nclass BootguardApplicationTests {}\n",
		"src/main/resources/application.properties":                             "spring.application.name=bootguard\n",
		"src/main/resources/application-dev.properties":                         "spring.datasource.url=jdbc:sqlite:./data/bootguard.db\n",
		"src/main/resources/application-prod.properties":                        "spring.datasource.url=jdbc:postgresql://localhost:5432/bootguard\n",
		"src/main/resources/db/migration/V1__init.sql":                          "create table users (id bigint);\n",
	}
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func execute(t *testing.T, interactive bool, args ...string) (string, error) {
	t.Helper()
	return executeWithEnvFiles(t, interactive, []string{}, args...)
}

func executeWithEnvFiles(t *testing.T, interactive bool, envFiles []string, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&rootOpts{
		stdout:   &stdout,
		stderr:   &stderr,
		prompter: prompt.NewWithRunner(interactive, nil),
		envFiles: envFiles,
	})
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRoot_CreatesProject(t *testing.T) {
	tpl := writeTemplate(t)
	out := t.TempDir()

	stdout, err := execute(t, false, "Demo-App", "--profile", "dev", "--package-base", "acme", "--template", tpl, "--dir", out)
	require.NoError(t, err)

	root := filepath.Join(out, "Demo-App")
	assert.FileExists(t, filepath.Join(root, "src/main/java/com/acme/demoapp/DemoappApplication.java"))
	assert.FileExists(t, filepath.Join(root, "src/test/java/com/acme/demoapp/DemoappApplicationTests.java"))
	assert.NoDirExists(t, filepath.Join(root, "src/main/java/com/blueisfresh"))
	assert.NoDirExists(t, filepath.Join(root, "src/main/resources/db"))

	assert.Contains(t, readFile(t, filepath.Join(root, "pom.xml")), "<groupId>com.acme</groupId>")
	assert.Contains(t, readFile(t, filepath.Join(root, "src/main/resources/application.properties")), "spring.profiles.active=dev")

	assert.Contains(t, stdout, "project created")
	assert.Contains(t, stdout, "cd "+root)
	assert.Contains(t, stdout, "./mvnw spring-boot:run -Dspring-boot.run.profiles=dev")
	assert.NotContains(t, stdout, "leftover template token")
}

func TestRoot_EnvironmentSettings(t *testing.T) {
	tpl := writeTemplate(t)
	out := t.TempDir()

	t.Setenv("CREATE_SPRINGBOOT_PROFILE", "prod")
	t.Setenv("CREATE_SPRINGBOOT_PACKAGE_BASE", "acme")
	t.Setenv("CREATE_SPRINGBOOT_TEMPLATE", tpl)

	stdout, err := execute(t, false, "shop", "--dir", out)
	require.NoError(t, err)

	root := filepath.Join(out, "shop")
	assert.FileExists(t, filepath.Join(root, "src/main/java/com/acme/shop/ShopApplication.java"))
	assert.DirExists(t, filepath.Join(root, "src/main/resources/db"))
	assert.Contains(t, readFile(t, filepath.Join(root, "src/main/resources/application.properties")), "jdbc:postgresql")
	assert.Contains(t, stdout, "-Dspring-boot.run.profiles=prod")
}

func TestRoot_EnvFiles(t *testing.T) {
	tpl := writeTemplate(t)
	out := t.TempDir()
	envDir := t.TempDir()

	local := filepath.Join(envDir, ".env.local")
	require.NoError(t, os.WriteFile(local, []byte("CREATE_SPRINGBOOT_PROFILE=prod\n"), 0o644))
	broken := filepath.Join(envDir, ".env")
	require.NoError(t, os.WriteFile(broken, []byte("not a valid line\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CREATE_SPRINGBOOT_PROFILE") })

	files := []string{local, broken, filepath.Join(envDir, ".env.missing")}
	stdout, err := executeWithEnvFiles(t, false, files, "shop", "-b", "acme", "-t", tpl, "--dir", out)
	require.NoError(t, err)

	assert.Contains(t, stdout, "ignoring env file: loading "+broken)
	assert.NotContains(t, stdout, ".env.missing")
	assert.Contains(t, stdout, "-Dspring-boot.run.profiles=prod")
}

func TestRoot_PlanFile(t *testing.T) {
	tpl := writeTemplate(t)
	out := t.TempDir()

	planFile := filepath.Join(t.TempDir(), "rename.hcl")
	require.NoError(t, os.WriteFile(planFile, plan.DefaultSource(), 0o644))

	_, err := execute(t, false, "demo", "-p", "prod", "-b", "acme", "-t", tpl, "--plan", planFile, "--dir", out, "--skip-verify")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "demo/src/main/java/com/acme/demo/DemoApplication.java"))
}

func TestRoot_PrintPlan(t *testing.T) {
	stdout, err := execute(t, false, "--print-plan")
	require.NoError(t, err)
	assert.Equal(t, string(plan.DefaultSource()), stdout)
}

func TestRoot_Errors(t *testing.T) {
	tests := []struct {
		name        string
		args        func(tpl, out string) []string
		setup       func(t *testing.T, out string)
		wantErrIs   error
		errContains string
	}{
		{
			name: "target_exists",
			args: func(tpl, out string) []string {
				return []string{"demo", "-p", "dev", "-b", "acme", "-t", tpl, "--dir", out}
			},
			setup: func(t *testing.T, out string) {
				require.NoError(t, os.MkdirAll(filepath.Join(out, "demo"), 0o755))
			},
			wantErrIs: project.ErrTargetExists,
		},
		{
			name: "nested_project_name",
			args: func(tpl, out string) []string {
				return []string{"a/b", "-p", "dev", "-b", "acme", "-t", tpl, "--dir", out}
			},
			errContains: "single path segment",
		},
		{
			name: "unknown_profile",
			args: func(tpl, out string) []string {
				return []string{"demo", "-p", "staging", "-b", "acme", "-t", tpl, "--dir", out}
			},
			errContains: `unknown profile "staging"`,
		},
		{
			name: "invalid_package_base",
			args: func(tpl, out string) []string {
				return []string{"demo", "-p", "dev", "-b", "1acme", "-t", tpl, "--dir", out}
			},
			wantErrIs: project.ErrInvalidPackageBase,
		},
		{
			name: "missing_answers_without_terminal",
			args: func(tpl, out string) []string {
				return []string{"demo", "-t", tpl, "--dir", out}
			},
			wantErrIs: prompt.ErrNotInteractive,
		},
		{
			name: "template_missing",
			args: func(tpl, out string) []string {
				return []string{"demo", "-p", "dev", "-b", "acme", "-t", "file://" + filepath.Join(tpl, "nope"), "--dir", out}
			},
			wantErrIs: provider.ErrFetchFailed,
		},
		{
			name: "no_project_name",
			args: func(tpl, out string) []string {
				return []string{"-p", "dev"}
			},
			errContains: "accepts 1 arg(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := writeTemplate(t)
			out := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, out)
			}

			_, err := execute(t, false, tt.args(tpl, out)...)
			require.Error(t, err)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
			}
			if tt.errContains != "" {
				assert.Contains(t, err.Error(), tt.errContains)
			}

			if tt.name != "target_exists" {
				assert.NoDirExists(t, filepath.Join(out, "demo"))
			}
		})
	}
}

func TestTemplateSource(t *testing.T) {
	pl := &plan.Plan{Template: &plan.Template{Repo: "someone/else", Ref: "v2"}}

	tests := []struct {
		name string
		s    settings
		pl   *plan.Plan
		want provider.Source
	}{
		{
			name: "plan_template",
			s:    settings{Template: defaultTemplate},
			pl:   pl,
			want: provider.Source{Repo: "someone/else", Ref: "v2"},
		},
		{
			name: "flag_overrides_plan",
			s:    settings{Template: "./local", Ref: "dev"},
			pl:   pl,
			want: provider.Source{Repo: "./local", Ref: "dev"},
		},
		{
			name: "no_plan_template",
			s:    settings{Template: defaultTemplate},
			pl:   &plan.Plan{},
			want: provider.Source{Repo: defaultTemplate, Ref: defaultRef},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, templateSource(tt.s, tt.pl))
		})
	}
}
