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
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/walteh/create-springboot/pkg/log"
	"github.com/walteh/create-springboot/pkg/operation"
	"github.com/walteh/create-springboot/pkg/plan"
	"github.com/walteh/create-springboot/pkg/project"
	"github.com/walteh/create-springboot/pkg/prompt"
	"github.com/walteh/create-springboot/pkg/provider"
	"github.com/walteh/create-springboot/pkg/verify"
	"gitlab.com/tozd/go/errors"
)

const (
	envPrefix       = "CREATE_SPRINGBOOT"
	defaultTemplate = "blueisfresh/bootguard"
	defaultRef      = "main"
)

// rootOpts holds what the command needs from its environment
type rootOpts struct {
	stdout   io.Writer
	stderr   io.Writer
	prompter *prompt.Prompter
	envFiles []string
}

// settings is the resolved view of flags, environment and .env files
type settings struct {
	Profile     string
	PackageBase string
	Template    string
	Ref         string
	PlanFile    string
	Dir         string
	Debug       bool
	SkipVerify  bool
	GitHubToken string
}

// loadEnvFiles loads .env files without overriding variables already set; .env.local wins over .env.
// Missing files are skipped; any other failure is returned for the caller to report.
func loadEnvFiles(files []string) []error {
	var errs []error
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			errs = append(errs, errors.Errorf("loading %s: %w", f, err))
		}
	}
	return errs
}

// newViper binds every flag of cmd and the CREATE_SPRINGBOOT_* environment
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, errors.Errorf("binding flags: %w", err)
	}
	if err := v.BindEnv("github-token", "GITHUB_TOKEN", envPrefix+"_GITHUB_TOKEN"); err != nil {
		return nil, errors.Errorf("binding GITHUB_TOKEN: %w", err)
	}

	v.SetDefault("template", defaultTemplate)
	v.SetDefault("dir", ".")
	return v, nil
}

func readSettings(v *viper.Viper) settings {
	return settings{
		Profile:     v.GetString("profile"),
		PackageBase: v.GetString("package-base"),
		Template:    v.GetString("template"),
		Ref:         v.GetString("ref"),
		PlanFile:    v.GetString("plan"),
		Dir:         v.GetString("dir"),
		Debug:       v.GetBool("debug"),
		SkipVerify:  v.GetBool("skip-verify"),
		GitHubToken: v.GetString("github-token"),
	}
}

// setupLogging returns the zerolog logger for a run; it is silent unless debug is set
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	if !debug {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()
}

func newRootCmd(opts *rootOpts) *cobra.Command {
	if opts.envFiles == nil {
		opts.envFiles = []string{".env.local", ".env"}
	}

	cmd := &cobra.Command{
		Use:   "create-springboot <project-name>",
		Short: "Create a Spring Boot project from the bootguard template",
		Long: `create-springboot fetches a Spring Boot template, applies the dev (SQLite) or
prod (Postgres) profile and renames the project to your own name and package.

Flags can also be set through CREATE_SPRINGBOOT_* environment variables or a
.env file. GITHUB_TOKEN is used when set.`,
		Example: `  create-springboot demo --profile dev --package-base acme
  create-springboot demo --template ./my-template --plan rename.hcl
  create-springboot --print-plan > rename.hcl`,
		Args: func(cmd *cobra.Command, args []string) error {
			if printPlan, _ := cmd.Flags().GetBool("print-plan"); printPlan {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetOut(opts.stdout)
	cmd.SetErr(opts.stderr)

	flags := cmd.Flags()
	flags.StringP("profile", "p", "", "profile to apply: dev (SQLite) or prod (Postgres)")
	flags.StringP("package-base", "b", "", "package base, the acme in com.acme.<name>")
	flags.StringP("template", "t", defaultTemplate, "template repository (owner/name) or local directory")
	flags.String("ref", "", "template branch or tag (default from the plan, else main)")
	flags.String("plan", "", "rename plan file (.hcl, .yaml or .json); the built-in bootguard plan when empty")
	flags.String("dir", ".", "directory to create the project in")
	flags.BoolP("debug", "d", false, "enable debug logging")
	flags.Bool("skip-verify", false, "skip the scan for leftover template tokens")
	flags.Bool("print-plan", false, "print the built-in rename plan and exit")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if printPlan, _ := cmd.Flags().GetBool("print-plan"); printPlan {
			_, err := opts.stdout.Write(plan.DefaultSource())
			return err
		}

		envErrs := loadEnvFiles(opts.envFiles)

		v, err := newViper(cmd)
		if err != nil {
			return err
		}
		s := readSettings(v)

		zlog := setupLogging(opts.stderr, s.Debug)
		console := log.New(opts.stdout, zlog)
		ctx := log.NewContext(zlog.WithContext(cmd.Context()), console)

		for _, err := range envErrs {
			console.Warningf("ignoring env file: %s", err)
		}

		return create(ctx, opts, s, args[0])
	}

	return cmd
}

// create runs the whole generation for one project
func create(ctx context.Context, opts *rootOpts, s settings, name string) error {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	if err := project.ValidateName(name); err != nil {
		return errors.Errorf("invalid project name: %w", err)
	}
	target := filepath.Join(s.Dir, name)
	if err := project.CheckTarget(target); err != nil {
		return err
	}

	cfg := project.Config{
		ProjectName: name,
		PackageBase: s.PackageBase,
	}
	if s.Profile != "" {
		profile, err := project.ParseProfile(s.Profile)
		if err != nil {
			return err
		}
		cfg.Profile = profile
	}

	if err := opts.prompter.Complete(ctx, &cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pl, err := loadPlan(ctx, s.PlanFile, cfg)
	if err != nil {
		return err
	}

	src := templateSource(s, pl)
	console.Header(cfg.String())
	console.Infof("fetching template %s", src)

	if err := provider.Fetch(ctx, src, target, provider.Options{Token: s.GitHubToken}); err != nil {
		return err
	}

	summary, err := operation.New().Run(ctx, target, cfg, pl)
	if err != nil {
		return errors.Errorf("transforming %s: %w", target, err)
	}

	var findings []verify.Finding
	if !s.SkipVerify {
		findings, err = verify.Scan(ctx, target, verify.Options{Walk: pl.WalkOptions()}, pl.Needles())
		if err != nil {
			logger.Warn().Err(err).Msg("residue scan failed")
			console.Warningf("could not scan for leftover template tokens: %s", err)
		}
		for _, f := range findings {
			console.Warningf("leftover template token in %s", f)
		}
	}

	printSummary(opts.stdout, target, summary, findings)
	return nil
}

// loadPlan reads the plan file, or the built-in plan when none is given
func loadPlan(ctx context.Context, path string, cfg project.Config) (*plan.Plan, error) {
	vars := cfg.Variables()
	if path == "" {
		pl, err := plan.Default(ctx, vars)
		if err != nil {
			return nil, errors.Errorf("loading built-in plan: %w", err)
		}
		return pl, nil
	}

	pl, err := plan.Load(ctx, path, vars)
	if err != nil {
		return nil, errors.Errorf("loading plan %s: %w", path, err)
	}
	return pl, nil
}

// templateSource resolves the template: explicit flags win over the plan's template block
func templateSource(s settings, pl *plan.Plan) provider.Source {
	src := provider.Source{Repo: defaultTemplate, Ref: defaultRef}
	if pl.Template != nil {
		src = provider.Source{Repo: pl.Template.Repo, Ref: pl.Template.Ref}
	}
	if s.Template != "" && s.Template != defaultTemplate {
		src.Repo = s.Template
	}
	if s.Ref != "" {
		src.Ref = s.Ref
	}
	return src
}
