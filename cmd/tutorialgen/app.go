package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-tutorialgen/pkg/config"
	"github.com/goliatone/go-tutorialgen/pkg/pipeline"
	"github.com/goliatone/go-tutorialgen/pkg/prompt"
	"github.com/goliatone/go-tutorialgen/pkg/render"
)

// app carries what the commands share: the resolved configuration, the
// logger and the prompt driver.
type app struct {
	configPath string
	logLevel   string
	flags      renderFlags

	cfg    config.Config
	logger *zap.Logger
	driver prompt.PromptDriver
}

type renderFlags struct {
	outDir         string
	docsite        bool
	solution       bool
	task           string
	output         string
	outputFiles    string
	manifestFormat string
	sanitize       bool
	trimBlocks     bool
}

func newApp() *app {
	return &app{
		cfg:    config.Default(),
		driver: prompt.NewSurveyDriver(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tutorialgen",
		Short:         "Render seL4 tutorial templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (.yaml, .json or .toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newRenderCmd(a),
		newWatchCmd(a),
		newTasksCmd(a),
		newPickCmd(a),
	)
	return root
}

func addRenderFlags(cmd *cobra.Command, f *renderFlags) {
	flags := cmd.Flags()
	flags.StringVar(&f.outDir, "out-dir", "", "directory for generated files")
	flags.BoolVar(&f.docsite, "docsite", false, "render for the documentation site; no files are written")
	flags.BoolVar(&f.solution, "solution", false, "render every task completed")
	flags.StringVar(&f.task, "task", "", "task the reader is working on")
	flags.StringVar(&f.output, "output", "", "write the document here instead of stdout")
	flags.StringVar(&f.outputFiles, "output-files", "", "list every generated file in this file")
	flags.StringVar(&f.manifestFormat, "manifest-format", "", "manifest encoding: json or yaml")
	flags.BoolVar(&f.sanitize, "sanitize", false, "sanitise doc site documents")
	flags.BoolVar(&f.trimBlocks, "trim-blocks", false, "strip whitespace around block tags")
}

// setup loads the config file, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	a.applyFlags(cmd)
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	if a.logger != nil {
		return nil
	}
	logger, err := newLogger(a.cfg.Log)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command) {
	changed := func(name string) bool {
		flag := cmd.Flags().Lookup(name)
		return flag != nil && flag.Changed
	}
	r := &a.cfg.Render
	if changed("out-dir") {
		r.OutDir = a.flags.outDir
	}
	if changed("docsite") {
		r.DocSite = a.flags.docsite
	}
	if changed("solution") {
		r.Solution = a.flags.solution
	}
	if changed("task") {
		r.Task = a.flags.task
	}
	if changed("output") {
		r.Output = a.flags.output
	}
	if changed("output-files") {
		r.OutputFiles = a.flags.outputFiles
	}
	if changed("manifest-format") {
		r.ManifestFormat = a.flags.manifestFormat
	}
	if changed("sanitize") {
		r.Sanitize = a.flags.sanitize
	}
	if changed("trim-blocks") {
		r.TrimBlocks = a.flags.trimBlocks
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if strings.EqualFold(cfg.Format, "json") {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("tutorialgen: log level: %w", err)
	}
	zcfg.Level = level
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("tutorialgen: build logger: %w", err)
	}
	return logger, nil
}

func (a *app) pipeline() *pipeline.Pipeline {
	return pipeline.New(
		pipeline.WithLogger(a.logger),
		pipeline.WithTrimBlocks(a.cfg.Render.TrimBlocks),
	)
}

// request builds a pipeline request for template. The returned closer
// releases the output-files ledger.
func (a *app) request(cmd *cobra.Command, template string) (pipeline.Request, func() error, error) {
	r := a.cfg.Render
	req := pipeline.Request{
		Template: template,
		Args: render.Args{
			OutDir:         r.OutDir,
			DocSite:        r.DocSite,
			Solution:       r.Solution,
			Task:           r.Task,
			ManifestFormat: r.ManifestFormat,
		},
		Output:   r.Output,
		Sanitize: r.Sanitize,
	}
	if r.Output == "" {
		req.Writer = cmd.OutOrStdout()
	}

	closer := func() error { return nil }
	if r.OutputFiles != "" {
		f, err := os.Create(r.OutputFiles)
		if err != nil {
			return pipeline.Request{}, nil, fmt.Errorf("tutorialgen: open output files list: %w", err)
		}
		req.Args.OutputFiles = f
		closer = f.Close
	}
	return req, closer, nil
}

func writeLine(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}
