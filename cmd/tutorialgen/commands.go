package main

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-tutorialgen/pkg/pipeline"
	"github.com/goliatone/go-tutorialgen/pkg/prompt"
	"github.com/goliatone/go-tutorialgen/pkg/watch"
)

func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Render a tutorial template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.render(cmd, args[0])
			return err
		},
	}
	addRenderFlags(cmd, &a.flags)
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch TEMPLATE",
		Short: "Render a tutorial template and re-render it on every change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.watch(cmd, args[0])
		},
	}
	addRenderFlags(cmd, &a.flags)
	return cmd
}

func newTasksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks OUTDIR",
		Short: "List the tasks a previous render declared",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := prompt.LoadTasks(args[0])
			if err != nil {
				return err
			}
			for i, name := range names {
				if err := writeLine(cmd.OutOrStdout(), "%d\t%s", i+1, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newPickCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick TEMPLATE",
		Short: "Choose a task interactively, then render it",
		Long: "pick reads the task list a previous render wrote to --out-dir, " +
			"asks which task to render and renders the template for it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Render.OutDir == "" {
				return errors.New("tutorialgen: pick needs --out-dir")
			}
			names, err := prompt.LoadTasks(a.cfg.Render.OutDir)
			if err != nil {
				return err
			}
			choice, err := prompt.PickTask(commandContext(cmd), a.driver, names, a.cfg.Render.Task)
			if err != nil {
				return err
			}
			a.cfg.Render.Task = choice.Task
			a.cfg.Render.Solution = choice.Solution
			_, err = a.render(cmd, args[0])
			return err
		},
	}
	addRenderFlags(cmd, &a.flags)
	return cmd
}

func (a *app) render(cmd *cobra.Command, template string) (pipeline.Result, error) {
	req, closeLedger, err := a.request(cmd, template)
	if err != nil {
		return pipeline.Result{}, err
	}
	result, err := a.pipeline().Render(commandContext(cmd), req)
	if cerr := closeLedger(); err == nil && cerr != nil {
		err = cerr
	}
	return result, err
}

func (a *app) watch(cmd *cobra.Command, template string) error {
	interval, err := a.cfg.Watch.Interval()
	if err != nil {
		return err
	}
	if _, err := a.render(cmd, template); err != nil {
		a.logger.Error("render failed", zap.Error(err))
	}

	ignored := generatedPaths(a.cfg.Render.OutDir, a.cfg.Render.Output, a.cfg.Render.OutputFiles)
	w, err := watch.New(func(context.Context, []string) error {
		_, err := a.render(cmd, template)
		return err
	}, []string{filepath.Dir(template)},
		watch.WithDebounce(interval),
		watch.WithLogger(a.logger),
		watch.WithFilter(func(path string) bool { return !ignored(path) }),
	)
	if err != nil {
		return err
	}
	a.logger.Info("watching", zap.String("template", template), zap.Duration("debounce", interval))
	return w.Run(commandContext(cmd))
}

// generatedPaths reports whether a path is render output, so writing it does
// not trigger another render.
func generatedPaths(outDir string, files ...string) func(string) bool {
	absOut := ""
	if outDir != "" {
		absOut, _ = filepath.Abs(outDir)
	}
	var absFiles []string
	for _, f := range files {
		if f == "" {
			continue
		}
		if abs, err := filepath.Abs(f); err == nil {
			absFiles = append(absFiles, abs)
		}
	}
	return func(path string) bool {
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		if absOut != "" && (abs == absOut || strings.HasPrefix(abs, absOut+string(filepath.Separator))) {
			return true
		}
		for _, f := range absFiles {
			if abs == f {
				return true
			}
		}
		return false
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
