package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-tutorialgen/pkg/render"
)

// ReadTasks parses a tasks file: one task name per line, blank lines
// ignored.
func ReadTasks(r io.Reader) ([]string, error) {
	var names []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("prompt: read tasks: %w", err)
	}
	return names, nil
}

// LoadTasks reads the tasks file from a previous render's output directory.
func LoadTasks(outDir string) ([]string, error) {
	f, err := os.Open(filepath.Join(outDir, render.TasksFile))
	if err != nil {
		return nil, fmt.Errorf("prompt: open tasks: %w", err)
	}
	defer f.Close()
	return ReadTasks(f)
}

// Choice is the outcome of PickTask.
type Choice struct {
	Task     string
	Solution bool
}

// PickTask asks for the task to render, preselecting current when it is one
// of tasks, then whether to render it completed.
func PickTask(ctx context.Context, driver PromptDriver, tasks []string, current string) (Choice, error) {
	if driver == nil {
		return Choice{}, errors.New("prompt: driver is required")
	}
	if len(tasks) == 0 {
		return Choice{}, errors.New("prompt: no tasks to choose from")
	}

	idx, err := driver.Select(ctx, SelectConfig{
		Message:      "Task to render",
		Options:      tasks,
		DefaultIndex: indexOf(tasks, current),
		Help:         "Earlier tasks render completed, later ones render as starting points.",
	})
	if err != nil {
		return Choice{}, err
	}
	if idx < 0 || idx >= len(tasks) {
		return Choice{}, fmt.Errorf("prompt: selection %d out of range", idx)
	}

	solution, err := driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Render %q completed?", tasks[idx]),
	})
	if err != nil {
		return Choice{}, err
	}

	choice := Choice{Task: tasks[idx], Solution: solution}
	if err := driver.Info(ctx, fmt.Sprintf("rendering task %s", choice.Task)); err != nil {
		return Choice{}, err
	}
	return choice, nil
}
