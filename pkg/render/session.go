package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-tutorialgen/pkg/capdl"
	"github.com/goliatone/go-tutorialgen/pkg/output"
	"github.com/goliatone/go-tutorialgen/pkg/stash"
	"github.com/goliatone/go-tutorialgen/pkg/tutorial"
)

// TasksFile lists the declared task ordering inside the output directory.
const TasksFile = ".tasks"

var (
	// ErrNoActiveTask is returned when a task list gives nothing to choose from.
	ErrNoActiveTask = errors.New("render: no active task")

	errMissingContentType = errors.New("render: TaskCompletion needs a content type")
)

// Args are the render-wide settings templates can inspect through "args".
type Args struct {
	// OutDir receives generated files. Empty disables file output.
	OutDir string
	// DocSite renders for the documentation site; no files are written.
	DocSite bool
	// Solution renders every task in its completed form.
	Solution bool
	// Task names the reader's current task.
	Task string
	// ManifestFormat picks the manifest encoding when a template does not
	// name the manifest file ("json" or "yaml").
	ManifestFormat string
	// OutputFiles, when set, receives each written path on its own line.
	OutputFiles io.Writer
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithState shares an existing tutorial state.
func WithState(state *tutorial.State) SessionOption {
	return func(s *Session) {
		s.state = state
	}
}

// WithOutput replaces the file writer built from Args.
func WithOutput(w *output.Writer) SessionOption {
	return func(s *Session) {
		s.out = w
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session is the state one tutorial render shares between every template
// callback. Each exported operation mirrors a template function or filter.
type Session struct {
	args   Args
	state  *tutorial.State
	out    *output.Writer
	logger *zap.Logger
}

// NewSession binds args to a fresh tutorial state and file writer unless
// options provide them.
func NewSession(args Args, options ...SessionOption) *Session {
	s := &Session{
		args:   args,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.state == nil {
		s.state = tutorial.NewState(
			tutorial.WithCurrentTask(args.Task),
			tutorial.WithSolution(args.Solution),
		)
	}
	if s.out == nil {
		s.out = output.NewWriter(args.OutDir,
			output.WithDocSite(args.DocSite),
			output.WithLedger(args.OutputFiles),
			output.WithLogger(s.logger),
		)
	}
	return s
}

// Args returns the render settings.
func (s *Session) Args() Args {
	return s.args
}

// State returns the tutorial state.
func (s *Session) State() *tutorial.State {
	return s.state
}

// Output returns the file writer.
func (s *Session) Output() *output.Writer {
	return s.out
}

// File writes content to filename below the output directory and passes the
// content through unchanged.
func (s *Session) File(content, filename string) (string, error) {
	if _, err := s.out.Write(filename, content); err != nil {
		return "", fmt.Errorf("render: File %q: %w", filename, err)
	}
	return content, nil
}

// ExternalFile queues another template to be rendered after the current one.
func (s *Session) ExternalFile(filename string) string {
	s.state.AddAdditionalFile(filename)
	return ""
}

// TaskContent stores content as the ct variant of a task (or subtask) and,
// when completion is non-empty, the text that signals the variant works.
func (s *Session) TaskContent(content, taskName string, ct tutorial.ContentType, subtask, completion string) (string, error) {
	task, err := s.state.Task(taskName)
	if err != nil {
		return "", err
	}
	task.SetContent(ct, content, subtask)
	if completion != "" {
		task.SetCompletion(ct, completion)
	}
	return content, nil
}

// TaskCompletion stores content as the completion text for a variant.
func (s *Session) TaskCompletion(content, taskName string, ct tutorial.ContentType) (string, error) {
	task, err := s.state.Task(taskName)
	if err != nil {
		return "", err
	}
	task.SetCompletion(ct, content)
	return content, nil
}

// ExcludeDocs hides content from the rendered document. Side effects of the
// functions that produced the content still happen.
func (s *Session) ExcludeDocs(string) string {
	return ""
}

// IncludeTask prints a task as the reader should currently see it.
func (s *Session) IncludeTask(name, subtask string) (string, error) {
	task, err := s.state.Task(name)
	if err != nil {
		return "", err
	}
	return s.state.PrintTask(task, subtask)
}

// IncludeTaskTypeReplace shows exactly one entry of refs: the last one the
// reader has reached, or the first when every entry is still ahead. If the
// chosen entry has no content the previous entry is shown instead, or
// nothing when the chosen entry is the first.
func (s *Session) IncludeTaskTypeReplace(refs []TaskRef) (string, error) {
	if len(refs) == 0 {
		return "", fmt.Errorf("%w: include_task_type_replace needs at least one task", ErrNoActiveTask)
	}
	tasks, err := s.resolve(refs)
	if err != nil {
		return "", err
	}

	active := 0
	for i, task := range tasks {
		if s.state.Reached(task) {
			active = i
		}
	}

	content, err := s.state.PrintTask(tasks[active], refs[active].Subtask)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, tutorial.ErrNoContent) {
		return "", err
	}
	if active == 0 {
		return "", nil
	}
	return s.state.PrintTask(tasks[active-1], refs[active-1].Subtask)
}

// IncludeTaskTypeAppend prints, in order, every entry of refs the reader has
// reached, separated by newlines. Entries without content print as empty
// lines, except in solution mode where missing content is an error.
func (s *Session) IncludeTaskTypeAppend(refs []TaskRef) (string, error) {
	tasks, err := s.resolve(refs)
	if err != nil {
		return "", err
	}

	var parts []string
	for i, task := range tasks {
		if !s.state.Reached(task) {
			continue
		}
		s.logger.Debug("appending task", zap.String("task", task.Name), zap.String("subtask", refs[i].Subtask))
		content, err := s.state.PrintTask(task, refs[i].Subtask)
		if err != nil {
			if !errors.Is(err, tutorial.ErrNoContent) || s.state.Solution() {
				return "", err
			}
			content = ""
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n"), nil
}

func (s *Session) resolve(refs []TaskRef) ([]*tutorial.Task, error) {
	tasks := make([]*tutorial.Task, 0, len(refs))
	for _, ref := range refs {
		task, err := s.state.Task(ref.Name)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// DeclareTaskOrdering declares the tutorial's tasks in order and, when file
// output is on, writes them one per line to the tasks file.
func (s *Session) DeclareTaskOrdering(names []string) (string, error) {
	if err := s.state.DeclareTasks(names); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, name := range s.state.TaskNames() {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if _, err := s.out.Write(TasksFile, b.String()); err != nil {
		return "", fmt.Errorf("render: write task ordering: %w", err)
	}
	return "", nil
}

// RecordObject declares a kernel object and a cap to it for the next ELF and
// returns the C declarations for the generated symbols.
func (s *Session) RecordObject(typ capdl.ObjectType, name, capSymbol string, attrs stash.Attrs) (string, error) {
	decls, err := s.state.Stash().RecordObject(typ, name, capSymbol, attrs)
	if err != nil {
		return "", err
	}
	s.logger.Debug("cap registered",
		zap.String("type", string(typ)),
		zap.String("object", name),
		zap.String("cap", capSymbol),
	)
	return decls, nil
}

// CapdlMyCSpace records a cap to the ELF's own CNode.
func (s *Session) CapdlMyCSpace(elfName, capSymbol string) (string, error) {
	return s.RecordObject("", "cnode_"+elfName, capSymbol, nil)
}

// CapdlMyVSpace records a cap to the ELF's own page directory.
func (s *Session) CapdlMyVSpace(elfName, capSymbol string) (string, error) {
	return s.RecordObject("", "vspace_"+elfName, capSymbol, nil)
}

// CapdlEmptySlot records an empty cap slot.
func (s *Session) CapdlEmptySlot(capSymbol string) (string, error) {
	return s.RecordObject("", "", capSymbol, nil)
}

// ELF writes content as <name>.c and hands every pending cap and special page
// to that ELF. Nothing is claimed when file output is off.
func (s *Session) ELF(content, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("render: ELF name is required")
	}
	if !s.out.Enabled() {
		return content, nil
	}
	if _, err := s.out.Write(name+".c", content); err != nil {
		return "", fmt.Errorf("render: ELF %q: %w", name, err)
	}
	s.state.Stash().ClaimELF(name)
	s.logger.Debug("elf declared", zap.String("elf", name))
	return content, nil
}

// WriteManifest serialises the stash to file below the output directory. An
// empty file uses the default manifest name for the configured format.
func (s *Session) WriteManifest(file string) (string, error) {
	if !s.out.Enabled() {
		return "", nil
	}
	file = strings.TrimSpace(file)
	format := stash.FormatForPath(file)
	if file == "" {
		var err error
		format, err = stash.ParseFormat(s.args.ManifestFormat)
		if err != nil {
			return "", err
		}
		file = stash.DefaultManifestFile(format)
	}

	var b strings.Builder
	if err := s.state.Stash().Manifest().Encode(&b, format); err != nil {
		return "", err
	}
	if _, err := s.out.Write(file, b.String()); err != nil {
		return "", fmt.Errorf("render: write manifest: %w", err)
	}
	return "", nil
}
