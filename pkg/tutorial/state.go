package tutorial

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-tutorialgen/pkg/stash"
)

// Option configures a State.
type Option func(*State)

// WithCurrentTask names the task the reader is working on.
func WithCurrentTask(name string) Option {
	return func(s *State) {
		s.currentName = strings.TrimSpace(name)
	}
}

// WithSolution renders every task as completed.
func WithSolution(solution bool) Option {
	return func(s *State) {
		s.solution = solution
	}
}

// WithStash shares an existing stash instead of allocating a new one.
func WithStash(st *stash.Stash) Option {
	return func(s *State) {
		if st != nil {
			s.stash = st
		}
	}
}

// State is the bookkeeping shared by every template callback during a
// render: the declared tasks, the reader's position, queued extra files and
// the object stash.
type State struct {
	tasks       map[string]*Task
	ordered     []*Task
	current     *Task
	currentName string
	solution    bool

	additionalFiles []string
	stash           *stash.Stash
}

// NewState constructs an empty State.
func NewState(options ...Option) *State {
	s := &State{
		tasks: make(map[string]*Task),
		stash: stash.New(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// DeclareTasks records the tutorial's tasks; their order in names is their
// order in the tutorial. Declaring again replaces the previous ordering and
// discards any content stored on the old tasks.
func (s *State) DeclareTasks(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("tutorial: declare tasks: no task names given")
	}

	tasks := make(map[string]*Task, len(names))
	ordered := make([]*Task, 0, len(names))
	for idx, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return fmt.Errorf("tutorial: declare tasks: empty task name at index %d", idx)
		}
		if _, exists := tasks[name]; exists {
			return fmt.Errorf("tutorial: declare tasks: duplicate task %q", name)
		}
		task := newTask(name, idx)
		tasks[name] = task
		ordered = append(ordered, task)
	}

	current, err := s.resolveCurrent(tasks, ordered)
	if err != nil {
		return err
	}

	s.tasks = tasks
	s.ordered = ordered
	s.current = current
	return nil
}

func (s *State) resolveCurrent(tasks map[string]*Task, ordered []*Task) (*Task, error) {
	if s.currentName != "" {
		task, ok := tasks[s.currentName]
		if !ok {
			return nil, fmt.Errorf("%w: current task %q is not declared", ErrUnknownTask, s.currentName)
		}
		return task, nil
	}
	if s.solution {
		return ordered[len(ordered)-1], nil
	}
	return ordered[0], nil
}

// Task looks up a declared task.
func (s *State) Task(name string) (*Task, error) {
	task, ok := s.tasks[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, name)
	}
	return task, nil
}

// Tasks returns the declared tasks in tutorial order.
func (s *State) Tasks() []*Task {
	return append([]*Task(nil), s.ordered...)
}

// TaskNames returns the declared task names in tutorial order.
func (s *State) TaskNames() []string {
	names := make([]string, 0, len(s.ordered))
	for _, task := range s.ordered {
		names = append(names, task.Name)
	}
	return names
}

// CurrentTask returns the task the reader is on, or nil before any tasks are
// declared.
func (s *State) CurrentTask() *Task {
	return s.current
}

// IsCurrentTask reports whether task is the reader's current task.
func (s *State) IsCurrentTask(task *Task) bool {
	return task != nil && s.current != nil && task.Compare(s.current) == 0
}

// Reached reports whether the reader has arrived at task, i.e. it is the
// current task or comes before it.
func (s *State) Reached(task *Task) bool {
	if task == nil || s.current == nil {
		return false
	}
	return !task.After(s.current)
}

// Solution reports whether the render shows the completed tutorial.
func (s *State) Solution() bool {
	return s.solution
}

// VisibleContentType is the variant shown for task given the reader's
// position.
func (s *State) VisibleContentType(task *Task) ContentType {
	if s.solution || (s.current != nil && task.Before(s.current)) {
		return ContentCompleted
	}
	return ContentBefore
}

// PrintTask returns the content of task (or one of its subtasks) as the reader
// should see it. Tasks already finished, and every task in solution mode,
// print their completed variant; the current and later tasks print their
// starting point.
func (s *State) PrintTask(task *Task, subtask string) (string, error) {
	if task == nil {
		return "", fmt.Errorf("%w: nil task", ErrUnknownTask)
	}
	return task.Content(s.VisibleContentType(task), subtask)
}

// CurrentCompletion returns the completion text of the current task for the
// variant the reader is working towards.
func (s *State) CurrentCompletion() string {
	if s.current == nil {
		return ""
	}
	ct := ContentCompleted
	if !s.solution {
		ct = ContentBefore
	}
	text, _ := s.current.Completion(ct)
	return text
}

// AddAdditionalFile queues another template for the renderer. Duplicates are
// kept once.
func (s *State) AddAdditionalFile(name string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	for _, existing := range s.additionalFiles {
		if existing == trimmed {
			return
		}
	}
	s.additionalFiles = append(s.additionalFiles, trimmed)
}

// AdditionalFiles returns the queued templates in the order they were added.
func (s *State) AdditionalFiles() []string {
	return append([]string(nil), s.additionalFiles...)
}

// Stash returns the object stash shared with the manifest writer.
func (s *State) Stash() *stash.Stash {
	return s.stash
}
