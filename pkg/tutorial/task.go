package tutorial

import "fmt"

// Task is a named unit of tutorial content. Its Index is its position in the
// declared ordering and defines how tasks compare.
type Task struct {
	Name  string
	Index int

	content    map[ContentType]string
	subtasks   map[string]map[ContentType]string
	completion map[ContentType]string
}

func newTask(name string, index int) *Task {
	return &Task{
		Name:       name,
		Index:      index,
		content:    make(map[ContentType]string),
		subtasks:   make(map[string]map[ContentType]string),
		completion: make(map[ContentType]string),
	}
}

// SetContent stores content for a variant. A non-empty subtask scopes the
// content to that subtask.
func (t *Task) SetContent(ct ContentType, content, subtask string) {
	if subtask == "" {
		t.content[ct] = content
		return
	}
	variants, ok := t.subtasks[subtask]
	if !ok {
		variants = make(map[ContentType]string)
		t.subtasks[subtask] = variants
	}
	variants[ct] = content
}

// Content returns the stored variant, falling back to ContentAll.
func (t *Task) Content(ct ContentType, subtask string) (string, error) {
	variants := t.content
	if subtask != "" {
		variants = t.subtasks[subtask]
	}
	if content, ok := variants[ct]; ok {
		return content, nil
	}
	if content, ok := variants[ContentAll]; ok {
		return content, nil
	}
	if subtask != "" {
		return "", fmt.Errorf("%w: task %q subtask %q has no %s content", ErrNoContent, t.Name, subtask, ct)
	}
	return "", fmt.Errorf("%w: task %q has no %s content", ErrNoContent, t.Name, ct)
}

// SetCompletion stores the text that marks the variant as successfully
// finished, typically the expected program output.
func (t *Task) SetCompletion(ct ContentType, completion string) {
	t.completion[ct] = completion
}

// Completion returns the completion text for ct, falling back to ContentAll.
func (t *Task) Completion(ct ContentType) (string, bool) {
	if text, ok := t.completion[ct]; ok {
		return text, true
	}
	text, ok := t.completion[ContentAll]
	return text, ok
}

// Compare orders tasks by declaration index.
func (t *Task) Compare(other *Task) int {
	switch {
	case t.Index < other.Index:
		return -1
	case t.Index > other.Index:
		return 1
	default:
		return 0
	}
}

// Before reports whether t comes strictly before other.
func (t *Task) Before(other *Task) bool {
	return t.Compare(other) < 0
}

// After reports whether t comes strictly after other.
func (t *Task) After(other *Task) bool {
	return t.Compare(other) > 0
}

func (t *Task) String() string {
	return t.Name
}
