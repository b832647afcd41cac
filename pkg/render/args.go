package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-tutorialgen/pkg/capdl"
	"github.com/goliatone/go-tutorialgen/pkg/stash"
)

// TaskRef names a task, optionally narrowed to one of its subtasks.
type TaskRef struct {
	Name    string
	Subtask string
}

// Subtask builds a TaskRef; templates use it where a (task, subtask) pair is
// expected.
func Subtask(name, subtask string) TaskRef {
	return TaskRef{Name: strings.TrimSpace(name), Subtask: strings.TrimSpace(subtask)}
}

// ParseTaskRefs flattens task names, TaskRefs and lists of either into a
// single ordered slice.
func ParseTaskRefs(values ...any) ([]TaskRef, error) {
	var refs []TaskRef
	for _, value := range values {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			refs = append(refs, TaskRef{Name: strings.TrimSpace(v)})
		case TaskRef:
			refs = append(refs, v)
		case *TaskRef:
			if v != nil {
				refs = append(refs, *v)
			}
		case []string:
			for _, name := range v {
				refs = append(refs, TaskRef{Name: strings.TrimSpace(name)})
			}
		case []TaskRef:
			refs = append(refs, v...)
		case []any:
			nested, err := ParseTaskRefs(v...)
			if err != nil {
				return nil, err
			}
			refs = append(refs, nested...)
		default:
			return nil, fmt.Errorf("render: unsupported task reference %T", value)
		}
	}
	return refs, nil
}

func taskNames(values ...any) ([]string, error) {
	refs, err := ParseTaskRefs(values...)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Subtask != "" {
			return nil, fmt.Errorf("render: task ordering takes task names, got subtask %q of %q", ref.Subtask, ref.Name)
		}
		names = append(names, ref.Name)
	}
	return names, nil
}

func stringArg(args []any, idx int, name string) (string, error) {
	if idx >= len(args) || args[idx] == nil {
		return "", nil
	}
	switch v := args[idx].(type) {
	case string:
		return strings.TrimSpace(v), nil
	case fmt.Stringer:
		return strings.TrimSpace(v.String()), nil
	default:
		return "", fmt.Errorf("render: %s must be a string, got %T", name, args[idx])
	}
}

func requiredStringArg(args []any, idx int, name string) (string, error) {
	value, err := stringArg(args, idx, name)
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("render: %s is required", name)
	}
	return value, nil
}

func objectTypeArg(args []any, idx int) (capdl.ObjectType, error) {
	if idx >= len(args) || args[idx] == nil {
		return "", nil
	}
	switch v := args[idx].(type) {
	case capdl.ObjectType:
		if !v.Valid() {
			return "", fmt.Errorf("render: unknown object type %q", v)
		}
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return "", nil
		}
		return capdl.ParseObjectType(v)
	default:
		return "", fmt.Errorf("render: object type must be a capDL identifier, got %T", args[idx])
	}
}

func maxArgs(args []any, n int, fn string) error {
	if len(args) > n {
		return fmt.Errorf("render: %s takes at most %d arguments, got %d", fn, n, len(args))
	}
	return nil
}

// parseAttrs merges maps and "key=value" strings into object attributes.
// Values written as strings are typed: integers (including 0x hex) become
// ints and true/false become bools.
func parseAttrs(values []any) (stash.Attrs, error) {
	if len(values) == 0 {
		return nil, nil
	}
	attrs := make(stash.Attrs)
	for _, value := range values {
		switch v := value.(type) {
		case nil:
			continue
		case stash.Attrs:
			for key, item := range v {
				attrs[key] = item
			}
		case map[string]any:
			for key, item := range v {
				attrs[key] = item
			}
		case map[string]string:
			for key, item := range v {
				attrs[key] = typedAttr(item)
			}
		case string:
			key, raw, ok := strings.Cut(v, "=")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				return nil, fmt.Errorf("render: attribute %q must look like key=value", v)
			}
			attrs[key] = typedAttr(raw)
		default:
			return nil, fmt.Errorf("render: unsupported attribute value %T", value)
		}
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	return attrs, nil
}

func typedAttr(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(trimmed, 0, 64); err == nil {
		return int(n)
	}
	switch trimmed {
	case "true":
		return true
	case "false":
		return false
	default:
		return trimmed
	}
}
