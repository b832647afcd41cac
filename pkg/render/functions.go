package render

import (
	"github.com/goliatone/go-tutorialgen/pkg/capdl"
	"github.com/goliatone/go-tutorialgen/pkg/tutorial"
)

// Func is a template context function taking loosely typed arguments.
type Func func(args ...any) (string, error)

// FilterFunc transforms captured template content.
type FilterFunc func(content string, args ...any) (string, error)

// Functions returns the context functions bound to s, keyed by the names
// templates call them by.
func (s *Session) Functions() map[string]Func {
	return map[string]Func{
		"include_task": func(args ...any) (string, error) {
			if err := maxArgs(args, 2, "include_task"); err != nil {
				return "", err
			}
			name, err := requiredStringArg(args, 0, "task name")
			if err != nil {
				return "", err
			}
			subtask, err := stringArg(args, 1, "subtask")
			if err != nil {
				return "", err
			}
			return s.IncludeTask(name, subtask)
		},
		"include_task_type_replace": func(args ...any) (string, error) {
			refs, err := ParseTaskRefs(args...)
			if err != nil {
				return "", err
			}
			return s.IncludeTaskTypeReplace(refs)
		},
		"include_task_type_append": func(args ...any) (string, error) {
			refs, err := ParseTaskRefs(args...)
			if err != nil {
				return "", err
			}
			return s.IncludeTaskTypeAppend(refs)
		},
		"declare_task_ordering": func(args ...any) (string, error) {
			names, err := taskNames(args...)
			if err != nil {
				return "", err
			}
			return s.DeclareTaskOrdering(names)
		},
		"ExternalFile": func(args ...any) (string, error) {
			if err := maxArgs(args, 1, "ExternalFile"); err != nil {
				return "", err
			}
			name, err := requiredStringArg(args, 0, "file name")
			if err != nil {
				return "", err
			}
			return s.ExternalFile(name), nil
		},
		"RecordObject": func(args ...any) (string, error) {
			typ, err := objectTypeArg(args, 0)
			if err != nil {
				return "", err
			}
			name, err := stringArg(args, 1, "object name")
			if err != nil {
				return "", err
			}
			capSymbol, err := stringArg(args, 2, "cap symbol")
			if err != nil {
				return "", err
			}
			var extra []any
			if len(args) > 3 {
				extra = args[3:]
			}
			attrs, err := parseAttrs(extra)
			if err != nil {
				return "", err
			}
			return s.RecordObject(typ, name, capSymbol, attrs)
		},
		"capdl_my_cspace": func(args ...any) (string, error) {
			elf, capSymbol, err := elfAndCap(args, "capdl_my_cspace")
			if err != nil {
				return "", err
			}
			return s.CapdlMyCSpace(elf, capSymbol)
		},
		"capdl_my_vspace": func(args ...any) (string, error) {
			elf, capSymbol, err := elfAndCap(args, "capdl_my_vspace")
			if err != nil {
				return "", err
			}
			return s.CapdlMyVSpace(elf, capSymbol)
		},
		"capdl_empty_slot": func(args ...any) (string, error) {
			if err := maxArgs(args, 1, "capdl_empty_slot"); err != nil {
				return "", err
			}
			capSymbol, err := requiredStringArg(args, 0, "cap symbol")
			if err != nil {
				return "", err
			}
			return s.CapdlEmptySlot(capSymbol)
		},
		"write_manifest": func(args ...any) (string, error) {
			if err := maxArgs(args, 1, "write_manifest"); err != nil {
				return "", err
			}
			file, err := stringArg(args, 0, "manifest file")
			if err != nil {
				return "", err
			}
			return s.WriteManifest(file)
		},
	}
}

func elfAndCap(args []any, fn string) (string, string, error) {
	if err := maxArgs(args, 2, fn); err != nil {
		return "", "", err
	}
	elf, err := requiredStringArg(args, 0, "ELF name")
	if err != nil {
		return "", "", err
	}
	capSymbol, err := requiredStringArg(args, 1, "cap symbol")
	if err != nil {
		return "", "", err
	}
	return elf, capSymbol, nil
}

// Filters returns the content filters bound to s, keyed by name.
func (s *Session) Filters() map[string]FilterFunc {
	return map[string]FilterFunc{
		"File": func(content string, args ...any) (string, error) {
			if err := maxArgs(args, 1, "File"); err != nil {
				return "", err
			}
			name, err := requiredStringArg(args, 0, "file name")
			if err != nil {
				return "", err
			}
			return s.File(content, name)
		},
		"TaskContent": func(content string, args ...any) (string, error) {
			if err := maxArgs(args, 4, "TaskContent"); err != nil {
				return "", err
			}
			name, err := requiredStringArg(args, 0, "task name")
			if err != nil {
				return "", err
			}
			var rawType any
			if len(args) > 1 {
				rawType = args[1]
			}
			ct, err := tutorial.ParseContentType(rawType)
			if err != nil {
				return "", err
			}
			subtask, err := stringArg(args, 2, "subtask")
			if err != nil {
				return "", err
			}
			completion, err := stringArg(args, 3, "completion")
			if err != nil {
				return "", err
			}
			return s.TaskContent(content, name, ct, subtask, completion)
		},
		"TaskCompletion": func(content string, args ...any) (string, error) {
			if err := maxArgs(args, 2, "TaskCompletion"); err != nil {
				return "", err
			}
			name, err := requiredStringArg(args, 0, "task name")
			if err != nil {
				return "", err
			}
			if len(args) < 2 {
				return "", errMissingContentType
			}
			ct, err := tutorial.ParseContentType(args[1])
			if err != nil {
				return "", err
			}
			return s.TaskCompletion(content, name, ct)
		},
		"ExcludeDocs": func(content string, _ ...any) (string, error) {
			return s.ExcludeDocs(content), nil
		},
		"ELF": func(content string, args ...any) (string, error) {
			if err := maxArgs(args, 1, "ELF"); err != nil {
				return "", err
			}
			name, err := requiredStringArg(args, 0, "ELF name")
			if err != nil {
				return "", err
			}
			return s.ELF(content, name)
		},
	}
}

// Values returns the non-function context entries: the render settings, the
// state, content type names and the capDL identifiers.
func (s *Session) Values() map[string]any {
	values := map[string]any{
		"solution":        s.args.Solution,
		"args":            s.args,
		"state":           s.state,
		"TaskContentType": tutorial.ContentTypes(),
		"None":            nil,
		"seL4_CanRead":    capdl.CanRead,
		"seL4_CanWrite":   capdl.CanWrite,
		"seL4_AllRights":  capdl.AllRights,
	}
	for _, typ := range capdl.ObjectTypes() {
		values[string(typ)] = typ
	}
	return values
}
