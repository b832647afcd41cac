package tutorial

import (
	"fmt"
	"strings"
)

// ContentType selects which variant of a task's content is shown.
type ContentType int

const (
	// ContentBefore is the starting point a reader edits while working on
	// the task.
	ContentBefore ContentType = iota + 1
	// ContentCompleted is the finished code once the task is done.
	ContentCompleted
	// ContentAll is shown regardless of progress and backs the other two.
	ContentAll
)

func (c ContentType) String() string {
	switch c {
	case ContentBefore:
		return "BEFORE"
	case ContentCompleted:
		return "COMPLETED"
	case ContentAll:
		return "ALL"
	default:
		return fmt.Sprintf("ContentType(%d)", int(c))
	}
}

// Valid reports whether c is a known content type.
func (c ContentType) Valid() bool {
	return c >= ContentBefore && c <= ContentAll
}

// ContentTypes maps template-facing names to their values.
func ContentTypes() map[string]ContentType {
	return map[string]ContentType{
		"BEFORE":    ContentBefore,
		"COMPLETED": ContentCompleted,
		"ALL":       ContentAll,
	}
}

// ParseContentType accepts a ContentType, its name (any case) or its integer
// value. A nil value resolves to ContentCompleted, the default variant for
// declared task content.
func ParseContentType(v any) (ContentType, error) {
	switch value := v.(type) {
	case nil:
		return ContentCompleted, nil
	case ContentType:
		if !value.Valid() {
			return 0, fmt.Errorf("tutorial: invalid content type %d", int(value))
		}
		return value, nil
	case int:
		return ParseContentType(ContentType(value))
	case string:
		trimmed := strings.ToUpper(strings.TrimSpace(value))
		if trimmed == "" {
			return ContentCompleted, nil
		}
		trimmed = strings.TrimPrefix(trimmed, "TASKCONTENTTYPE.")
		if ct, ok := ContentTypes()[trimmed]; ok {
			return ct, nil
		}
		return 0, fmt.Errorf("tutorial: unknown content type %q", value)
	default:
		return 0, fmt.Errorf("tutorial: unsupported content type value %T", v)
	}
}
