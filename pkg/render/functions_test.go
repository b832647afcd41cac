package render

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tutorialgen/pkg/capdl"
	"github.com/goliatone/go-tutorialgen/pkg/stash"
	"github.com/goliatone/go-tutorialgen/pkg/tutorial"
)

func TestParseTaskRefs(t *testing.T) {
	got, err := ParseTaskRefs("hello", Subtask("ipc", "send"), []any{"timer", []string{"irq"}}, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []TaskRef{
		{Name: "hello"},
		{Name: "ipc", Subtask: "send"},
		{Name: "timer"},
		{Name: "irq"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("refs mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseTaskRefs(42); err == nil {
		t.Fatalf("expected error for non-task value")
	}
}

func TestParseAttrs(t *testing.T) {
	got, err := parseAttrs([]any{
		"size=0x1000",
		"section= guarded ",
		"cached=false",
		map[string]any{"symbol": "buf"},
	})
	if err != nil {
		t.Fatalf("parse attrs: %v", err)
	}
	want := stash.Attrs{
		"size":    4096,
		"section": "guarded",
		"cached":  false,
		"symbol":  "buf",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}

	if _, err := parseAttrs([]any{"novalue"}); err == nil {
		t.Fatalf("expected error for attribute without '='")
	}
}

func TestFunctions_RecordObjectAndFrames(t *testing.T) {
	s := NewSession(Args{})
	fns := s.Functions()

	got, err := fns["RecordObject"](capdl.EndpointObject, "ep", "ep_cap", "badge=5")
	if err != nil {
		t.Fatalf("record endpoint: %v", err)
	}
	if got != "extern seL4_CPtr ep_cap;" {
		t.Fatalf("endpoint decl = %q", got)
	}
	obj, ok := s.State().Stash().Object("ep")
	if !ok || obj.Attrs["badge"] != 5 {
		t.Fatalf("endpoint not stored: %+v", obj)
	}

	got, err = fns["RecordObject"]("seL4_FrameObject", "frame", "frame_cap",
		"symbol=shared", "size=4096", "alignment=4096", "section=guarded")
	if err != nil {
		t.Fatalf("record frame: %v", err)
	}
	if got != "extern const void *shared;\n\nextern seL4_CPtr frame_cap;" {
		t.Fatalf("frame decl = %q", got)
	}

	if _, err := fns["RecordObject"]("seL4_NotAThing", "x", "x_cap"); err == nil {
		t.Fatalf("expected error for unknown object type")
	}
}

func TestFunctions_ArgumentChecks(t *testing.T) {
	s := NewSession(Args{})
	fns := s.Functions()

	cases := []struct {
		name string
		fn   string
		args []any
	}{
		{name: "include task without name", fn: "include_task"},
		{name: "include task too many", fn: "include_task", args: []any{"a", "b", "c"}},
		{name: "external file without name", fn: "ExternalFile"},
		{name: "cspace without cap", fn: "capdl_my_cspace", args: []any{"client"}},
		{name: "empty slot without cap", fn: "capdl_empty_slot"},
		{name: "ordering with subtask", fn: "declare_task_ordering", args: []any{Subtask("a", "b")}},
		{name: "replace without tasks", fn: "include_task_type_replace"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := fns[tc.fn](tc.args...); err == nil {
				t.Fatalf("expected error from %s", tc.fn)
			}
		})
	}
}

func TestFilters_TaskContent(t *testing.T) {
	s := NewSession(Args{Task: "b"})
	if _, err := s.Functions()["declare_task_ordering"]("a", "b"); err != nil {
		t.Fatalf("declare: %v", err)
	}
	filters := s.Filters()

	if _, err := filters["TaskContent"]("a code", "a", tutorial.ContentCompleted); err != nil {
		t.Fatalf("task content: %v", err)
	}
	if _, err := filters["TaskContent"]("b code", "b", "before", nil, "Done b"); err != nil {
		t.Fatalf("task content: %v", err)
	}
	if _, err := filters["TaskContent"]("b sub", "b", nil, "extra"); err != nil {
		t.Fatalf("task content subtask: %v", err)
	}
	if _, err := filters["TaskCompletion"]("b finished", "b", "COMPLETED"); err != nil {
		t.Fatalf("task completion: %v", err)
	}
	if _, err := filters["TaskCompletion"]("b finished", "b"); err == nil {
		t.Fatalf("TaskCompletion without a content type should fail")
	}

	got, err := s.Functions()["include_task_type_append"]([]any{"a", "b"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if got != "a code\nb code" {
		t.Fatalf("append = %q", got)
	}

	task, _ := s.State().Task("b")
	if content, err := task.Content(tutorial.ContentCompleted, "extra"); err != nil || content != "b sub" {
		t.Fatalf("subtask content = %q, %v", content, err)
	}
	if text, _ := task.Completion(tutorial.ContentCompleted); text != "b finished" {
		t.Fatalf("completion = %q", text)
	}
	if got := s.State().CurrentCompletion(); got != "Done b" {
		t.Fatalf("current completion = %q", got)
	}
}

func TestValues(t *testing.T) {
	s := NewSession(Args{Solution: true})
	values := s.Values()

	if values["solution"] != true {
		t.Fatalf("solution flag missing")
	}
	if values["seL4_EndpointObject"] != capdl.EndpointObject {
		t.Fatalf("endpoint identifier missing")
	}
	if values["seL4_AllRights"] != capdl.AllRights {
		t.Fatalf("rights missing")
	}
	types, ok := values["TaskContentType"].(map[string]tutorial.ContentType)
	if !ok || types["ALL"] != tutorial.ContentAll {
		t.Fatalf("content types missing: %#v", values["TaskContentType"])
	}
	for _, typ := range capdl.ObjectTypes() {
		if _, ok := values[string(typ)]; !ok {
			t.Fatalf("missing identifier %s", typ)
		}
	}
	if !strings.HasPrefix(string(capdl.ASIDPool), "seL4_") {
		t.Fatalf("identifiers keep the seL4_ prefix")
	}
}
