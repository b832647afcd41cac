package tutorialgen_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tutorialgen "github.com/goliatone/go-tutorialgen"
)

func TestRenderString(t *testing.T) {
	outDir := t.TempDir()
	result, err := tutorialgen.RenderString(context.Background(),
		`{{ declare_task_ordering("a", "b") }}{% file "a.c" %}{% task_content "a", TaskContentType.ALL %}int a;{% endtask_content %}{% endfile %}`,
		tutorialgen.Args{OutDir: outDir, Task: "b"},
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Document != "int a;" {
		t.Fatalf("document = %q", result.Document)
	}
	if result.CurrentTask != "b" {
		t.Fatalf("current task = %q", result.CurrentTask)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "a.c"))
	if err != nil || string(data) != "int a;" {
		t.Fatalf("a.c = %q (%v)", data, err)
	}
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("solution={{ solution }}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	result, err := tutorialgen.Render(context.Background(), path, tutorialgen.Args{Solution: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Document != "solution=True" {
		t.Fatalf("document = %q", result.Document)
	}
}
