package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-tutorialgen/pkg/config"
	"github.com/goliatone/go-tutorialgen/pkg/prompt"
	"github.com/goliatone/go-tutorialgen/pkg/testsupport"
)

const tutorialTemplate = `{{ declare_task_ordering("hello", "ipc") }}{% exclude_docs %}
{% task_content "hello", TaskContentType.BEFORE %}/* hello */{% endtask_content %}
{% task_content "hello", TaskContentType.COMPLETED %}puts("hello");{% endtask_content %}
{% task_content "ipc", TaskContentType.ALL %}seL4_Call(ep, info);{% endtask_content %}
{% endexclude_docs %}# Tutorial
{% elf "client" %}{{ RecordObject(seL4_EndpointObject, "ep", "ep_cap") }}
{{ include_task("hello") }}{% endelf %}{{ write_manifest() }}`

type fakeDriver struct {
	choice int
}

func (f *fakeDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) { return false, nil }

func (f *fakeDriver) Select(context.Context, prompt.SelectConfig) (int, error) { return f.choice, nil }

func (f *fakeDriver) Info(context.Context, string) error { return nil }

func writeTemplate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hello.md")
	require.NoError(t, os.WriteFile(path, []byte(tutorialTemplate), 0o644))
	return path
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	tpl := writeTemplate(t)
	outDir := t.TempDir()
	ledger := filepath.Join(t.TempDir(), "files.txt")

	out, err := execute(t, newApp(), "render", tpl, "--out-dir", outDir, "--task", "ipc", "--output-files", ledger)
	require.NoError(t, err)
	require.Equal(t, "# Tutorial\nextern seL4_CPtr ep_cap;\nputs(\"hello\");", out)

	files := testsupport.ReadTree(t, outDir)
	require.Equal(t, "hello\nipc\n", files[".tasks"])
	require.Equal(t, "extern seL4_CPtr ep_cap;\nputs(\"hello\");", files["client.c"])
	require.Contains(t, files, "manifest.json")

	manifest := testsupport.MustLoadManifest(t, filepath.Join(outDir, "manifest.json"))
	require.Len(t, manifest.CSpaceLayout["client"], 1)
	require.Equal(t, "client.c", manifest.ELFs["client"].Filename)

	listed, err := os.ReadFile(ledger)
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(string(listed), "\n"))
}

func TestRenderCommand_ConfigAndOutput(t *testing.T) {
	tpl := writeTemplate(t)
	outDir := t.TempDir()
	doc := filepath.Join(t.TempDir(), "README.md")
	cfgPath := filepath.Join(t.TempDir(), "tutorialgen.toml")
	cfgBody := "[render]\nout_dir = \"" + filepath.ToSlash(outDir) + "\"\nsolution = true\nmanifest_format = \"yaml\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))

	out, err := execute(t, newApp(), "--config", cfgPath, "render", tpl, "--output", doc)
	require.NoError(t, err)
	require.Empty(t, out)

	rendered, err := os.ReadFile(doc)
	require.NoError(t, err)
	require.Contains(t, string(rendered), `puts("hello");`)

	files := testsupport.ReadTree(t, outDir)
	require.Contains(t, files, "manifest.yaml")
}

func TestRenderCommand_DocSite(t *testing.T) {
	tpl := writeTemplate(t)
	outDir := t.TempDir()

	out, err := execute(t, newApp(), "render", tpl, "--out-dir", outDir, "--docsite", "--sanitize")
	require.NoError(t, err)
	require.Contains(t, out, "# Tutorial")
	require.Empty(t, testsupport.ReadTree(t, outDir))
}

func TestRenderCommand_Errors(t *testing.T) {
	_, err := execute(t, newApp(), "render")
	require.Error(t, err)

	_, err = execute(t, newApp(), "render", writeTemplate(t), "--log-level", "loud")
	require.ErrorContains(t, err, "log level")

	_, err = execute(t, newApp(), "render", writeTemplate(t), "--manifest-format", "pickle")
	require.Error(t, err)

	_, err = execute(t, newApp(), "--config", filepath.Join(t.TempDir(), "missing.yaml"), "render", writeTemplate(t))
	require.Error(t, err)
}

func TestTasksAndPickCommands(t *testing.T) {
	tpl := writeTemplate(t)
	outDir := t.TempDir()

	_, err := execute(t, newApp(), "render", tpl, "--out-dir", outDir)
	require.NoError(t, err)

	out, err := execute(t, newApp(), "tasks", outDir)
	require.NoError(t, err)
	require.Equal(t, "1\thello\n2\tipc\n", out)

	a := newApp()
	a.driver = &fakeDriver{choice: 0}
	out, err = execute(t, a, "pick", tpl, "--out-dir", outDir)
	require.NoError(t, err)
	require.Contains(t, out, "/* hello */")
	require.Equal(t, "hello", a.cfg.Render.Task)

	_, err = execute(t, newApp(), "pick", tpl)
	require.ErrorContains(t, err, "--out-dir")
}

func TestGeneratedPaths(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "build")
	doc := filepath.Join(dir, "README.md")
	ignored := generatedPaths(outDir, doc, "")

	require.True(t, ignored(filepath.Join(outDir, "client.c")))
	require.True(t, ignored(doc))
	require.False(t, ignored(filepath.Join(dir, "hello.md")))
	require.False(t, ignored(dir+"/buildx/file"))
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := newLogger(config.LogConfig{Level: "debug", Format: format})
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
	_, err := newLogger(config.LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}
