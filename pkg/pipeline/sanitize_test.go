package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-tutorialgen/pkg/render"
)

const codeBlock = "```c\n#include <stdio.h>\nprintf(\"a && b\");\n```\n"

func TestDocSiteSanitizer_KeepsCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		keep    []string
		dropped []string
	}{
		{
			name:    "fenced block",
			input:   "# Build <script>alert(1)</script>\n\n" + codeBlock + "\nafter <b>bold</b>\n",
			keep:    []string{codeBlock, "<b>bold</b>"},
			dropped: []string{"<script", "alert(1)"},
		},
		{
			name:    "tilde fence",
			input:   "~~~\nif (a < b && c) {}\n~~~\n<iframe src=\"x\"></iframe>\n",
			keep:    []string{"~~~\nif (a < b && c) {}\n~~~\n"},
			dropped: []string{"<iframe"},
		},
		{
			name:    "inline span",
			input:   "Run `make && ./hello <arg>` then <img src=\"a.png\" onerror=\"x()\">.\n",
			keep:    []string{"`make && ./hello <arg>`", `src="a.png"`},
			dropped: []string{"onerror"},
		},
		{
			name:    "unterminated backtick is prose",
			input:   "a ` b <script>x()</script>\n",
			dropped: []string{"<script"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DocSiteSanitizer().Sanitize(tt.input)
			for _, want := range tt.keep {
				if !strings.Contains(got, want) {
					t.Fatalf("missing %q in:\n%s", want, got)
				}
			}
			for _, gone := range tt.dropped {
				if strings.Contains(got, gone) {
					t.Fatalf("%q survived in:\n%s", gone, got)
				}
			}
		})
	}
}

func TestPipeline_DocSiteSanitizeLeavesCodeBlocks(t *testing.T) {
	result, err := New().Render(context.Background(), Request{
		Source:   "## Task 1\n\n" + codeBlock,
		Args:     render.Args{DocSite: true},
		Sanitize: true,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "## Task 1\n\n" + codeBlock; result.Document != want {
		t.Fatalf("document = %q, want %q", result.Document, want)
	}
}
