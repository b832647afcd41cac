package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-tutorialgen/pkg/output"
	"github.com/goliatone/go-tutorialgen/pkg/render"
	"github.com/goliatone/go-tutorialgen/pkg/render/template"
	"github.com/goliatone/go-tutorialgen/pkg/render/template/gotemplate"
)

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithLogger attaches a logger shared with every render session.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithEngine injects a template engine. The engine must expose the tutorial
// tags; gotemplate engines always do. Without one, each request gets a fresh
// pongo2 engine rooted at the template's directory.
func WithEngine(engine template.TemplateRenderer) Option {
	return func(p *Pipeline) {
		p.engine = engine
	}
}

// WithSanitizer overrides the sanitizer applied to doc site documents when a
// request asks for sanitising.
func WithSanitizer(s Sanitizer) Option {
	return func(p *Pipeline) {
		p.sanitizer = s
	}
}

// WithFS loads templates from fsys instead of the local file system.
func WithFS(fsys fs.FS) Option {
	return func(p *Pipeline) {
		p.templates = fsys
	}
}

// WithTrimBlocks enables Jinja style trim_blocks/lstrip_blocks on engines the
// pipeline builds itself.
func WithTrimBlocks(enabled bool) Option {
	return func(p *Pipeline) {
		p.trimBlocks = enabled
	}
}

// Pipeline renders tutorial templates.
type Pipeline struct {
	logger     *zap.Logger
	engine     template.TemplateRenderer
	sanitizer  Sanitizer
	templates  fs.FS
	trimBlocks bool
}

// New constructs a Pipeline applying any provided options.
func New(options ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.sanitizer == nil {
		p.sanitizer = DocSiteSanitizer()
	}
	return p
}

// Request describes one tutorial render.
type Request struct {
	// Template is the main template path. Queued additional files resolve
	// relative to its directory.
	Template string

	// Source renders inline template text instead of Template. Additional
	// files then resolve relative to the working directory or the configured
	// fs.FS.
	Source string

	// Args are the render settings exposed to templates.
	Args render.Args

	// Output, when set, receives the rendered document.
	Output string

	// Writer, when set, also receives the rendered document.
	Writer io.Writer

	// Sanitize passes doc site documents through the sanitizer.
	Sanitize bool
}

// Result reports what a render produced.
type Result struct {
	Document        string
	Written         []string
	AdditionalFiles []string
	CurrentTask     string
	Completion      string
}

// Render executes the session → main template → additional files → document
// sequence.
func (p *Pipeline) Render(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("pipeline: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(req.Template) == "" && req.Source == "" {
		return Result{}, errors.New("pipeline: template or source is required")
	}

	engine, main, err := p.engineFor(req)
	if err != nil {
		return Result{}, err
	}

	logger := p.logger.With(zap.String("template", templateLabel(req)))
	sess := render.NewSession(req.Args, render.WithLogger(logger))
	data := gotemplate.SessionContext(sess)

	var document string
	if req.Source != "" {
		document, err = engine.RenderString(req.Source, data)
	} else {
		document, err = engine.RenderTemplate(main, data)
	}
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: render %s: %w", templateLabel(req), err)
	}

	// Additional templates may queue further files; each is rendered once.
	rendered := 0
	for {
		queued := sess.State().AdditionalFiles()
		if rendered >= len(queued) {
			break
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		name := queued[rendered]
		rendered++
		logger.Debug("rendering additional file", zap.String("file", name))
		if _, err := engine.RenderTemplate(name, data); err != nil {
			return Result{}, fmt.Errorf("pipeline: render additional file %q: %w", name, err)
		}
	}

	if req.Args.DocSite && req.Sanitize && p.sanitizer != nil {
		document = p.sanitizer.Sanitize(document)
	}

	if err := p.writeDocument(req, document); err != nil {
		return Result{}, err
	}

	result := Result{
		Document:        document,
		Written:         sess.Output().Written(),
		AdditionalFiles: sess.State().AdditionalFiles(),
		Completion:      sess.State().CurrentCompletion(),
	}
	if current := sess.State().CurrentTask(); current != nil {
		result.CurrentTask = current.Name
	}
	logger.Info("tutorial rendered",
		zap.Int("files", len(result.Written)),
		zap.Int("additional", len(result.AdditionalFiles)),
		zap.String("task", result.CurrentTask),
	)
	return result, nil
}

// engineFor returns the engine to use and the main template name relative to
// the engine's loader.
func (p *Pipeline) engineFor(req Request) (template.TemplateRenderer, string, error) {
	if p.engine != nil {
		return p.engine, req.Template, nil
	}

	options := []gotemplate.Option{
		gotemplate.WithAutoescape(false),
		gotemplate.WithTrimBlocks(p.trimBlocks),
	}
	main := req.Template
	switch {
	case p.templates != nil:
		options = append(options, gotemplate.WithFS(p.templates))
	case req.Template != "":
		dir, base := filepath.Split(req.Template)
		if dir == "" {
			dir = "."
		}
		options = append(options, gotemplate.WithBaseDir(dir))
		main = base
	}

	engine, err := gotemplate.New(options...)
	if err != nil {
		return nil, "", fmt.Errorf("pipeline: template engine: %w", err)
	}
	return engine, main, nil
}

func (p *Pipeline) writeDocument(req Request, document string) error {
	if req.Writer != nil {
		if _, err := io.WriteString(req.Writer, document); err != nil {
			return fmt.Errorf("pipeline: write document: %w", err)
		}
	}
	if strings.TrimSpace(req.Output) == "" {
		return nil
	}
	if err := output.WriteFile(req.Output, document); err != nil {
		return fmt.Errorf("pipeline: write document: %w", err)
	}
	return nil
}

func templateLabel(req Request) string {
	if req.Source != "" {
		return "<inline>"
	}
	return req.Template
}
