// Package tutorialgen renders seL4 tutorial templates. Templates declare
// their tasks and progressively reveal content as the reader advances. They
// also emit C sources and record capDL objects into a manifest for the build.
//
// Most callers only need Render; the pipeline, render and gotemplate
// packages expose the individual stages.
package tutorialgen

import (
	"context"

	"github.com/goliatone/go-tutorialgen/pkg/pipeline"
	"github.com/goliatone/go-tutorialgen/pkg/render"
)

// Args are the render settings; alias of render.Args.
type Args = render.Args

// Result reports what a render produced; alias of pipeline.Result.
type Result = pipeline.Result

// NewPipeline exposes the pipeline constructor from the top-level module.
func NewPipeline(options ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(options...)
}

// Render renders the template file at path with args.
func Render(ctx context.Context, path string, args Args, options ...pipeline.Option) (Result, error) {
	return pipeline.New(options...).Render(ctx, pipeline.Request{
		Template: path,
		Args:     args,
	})
}

// RenderString renders inline template source with args.
func RenderString(ctx context.Context, source string, args Args, options ...pipeline.Option) (Result, error) {
	return pipeline.New(options...).Render(ctx, pipeline.Request{
		Source: source,
		Args:   args,
	})
}
