package gotemplate

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-tutorialgen/pkg/render"
)

// Block tags route their rendered body through the session filter of the
// same purpose. pongo2 filters are global and cannot reach the session, so
// every filter with side effects is a tag:
//
//	{% file "hello.c" %}...{% endfile %}
//	{% task_content "hello", TaskContentType.BEFORE %}...{% endtask_content %}
//	{% task_completion "hello", TaskContentType.COMPLETED %}...{% endtask_completion %}
//	{% exclude_docs %}...{% endexclude_docs %}
//	{% elf "client" %}...{% endelf %}
var blockTags = map[string]string{
	"file":            "File",
	"task_content":    "TaskContent",
	"task_completion": "TaskCompletion",
	"exclude_docs":    "ExcludeDocs",
	"elf":             "ELF",
}

var (
	registerOnce sync.Once
	registerErr  error
)

func registerTutorialTags() error {
	registerOnce.Do(func() {
		for tag, filter := range blockTags {
			if err := pongo2.RegisterTag(tag, blockTagParser(filter, "end"+tag)); err != nil {
				registerErr = fmt.Errorf("gotemplate: register tag %q: %w", tag, err)
				return
			}
		}
		if !pongo2.FilterExists("ExcludeDocs") {
			registerErr = pongo2.RegisterFilter("ExcludeDocs", filterExcludeDocs)
		}
	})
	return registerErr
}

// filterExcludeDocs is the stateless form of {% exclude_docs %}, usable in
// expressions: {{ include_task("hello")|ExcludeDocs }}.
func filterExcludeDocs(*pongo2.Value, *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(""), nil
}

type blockTagNode struct {
	filter   string
	position *pongo2.Token
	body     *pongo2.NodeWrapper
	args     []pongo2.IEvaluator
}

func blockTagParser(filter, endTag string) pongo2.TagParser {
	return func(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		node := &blockTagNode{filter: filter, position: start}

		wrapper, endArgs, err := doc.WrapUntilTag(endTag)
		if err != nil {
			return nil, err
		}
		if endArgs.Count() > 0 {
			return nil, endArgs.Error(fmt.Sprintf("'%s' takes no arguments.", endTag), nil)
		}
		node.body = wrapper

		for arguments.Remaining() > 0 {
			expr, err := arguments.ParseExpression()
			if err != nil {
				return nil, err
			}
			node.args = append(node.args, expr)
			arguments.Match(pongo2.TokenSymbol, ",")
		}
		return node, nil
	}
}

func (node *blockTagNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	sess, ok := ctx.Public[SessionKey].(*render.Session)
	if !ok || sess == nil {
		return ctx.Error(fmt.Sprintf("%s needs a render session in the context", node.filter), node.position)
	}

	var body bytes.Buffer
	if err := node.body.Execute(ctx, &body); err != nil {
		return err
	}

	args := make([]any, 0, len(node.args))
	for _, expr := range node.args {
		value, err := expr.Evaluate(ctx)
		if err != nil {
			return err
		}
		args = append(args, unwrapValue(value))
	}

	filter := sess.Filters()[node.filter]
	out, err := filter(body.String(), args...)
	if err != nil {
		return ctx.OrigError(err, node.position)
	}
	if _, err := writer.WriteString(out); err != nil {
		return ctx.OrigError(err, node.position)
	}
	return nil
}
