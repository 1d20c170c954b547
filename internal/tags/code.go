package tags

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/tocer/internal/executor"
	"git.home.luguber.info/inful/tocer/internal/foundation/errors"
	"git.home.luguber.info/inful/tocer/internal/logfields"
	"git.home.luguber.info/inful/tocer/internal/markdown"
)

// minOutputFence is the shortest fence put around embedded command output.
const minOutputFence = 7

// CodeProcessor executes the fenced block of every code region in a document
// and embeds the output below it in a collapsible block.
type CodeProcessor struct {
	Tag      string
	Executor executor.Executor
	Policy   executor.FailurePolicy
	Logger   *slog.Logger
}

// NewCodeProcessor creates a processor for regions named tag.
func NewCodeProcessor(tag string, exec executor.Executor, policy executor.FailurePolicy) *CodeProcessor {
	return &CodeProcessor{Tag: tag, Executor: exec, Policy: policy, Logger: slog.Default()}
}

// Process rewrites every code region of text and returns the new text along
// with the number of commands run. path only labels logs and errors.
func (p *CodeProcessor) Process(ctx context.Context, path, text string) (string, int, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	regions := FindRegions(p.Tag, text)
	if len(regions) == 0 {
		return text, 0, nil
	}

	edits := make([]markdown.Edit, 0, len(regions))
	for i, region := range regions {
		body := text[region.BodyStart:region.BodyEnd]
		block, ok := markdown.FirstFencedBlock([]byte(body))
		if !ok || block.Closing == "" || strings.TrimSpace(block.Code) == "" {
			return "", i, errors.ParseError("code tag does not contain a closed, non-empty fenced code block").
				WithContext("path", path).
				WithContext("tag", p.Tag).
				WithContext("region", i+1).
				Build()
		}
		if err := ctx.Err(); err != nil {
			return "", i, err
		}

		logger.Info("Executing code tag", logfields.Path(path), logfields.Language(block.Language))
		output, err := p.Executor.Execute(ctx, block.Code)
		if err != nil {
			var exitErr *executor.ExitError
			if !stderrors.As(err, &exitErr) || p.Policy != executor.FailurePolicyEmbed {
				if classified, ok := errors.AsClassified(err); ok {
					return "", i + 1, classified.WithContext("path", path)
				}
				return "", i + 1, err
			}
			logger.Warn("Code tag command failed, embedding its output",
				logfields.Path(path), logfields.ExitCode(exitErr.Code))
		}

		rendered := RenderCode(p.Tag, block, StripTerminal(output))
		edits = append(edits, markdown.Edit{Start: region.Start, End: region.End, Replacement: []byte(rendered)})
	}

	out, err := markdown.ApplyEdits([]byte(text), edits)
	if err != nil {
		return "", len(regions), errors.InternalError("failed to apply code tag output").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return string(out), len(regions), nil
}

// RenderCode renders a complete code region: the source block as written,
// followed by a <details> block holding output. Region markers inside output
// are neutralized.
func RenderCode(name string, block markdown.FencedBlock, output string) string {
	output = Neutralize(strings.TrimRight(strings.TrimLeft(output, "\n"), " \t\n"))
	fence := strings.Repeat("`", max(minOutputFence, markdown.LongestRun(output, '`')+1))

	var b strings.Builder
	b.WriteString(StartTag(name) + "\n")
	b.WriteString(strings.TrimSpace(block.Opening) + "\n")
	b.WriteString(block.Code + "\n")
	b.WriteString(strings.TrimSpace(block.Closing) + "\n")
	b.WriteString("\n<details>\n<summary>Output</summary>\n\n")
	b.WriteString(fence + "\n")
	if output != "" {
		b.WriteString(output + "\n")
	}
	b.WriteString(fence + "\n")
	b.WriteString("</details>\n")
	b.WriteString(EndTag(name))
	return b.String()
}
