// Package skim is a pure, I/O-free library for transforming source code
// by stripping implementation details while preserving structure,
// signatures, and types. It accepts bytes and returns bytes; file I/O,
// caching, and parallelism live in cmd/skim, which builds on the
// module's internal/cache, internal/pipeline, and internal/discover
// packages.
package skim

import (
	"github.com/phobologic/skim/internal/lang"
	"github.com/phobologic/skim/internal/safety"
	"github.com/phobologic/skim/internal/tokencount"
	"github.com/phobologic/skim/internal/transform"
)

// Language re-exports the closed set of source languages Skim
// understands, including the two supplemental data formats.
type Language = lang.Language

const (
	TypeScript = lang.TypeScript
	JavaScript = lang.JavaScript
	Python     = lang.Python
	Rust       = lang.Rust
	Go         = lang.Go
	Java       = lang.Java
	Markdown   = lang.Markdown
	Json       = lang.Json
	Yaml       = lang.Yaml
)

// Mode re-exports the closed set of transformation modes.
type Mode = transform.Mode

const (
	Structure  = transform.Structure
	Signatures = transform.Signatures
	Types      = transform.Types
	Full       = transform.Full
)

// TransformResult is the output of a single transformation, paired with
// before/after token counts for budgeting decisions.
type TransformResult struct {
	Output            []byte
	OriginalTokens    int
	TransformedTokens int
}

// ReductionPercentage returns (original - transformed) / original * 100,
// or 0 when OriginalTokens is 0.
func (r TransformResult) ReductionPercentage() float64 {
	if r.OriginalTokens == 0 {
		return 0
	}
	return float64(r.OriginalTokens-r.TransformedTokens) / float64(r.OriginalTokens) * 100
}

// Transform is the primary entry point: a pure function, no I/O, no
// caching. Token counts are always computed — callers that don't need
// them simply ignore TransformResult's count fields.
func Transform(source []byte, language Language, mode Mode) (TransformResult, error) {
	if err := safety.CheckSize(source); err != nil {
		return TransformResult{}, err
	}

	out, err := transform.Run(source, language, mode)
	if err != nil {
		return TransformResult{}, err
	}

	return TransformResult{
		Output:            out,
		OriginalTokens:    tokencount.Count(source),
		TransformedTokens: tokencount.Count(out),
	}, nil
}

// TransformAuto derives the language from pathHint's extension and feeds
// it to Transform, falling back to explicitTag when the extension is
// absent or unrecognized.
func TransformAuto(source []byte, pathHint string, explicitTag string, mode Mode) (TransformResult, error) {
	l, err := lang.ForPath(pathHint, explicitTag)
	if err != nil {
		return TransformResult{}, err
	}
	return Transform(source, l, mode)
}
