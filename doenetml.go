// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package doenetml turns DoenetML source into a normalized tree.
//
//	root := doenetml.ParseAndNormalize(src, doenetml.Options{})
//	for _, d := range doenetml.Diagnostics(root) {
//	    fmt.Println(d)
//	}
//
// Malformed input never fails, problems are reported as error nodes in the tree.
package doenetml

import (
	"context"
	"strings"

	"github.com/Doenet/DoenetML-sub018/convert"
	"github.com/Doenet/DoenetML-sub018/dast"
	"github.com/Doenet/DoenetML-sub018/encoder"
	"github.com/Doenet/DoenetML-sub018/external"
	"github.com/Doenet/DoenetML-sub018/internal/config"
	"github.com/Doenet/DoenetML-sub018/normalize"
	"github.com/Doenet/DoenetML-sub018/resolver"
	"github.com/Doenet/DoenetML-sub018/token"
)

type Options struct {
	Normalize normalize.Options
	External  external.Options
}

// OptionsFromConfig returns the options described by cfg.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Normalize: normalize.Options{AutoName: cfg.AutoName},
		External: external.Options{
			Mode:               external.Scoped,
			MaxRecursion:       cfg.MaxRecursion,
			MaxConcurrentFetch: cfg.MaxConcurrentFetch,
			Normalize:          normalize.Options{AutoName: cfg.AutoName},
		},
	}
}

// ResolverFromConfig returns a resolver fetching doenet: references below cfg.SourceBaseURL.
func ResolverFromConfig(cfg config.Config) external.Resolver {
	return resolver.NewHTTP(cfg.SourceBaseURL, cfg.HTTPTimeout).Resolve
}

// Parse converts src into a tree without normalizing it.
func Parse(src string) *dast.Root {
	return convert.Convert(src)
}

// Normalize rewrites root into its canonical form.
func Normalize(root *dast.Root, opts Options) *dast.Root {
	return normalize.Normalize(root, opts.Normalize)
}

func ParseAndNormalize(src string, opts Options) *dast.Root {
	return Normalize(Parse(src), opts)
}

// Expand pulls the documents referenced by root into it. Fetched documents are
// normalized with opts.Normalize. Only a cancelled ctx makes Expand fail.
func Expand(ctx context.Context, root *dast.Root, resolve external.Resolver, opts Options) error {
	ext := opts.External
	ext.Normalize = opts.Normalize

	return external.Expand(ctx, root, resolve, ext)
}

func Diagnostics(root *dast.Root) []dast.Diagnostic {
	return dast.Diagnostics(root)
}

// Explain renders every diagnostic against the source it was found in.
func Explain(root *dast.Root) string {
	indices := map[int]*token.LineIndex{}
	sb := &strings.Builder{}

	for _, d := range Diagnostics(root) {
		id := 0
		if d.SourceDoc != nil && *d.SourceDoc < len(root.Sources) {
			id = *d.SourceDoc
		}

		index, ok := indices[id]
		if !ok {
			var src string
			if id < len(root.Sources) {
				src = root.Sources[id]
			}

			index = token.NewLineIndex(src)
			indices[id] = index
		}

		sb.WriteString(d.PosError().Explain(index))
	}

	return sb.String()
}

// ToDoenetML serializes n as DoenetML source.
func ToDoenetML(n dast.Node) string {
	return encoder.ToDoenetML(n)
}

// ToXML serializes n as well-formed XML.
func ToXML(n dast.Node) string {
	return encoder.ToXML(n)
}
