// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

// Package external pulls content of other documents into a tree.
//
// Elements reference other documents through their extend or copy attribute:
//
//	<p extend="doenet:abc"/>
//
// The referenced source is fetched through a Resolver, converted, normalized and
// spliced into the referencing element as an _externalContent child. Fetched content
// may reference further documents, which are expanded depth-first.
package external

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/Doenet/DoenetML-sub018/convert"
	"github.com/Doenet/DoenetML-sub018/dast"
	"github.com/Doenet/DoenetML-sub018/normalize"
)

var log = commonlog.GetLogger("doenetml.external")

// Resolver returns the source text of the document a uri refers to.
// It is called concurrently and should honour the cancellation of ctx.
type Resolver func(ctx context.Context, uri string) (string, error)

// Mode selects which references are expanded.
type Mode int

const (
	// Generic expands every extend or copy attribute holding plain text.
	Generic Mode = iota
	// Scoped only expands doenet: references and keeps the names of every fetched
	// document in a scope of its own.
	Scoped
)

func (m Mode) String() string {
	switch m {
	case Generic:
		return "generic"
	case Scoped:
		return "scoped"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Scheme is the uri prefix of references expanded in Scoped mode.
const Scheme = "doenet:"

const (
	DefaultMaxRecursion       = 10
	DefaultMaxConcurrentFetch = 4
)

// Options configure Expand. Zero values select the defaults.
type Options struct {
	Mode Mode
	// MaxRecursion limits how deep references in fetched content are followed.
	MaxRecursion int
	// MaxConcurrentFetch limits the number of resolver calls running at the same time.
	MaxConcurrentFetch int
	// Normalize is used for every fetched document.
	Normalize normalize.Options
}

func (o Options) withDefaults() Options {
	if o.MaxRecursion <= 0 {
		o.MaxRecursion = DefaultMaxRecursion
	}

	if o.MaxConcurrentFetch <= 0 {
		o.MaxConcurrentFetch = DefaultMaxConcurrentFetch
	}

	return o
}

var (
	ErrTooDeep  = errors.New("too many levels of recursion")
	ErrMismatch = errors.New("content mismatch")
	ErrCircular = errors.New("circular reference")
)

// referenceAttributes are checked in this order on every element.
var referenceAttributes = []string{"extend", "copy"}

type fetchResult struct {
	text string
	err  error
}

// reference is a pending extend or copy attribute.
type reference struct {
	target *dast.Element
	attr   *dast.Attribute
	uri    string
	// chain holds the uris that lead to the document containing target.
	chain   []string
	depth   int
	started bool
	result  chan fetchResult
}

type expander struct {
	root    *dast.Root
	resolve Resolver
	opts    Options
	sem     chan struct{}
}

// Expand replaces the references below root by the content they refer to.
// References that cannot be resolved are replaced by error nodes, so the
// only error returned is the one of a cancelled ctx.
func Expand(ctx context.Context, root *dast.Root, resolve Resolver, opts Options) error {
	opts = opts.withDefaults()

	x := &expander{
		root:    root,
		resolve: resolve,
		opts:    opts,
		sem:     make(chan struct{}, opts.MaxConcurrentFetch),
	}

	stack := x.collect(root, nil, 0)
	log.Debugf("%s expansion: %d references", opts.Mode, len(stack))

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		x.start(ctx, stack)

		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var res fetchResult
		select {
		case res = <-ref.result:
		case <-ctx.Done():
			return ctx.Err()
		}

		if res.err != nil && ctx.Err() != nil {
			return ctx.Err()
		}

		stack = append(stack, x.splice(ref, res)...)
	}

	return nil
}

// collect returns the references of n and every element below it in document order.
// References that must not be fetched are turned into errors right away.
func (x *expander) collect(n dast.Node, chain []string, depth int) []*reference {
	var refs []*reference

	dast.Elements(n, func(e *dast.Element, _ dast.Node) {
		for _, name := range referenceAttributes {
			attr := e.Attributes.Get(name)
			if attr == nil {
				continue
			}

			uri, ok := x.uri(attr)
			if !ok {
				continue
			}

			ref := &reference{target: e, attr: attr, uri: uri, chain: chain, depth: depth}

			switch {
			case depth >= x.opts.MaxRecursion:
				x.fail(ref, ErrTooDeep)
			case x.opts.Mode == Generic && contains(chain, uri):
				x.fail(ref, ErrCircular)
			default:
				ref.result = make(chan fetchResult, 1)
				refs = append(refs, ref)
			}
		}
	})

	return refs
}

// uri returns the reference held by attr, if it is one the mode expands.
func (x *expander) uri(attr *dast.Attribute) (string, bool) {
	value, ok := attr.Text()
	if !ok {
		return "", false
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	if x.opts.Mode == Scoped && !strings.HasPrefix(value, Scheme) {
		return "", false
	}

	return value, true
}

// start launches the fetches of all references that are not running yet.
func (x *expander) start(ctx context.Context, refs []*reference) {
	for _, ref := range refs {
		if ref.started {
			continue
		}

		ref.started = true

		go func(ref *reference) {
			select {
			case x.sem <- struct{}{}:
			case <-ctx.Done():
				ref.result <- fetchResult{err: ctx.Err()}
				return
			}

			defer func() { <-x.sem }()

			log.Debugf("fetching %s", ref.uri)
			text, err := x.resolve(ctx, ref.uri)
			ref.result <- fetchResult{text: text, err: err}
		}(ref)
	}
}

// splice merges the fetched document into the target of ref and returns the
// references found in the merged content.
func (x *expander) splice(ref *reference, res fetchResult) []*reference {
	if res.err != nil {
		x.fail(ref, res.err)
		return nil
	}

	fetched, err := x.match(ref, res.text)
	if err != nil {
		x.fail(ref, err)
		return nil
	}

	target := ref.target
	target.Attributes.Delete(ref.attr.Name)

	ext := dast.NewElement(normalize.ExternalContent).AddChildren(fetched.Children...)
	ext.Attributes = append(ext.Attributes, fetched.Attributes...)
	ext.Attributes.SetText("doenetMLSource", res.text)
	ext.Attributes.SetText("forType", fetched.Name)
	ext.Position = ref.attr.Position

	if x.opts.Mode == Scoped {
		id := len(x.root.Sources)
		x.root.Sources = append(x.root.Sources, res.text)
		dast.StampSource(ext, id)
		ext.SourceDoc = ref.target.SourceDoc

		// the fetched name only exists inside the scope of its source
		if name := ext.Attributes.Get("name"); name != nil {
			ext.Attributes.Delete("name")
			ext.Attributes.Put(&dast.Attribute{
				Name:      "source-" + strconv.Itoa(id) + ":name",
				Children:  name.Children,
				Position:  name.Position,
				SourceDoc: &id,
			})
		}

		sequence(target, id)
	}

	target.Children = append([]dast.Node{ext}, target.Children...)

	chain := append(append([]string(nil), ref.chain...), ref.uri)

	return x.collect(ext, chain, ref.depth+1)
}

// match parses text and returns the single element it must consist of.
func (x *expander) match(ref *reference, text string) (*dast.Element, error) {
	want := ref.target.Name
	if want == normalize.ExternalContent {
		want, _ = ref.target.Attributes.Value("forType")
	}

	root := normalize.Normalize(convert.Convert(text), x.opts.Normalize)

	doc, ok := root.Children[0].(*dast.Element)
	if !ok {
		return nil, fmt.Errorf("%w: expected a <%s> element", ErrMismatch, want)
	}

	if want == doc.Name && doc.Name == "document" {
		return doc, nil
	}

	content := dast.WithoutBlank(doc.Children)

	switch len(content) {
	case 0:
		return nil, fmt.Errorf("%w: expected a <%s> element, found nothing", ErrMismatch, want)
	case 1:
	default:
		return nil, fmt.Errorf("%w: expected a single <%s> element, found %d nodes", ErrMismatch, want, len(content))
	}

	e, ok := content[0].(*dast.Element)
	if !ok {
		return nil, fmt.Errorf("%w: expected a <%s> element", ErrMismatch, want)
	}

	if e.Name != want {
		return nil, fmt.Errorf("%w: expected a <%s> element, found <%s>", ErrMismatch, want, e.Name)
	}

	return e, nil
}

// fail removes the reference and puts an error in front of the target's content.
func (x *expander) fail(ref *reference, err error) {
	log.Debugf("could not resolve %s: %s", ref.uri, err)

	ref.target.Attributes.Delete(ref.attr.Name)

	msg := fmt.Sprintf("Could not resolve %s=%q: %s", ref.attr.Name, ref.uri, err)
	e := dast.NewError(msg, ref.attr.Position)
	e.SourceDoc = ref.attr.SourceDoc
	ref.target.Children = append([]dast.Node{e}, ref.target.Children...)
}

// sequence appends id to the source:sequence attribute of e, which starts with the
// source of e itself.
func sequence(e *dast.Element, id int) {
	seq, ok := e.Attributes.Value("source:sequence")
	if !ok {
		own := 0
		if e.SourceDoc != nil {
			own = *e.SourceDoc
		}

		seq = strconv.Itoa(own)
	}

	e.Attributes.SetText("source:sequence", seq+" "+strconv.Itoa(id))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}

	return false
}
