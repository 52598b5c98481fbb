// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package dast

import (
	"strings"

	"github.com/Doenet/DoenetML-sub018/token"
)

// Attribute represents a single attribute. Its value is a node list,
// as attribute values may contain macros.
type Attribute struct {
	Name      string
	Children  []Node
	Position  token.Position
	SourceDoc *int
}

// NewAttribute creates an attribute with a plain text value.
func NewAttribute(name, value string) *Attribute {
	return &Attribute{
		Name:     name,
		Children: []Node{NewText(value)},
	}
}

// Text returns the value of the attribute if it consists of text only.
func (a *Attribute) Text() (string, bool) {
	return TextContent(a.Children)
}

// Attributes is an ordered list of attributes with unique names.
type Attributes []*Attribute

// Get returns an attribute for a given name, or nil if it does not exist.
func (l Attributes) Get(name string) *Attribute {
	for _, a := range l {
		if a.Name == name {
			return a
		}
	}

	return nil
}

// Fold is like Get but compares names case-insensitive.
func (l Attributes) Fold(name string) *Attribute {
	for _, a := range l {
		if strings.EqualFold(a.Name, name) {
			return a
		}
	}

	return nil
}

// Has returns true if an attribute with that name exists.
func (l Attributes) Has(name string) bool {
	return l.Get(name) != nil
}

// Value returns the text value of the named attribute.
// The boolean is false if the attribute is missing or contains macros.
func (l Attributes) Value(name string) (string, bool) {
	a := l.Get(name)
	if a == nil {
		return "", false
	}

	return a.Text()
}

// Put adds the attribute or replaces the one with the same name in place.
// Returns true if an existing attribute got overwritten.
func (l *Attributes) Put(attr *Attribute) bool {
	for i, a := range *l {
		if a.Name == attr.Name {
			(*l)[i] = attr
			return true
		}
	}

	*l = append(*l, attr)

	return false
}

// Set the given attribute if it already exists or create a new
// one otherwise. Returns true if an existing attribute got overwritten.
func (l *Attributes) Set(name string, children ...Node) bool {
	if existing := l.Get(name); existing != nil {
		existing.Children = children
		return true
	}

	*l = append(*l, &Attribute{Name: name, Children: children})

	return false
}

// SetText is Set with a plain text value.
func (l *Attributes) SetText(name, value string) bool {
	return l.Set(name, NewText(value))
}

// Delete removes the named attribute and returns it, or nil if it does not exist.
func (l *Attributes) Delete(name string) *Attribute {
	for i, a := range *l {
		if a.Name == name {
			*l = append((*l)[:i:i], (*l)[i+1:]...)
			return a
		}
	}

	return nil
}

// AddMissing appends every attribute of defaults whose name is not yet present.
// Existing attributes are never overwritten.
func (l *Attributes) AddMissing(defaults Attributes) {
	for _, a := range defaults {
		if !l.Has(a.Name) {
			*l = append(*l, a)
		}
	}
}
