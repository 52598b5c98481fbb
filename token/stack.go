// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import "strings"

// frame is one open tag. Frames are never mutated after creation, so any number
// of Stack values may share them.
type frame struct {
	name   string
	parent *frame
}

// Stack is a persistent stack of open tag names. The zero value is an empty stack.
// Push and Pop return new stacks and leave the receiver untouched, which makes
// copying a Stack as cheap as copying a pointer.
type Stack struct {
	top   *frame
	depth int
}

// Push returns a new stack with name on top.
func (s Stack) Push(name string) Stack {
	return Stack{
		top:   &frame{name: name, parent: s.top},
		depth: s.depth + 1,
	}
}

// Pop returns the stack without its top frame. Popping an empty stack returns an empty stack.
func (s Stack) Pop() Stack {
	if s.top == nil {
		return s
	}

	return Stack{top: s.top.parent, depth: s.depth - 1}
}

// Top returns the name of the innermost open tag.
func (s Stack) Top() (string, bool) {
	if s.top == nil {
		return "", false
	}

	return s.top.name, true
}

// Depth returns the number of open tags.
func (s Stack) Depth() int {
	return s.depth
}

// Find returns how many frames lie above the first frame whose name equals name
// (case-insensitive). 0 means the top frame matches, -1 means no frame matches.
func (s Stack) Find(name string) int {
	i := 0
	for f := s.top; f != nil; f = f.parent {
		if strings.EqualFold(f.name, name) {
			return i
		}
		i++
	}

	return -1
}

// Names returns all open tag names, outermost first.
func (s Stack) Names() []string {
	names := make([]string, s.depth)
	i := s.depth - 1

	for f := s.top; f != nil; f = f.parent {
		names[i] = f.name
		i--
	}

	return names
}
