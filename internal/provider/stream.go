// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import "strings"

// SliceStream yields a fixed list of fragments, then Err. It backs scripted
// providers and one-shot replies.
type SliceStream struct {
	frags  []string
	pos    int
	cur    string
	err    error
	closed bool
}

// NewSliceStream returns a stream over frags that ends with err (nil for a
// clean end).
func NewSliceStream(frags []string, err error) *SliceStream {
	return &SliceStream{frags: frags, pos: -1, err: err}
}

// Next implements Stream.
func (s *SliceStream) Next() bool {
	if s.closed || s.pos+1 >= len(s.frags) {
		s.pos = len(s.frags)
		return false
	}
	s.pos++
	s.cur = s.frags[s.pos]
	return true
}

// Fragment implements Stream.
func (s *SliceStream) Fragment() string { return s.cur }

// Err implements Stream.
func (s *SliceStream) Err() error {
	if s.pos >= len(s.frags) && !s.closed {
		return s.err
	}
	return nil
}

// Close implements Stream.
func (s *SliceStream) Close() error {
	s.closed = true
	return nil
}

// Collect drains s and returns the concatenated text.
func Collect(s Stream) (string, error) {
	defer s.Close()
	var sb strings.Builder
	for s.Next() {
		sb.WriteString(s.Fragment())
	}
	return sb.String(), s.Err()
}
