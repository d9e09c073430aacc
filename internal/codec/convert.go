// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"fmt"
	"strconv"
)

// AsString returns v as a string.
func AsString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: want string, got %T", ErrTypeMismatch, v)
	}
	return s, nil
}

// AsInt returns v as an int64. Decimal strings are accepted so that values
// typed into the document by hand still read back as numbers.
func AsInt(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: want integer, got %q", ErrTypeMismatch, val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: want integer, got %T", ErrTypeMismatch, v)
	}
}

// AsStringSlice returns a decoded list whose items are all strings.
func AsStringSlice(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: want list, got %T", ErrTypeMismatch, v)
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, err := AsString(item)
		if err != nil {
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// AsStringMap returns a decoded mapping whose values are all strings.
func AsStringMap(v any) (map[string]string, error) {
	if v == nil {
		return map[string]string{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: want mapping, got %T", ErrTypeMismatch, v)
	}
	out := make(map[string]string, len(m))
	for k, item := range m {
		s, err := AsString(item)
		if err != nil {
			return nil, fmt.Errorf("map item %q: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

// AsIntMap returns a decoded mapping whose values are all integers.
func AsIntMap(v any) (map[string]int64, error) {
	if v == nil {
		return map[string]int64{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: want mapping, got %T", ErrTypeMismatch, v)
	}
	out := make(map[string]int64, len(m))
	for k, item := range m {
		n, err := AsInt(item)
		if err != nil {
			return nil, fmt.Errorf("map item %q: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}
