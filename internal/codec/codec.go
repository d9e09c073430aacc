// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec converts typed values to and from the printable tokens stored
// in the configuration document.
//
// A plain token starts with a one byte type tag:
//
//	U  string      percent-escaped text
//	d  int64       base-10 digits
//	t  bool true   (no payload)
//	f  bool false  (no payload)
//	B  []byte      unpadded base64url
//	L  []any       base64url(CBOR array of child tokens)
//	M  map[string]any  base64url(CBOR map of key to child token)
//
// A private token starts with [Marker] and carries an AES-256-GCM sealed plain
// token, see [EncodePrivate]. No type tag is ':' so a plain token can never be
// mistaken for a private one.
package codec

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

const (
	tagString = 'U'
	tagInt    = 'd'
	tagTrue   = 't'
	tagFalse  = 'f'
	tagBytes  = 'B'
	tagList   = 'L'
	tagMap    = 'M'
)

var b64 = base64.RawURLEncoding.Strict()

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	// Equal lists and mappings must produce equal tokens.
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Encode returns the plain token for v.
//
// Supported inputs are string, int, int32, int64, uint32, bool, []byte,
// []string, []any, map[string]string, map[string]int64 and map[string]any
// (recursively). Anything else yields [ErrUnsupportedType].
func Encode(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return string(tagString) + escape(val), nil
	case int:
		return string(tagInt) + strconv.FormatInt(int64(val), 10), nil
	case int32:
		return string(tagInt) + strconv.FormatInt(int64(val), 10), nil
	case int64:
		return string(tagInt) + strconv.FormatInt(val, 10), nil
	case uint32:
		return string(tagInt) + strconv.FormatInt(int64(val), 10), nil
	case bool:
		if val {
			return string(tagTrue), nil
		}
		return string(tagFalse), nil
	case []byte:
		return string(tagBytes) + b64.EncodeToString(val), nil
	case []string:
		items := make([]any, len(val))
		for i, s := range val {
			items[i] = s
		}
		return encodeList(items)
	case []any:
		return encodeList(val)
	case map[string]string:
		m := make(map[string]any, len(val))
		for k, s := range val {
			m[k] = s
		}
		return encodeMap(m)
	case map[string]int64:
		m := make(map[string]any, len(val))
		for k, n := range val {
			m[k] = n
		}
		return encodeMap(m)
	case map[string]any:
		return encodeMap(val)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// MustEncode is Encode for values known to be supported. It panics otherwise.
func MustEncode(v any) string {
	token, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return token
}

func encodeList(items []any) (string, error) {
	children := make([]string, len(items))
	for i, item := range items {
		child, err := Encode(item)
		if err != nil {
			return "", fmt.Errorf("list item %d: %w", i, err)
		}
		children[i] = child
	}
	raw, err := encMode.Marshal(children)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(tagList) + b64.EncodeToString(raw), nil
}

func encodeMap(m map[string]any) (string, error) {
	children := make(map[string]string, len(m))
	for k, item := range m {
		child, err := Encode(item)
		if err != nil {
			return "", fmt.Errorf("map item %q: %w", k, err)
		}
		children[k] = child
	}
	raw, err := encMode.Marshal(children)
	if err != nil {
		return "", fmt.Errorf("marshal map: %w", err)
	}
	return string(tagMap) + b64.EncodeToString(raw), nil
}

// Decode parses a plain token. Decoded values use the canonical types string,
// int64, bool, []byte, []any and map[string]any. Private tokens and anything
// malformed yield [ErrFormat].
func Decode(token string) (any, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrFormat)
	}
	if IsPrivate(token) {
		return nil, fmt.Errorf("%w: private token needs a key", ErrFormat)
	}

	payload := token[1:]
	switch token[0] {
	case tagString:
		return unescape(payload)
	case tagInt:
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad integer %q", ErrFormat, payload)
		}
		return n, nil
	case tagTrue, tagFalse:
		if payload != "" {
			return nil, fmt.Errorf("%w: trailing data after boolean", ErrFormat)
		}
		return token[0] == tagTrue, nil
	case tagBytes:
		raw, err := b64.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: bad bytes payload: %v", ErrFormat, err)
		}
		return raw, nil
	case tagList:
		return decodeList(payload)
	case tagMap:
		return decodeMap(payload)
	default:
		return nil, fmt.Errorf("%w: unknown type tag %q", ErrFormat, token[0])
	}
}

func decodeList(payload string) (any, error) {
	raw, err := b64.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: bad list payload: %v", ErrFormat, err)
	}
	var children []string
	if err := decMode.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("%w: bad list encoding: %v", ErrFormat, err)
	}
	items := make([]any, len(children))
	for i, child := range children {
		item, err := Decode(child)
		if err != nil {
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
		items[i] = item
	}
	return items, nil
}

func decodeMap(payload string) (any, error) {
	raw, err := b64.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: bad map payload: %v", ErrFormat, err)
	}
	var children map[string]string
	if err := decMode.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("%w: bad map encoding: %v", ErrFormat, err)
	}
	m := make(map[string]any, len(children))
	for k, child := range children {
		item, err := Decode(child)
		if err != nil {
			return nil, fmt.Errorf("map item %q: %w", k, err)
		}
		m[k] = item
	}
	return m, nil
}

// escape percent-encodes every byte that is not safe in an INI value.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		edge := (i == 0 || i == len(s)-1) && c == ' '
		if edge || needsEscape(c) {
			b.WriteByte('%')
			b.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func needsEscape(c byte) bool {
	if c < 0x20 || c >= 0x7f {
		return true
	}
	return strings.IndexByte("%#;\"'`\\", c) >= 0
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		if i+3 > len(s) {
			return "", fmt.Errorf("%w: truncated escape in string", ErrFormat)
		}
		decoded, err := hex.DecodeString(s[i+1 : i+3])
		if err != nil {
			return "", fmt.Errorf("%w: bad escape %q", ErrFormat, s[i:i+3])
		}
		b.WriteByte(decoded[0])
		i += 2
	}
	return b.String(), nil
}
