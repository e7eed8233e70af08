// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"fmt"

	"github.com/spf13/cast"
)

// Kind selects the Go type a [Scalar] produces.
type Kind string

// Scalar kinds.
const (
	KindString   Kind = "string"
	KindBool     Kind = "bool"
	KindInt      Kind = "int"
	KindFloat    Kind = "float64"
	KindDuration Kind = "duration"
)

// Scalar decodes a single raw value, such as a consul key, into one Go value.
type Scalar struct {
	kind Kind
}

// NewScalar returns a [Scalar] producing values of the given kind.
func NewScalar(kind Kind) *Scalar {
	return &Scalar{kind: kind}
}

// Kind reports the kind the decoder produces.
func (s *Scalar) Kind() Kind {
	return s.kind
}

// Decode implements [Decoder]. v must be a *any.
func (s *Scalar) Decode(data []byte, v any) error {
	ptr, ok := v.(*any)
	if !ok {
		return fmt.Errorf("scalar decoder: expected *any, got %T", v)
	}

	raw := string(data)
	var (
		val any
		err error
	)
	switch s.kind {
	case KindString:
		val = raw
	case KindBool:
		val, err = cast.ToBoolE(raw)
	case KindInt:
		val, err = cast.ToIntE(raw)
	case KindFloat:
		val, err = cast.ToFloat64E(raw)
	case KindDuration:
		val, err = cast.ToDurationE(raw)
	default:
		return fmt.Errorf("scalar decoder: unknown kind %q", s.kind)
	}
	if err != nil {
		return fmt.Errorf("scalar decoder: %w", err)
	}
	*ptr = val

	return nil
}
