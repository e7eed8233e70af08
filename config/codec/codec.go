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
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Type names a registered format, for example "yaml".
type Type string

// ErrUnknownType is returned when no codec is registered for a [Type].
var ErrUnknownType = errors.New("codec: unknown type")

// Encoder converts a value into bytes.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder converts bytes into the value pointed to by v. Map decoders expect
// v to be a *map[string]any.
type Decoder interface {
	Decode(data []byte, v any) error
}

var (
	mu       sync.RWMutex
	encoders = map[Type]Encoder{}
	decoders = map[Type]Decoder{}
)

// RegisterEncoder makes an encoder available under name, replacing any
// previous registration.
func RegisterEncoder(name Type, enc Encoder) {
	mu.Lock()
	defer mu.Unlock()
	encoders[name] = enc
}

// RegisterDecoder makes a decoder available under name, replacing any
// previous registration.
func RegisterDecoder(name Type, dec Decoder) {
	mu.Lock()
	defer mu.Unlock()
	decoders[name] = dec
}

// GetEncoder returns the encoder registered under name.
func GetEncoder(name Type) (Encoder, error) {
	mu.RLock()
	defer mu.RUnlock()

	enc, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: no encoder for %q", ErrUnknownType, name)
	}

	return enc, nil
}

// GetDecoder returns the decoder registered under name.
func GetDecoder(name Type) (Decoder, error) {
	mu.RLock()
	defer mu.RUnlock()

	dec, ok := decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %q", ErrUnknownType, name)
	}

	return dec, nil
}

// EncoderTypes lists the registered encoder names in sorted order.
func EncoderTypes() []Type {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]Type, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}
