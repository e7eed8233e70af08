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

package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/consul/api"

	"rivaas.dev/errorpages/config/codec"
)

// ConsulKV is the part of the consul KV API the source needs.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul reads one consul key. A document key (json, yaml, toml) is decoded
// into a map. A key read with a [codec.Scalar] yields a single setting whose
// dotted name is the key path below the first segment, so
// "errorpages/display/details" sets display.details.
type Consul struct {
	kv      ConsulKV
	path    string
	decoder codec.Decoder
}

// NewConsul returns a source for path. When kv is nil a client is built from
// the standard CONSUL_HTTP_ADDR environment.
func NewConsul(path string, decoder codec.Decoder, kv ConsulKV) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}

	return &Consul{kv: kv, path: path, decoder: decoder}, nil
}

// Load implements config.Source. A missing key yields no values.
func (c *Consul) Load(ctx context.Context) (map[string]any, error) {
	pair, _, err := c.kv.Get(c.path, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to get consul key %q: %w", c.path, err)
	}
	if pair == nil {
		return map[string]any{}, nil
	}

	if scalar, ok := c.decoder.(*codec.Scalar); ok {
		var val any
		if err = scalar.Decode(pair.Value, &val); err != nil {
			return nil, fmt.Errorf("failed to decode consul key %q: %w", pair.Key, err)
		}
		return nestScalar(pair.Key, val), nil
	}

	var conf map[string]any
	if err = c.decoder.Decode(pair.Value, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode consul key %q: %w", pair.Key, err)
	}
	if conf == nil {
		conf = map[string]any{}
	}

	return conf, nil
}

func nestScalar(key string, val any) map[string]any {
	segments := strings.Split(strings.Trim(key, "/"), "/")
	if len(segments) > 1 {
		segments = segments[1:]
	}

	out := map[string]any{}
	m := out
	for _, segment := range segments[:len(segments)-1] {
		next := map[string]any{}
		m[segment] = next
		m = next
	}
	m[segments[len(segments)-1]] = val

	return out
}
