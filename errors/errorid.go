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

package errors

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDFormat names an error ID generator.
type IDFormat string

const (
	// IDFormatUUID generates random UUIDs (version 4). This is the default.
	IDFormatUUID IDFormat = "uuid"

	// IDFormatUUIDv7 generates time-ordered UUIDs (RFC 9562).
	IDFormatUUIDv7 IDFormat = "uuidv7"

	// IDFormatULID generates 26-character, lexicographically sortable ULIDs.
	IDFormatULID IDFormat = "ulid"
)

// ErrInvalidIDFormat is returned for an unknown error ID format.
var ErrInvalidIDFormat = errors.New("invalid error id format")

// ParseIDFormat parses a case-insensitive format name. An empty name yields
// [IDFormatUUID].
func ParseIDFormat(s string) (IDFormat, error) {
	switch f := IDFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return IDFormatUUID, nil
	case IDFormatUUID, IDFormatUUIDv7, IDFormatULID:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidIDFormat, s)
	}
}

// Generator returns the ID generator for the format. Unknown formats fall
// back to random UUIDs.
func (f IDFormat) Generator() func() string {
	switch f {
	case IDFormatUUIDv7:
		return newUUIDv7
	case IDFormatULID:
		return newULID
	default:
		return uuid.NewString
	}
}

func newUUIDv7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Monotonic entropy keeps ULIDs ordered within the same millisecond.
var (
	ulidEntropy     = ulid.Monotonic(rand.Reader, 0)
	ulidEntropyLock sync.Mutex
)

func newULID() string {
	ulidEntropyLock.Lock()
	defer ulidEntropyLock.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), ulidEntropy).String()
}

// WithErrorIDFormat enables error IDs produced by the format's generator.
//
// Example:
//
//	errors.NewRenderer(errors.WithErrorIDFormat(errors.IDFormatULID))
func WithErrorIDFormat(format IDFormat) Option {
	return WithErrorIDGenerator(format.Generator())
}
