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

// Command errorpages previews and serves errorpages output.
//
//	errorpages render --accept application/json --message "disk full" --wrap "save order"
//	errorpages render --not-allowed GET,POST --method PUT
//	errorpages serve --addr :8080
//	errorpages config --format toml
//
// Settings come from --config, then ERRORPAGES_* variables (optionally from a
// .env file), then flags.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
