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

// Package echoerrors renders errors, panics and 405 responses for
// labstack/echo.
//
// # Basic Usage
//
//	e := echo.New()
//	echoerrors.New(echoerrors.WithRenderer(renderer)).Register(e)
//
// Register sets e.HTTPErrorHandler and adds the recovery middleware.
// Errors returned by handlers render as 500 error pages. echo.HTTPError
// values below 500 keep echo's default handling, except 405, which lists
// the methods echo's router found for the path.
package echoerrors
