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

// Package ginerrors renders errors, panics and 405 responses for
// gin-gonic/gin engines.
//
// # Basic Usage
//
//	engine := gin.New()
//	ginerrors.New(ginerrors.WithRenderer(renderer)).Register(engine)
//
//	engine.GET("/users/:id", func(c *gin.Context) {
//		if err := loadUser(c); err != nil {
//			_ = c.Error(err) // rendered by the Errors middleware
//		}
//	})
//
// Register enables HandleMethodNotAllowed, installs the panic recovery and
// the error middleware, and sets the NoMethod handler. Call it before
// registering routes, since gin fixes a route's middleware when it is added.
package ginerrors
