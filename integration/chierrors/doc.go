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

// Package chierrors renders errors, panics and 405 responses for
// go-chi/chi routers.
//
// # Basic Usage
//
//	r := chi.NewRouter()
//	errs := chierrors.New(chierrors.WithRenderer(renderer))
//	errs.Mount(r) // before any route is registered
//
//	r.Get("/users/{id}", errs.Handle(func(w http.ResponseWriter, r *http.Request) error {
//		return loadUser(w, r)
//	}))
//
// Mount installs the recovery middleware and a MethodNotAllowed handler that
// computes the Allow header by matching the request path against every
// standard method.
package chierrors
