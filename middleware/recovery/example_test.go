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

package recovery_test

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"rivaas.dev/errorpages/errors"
	"rivaas.dev/errorpages/middleware/recovery"
)

func Example() {
	renderer := errors.NewRenderer(errors.WithLogger(slog.New(slog.DiscardHandler)))

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(http.ResponseWriter, *http.Request) {
		panic("something went wrong")
	})

	handler := recovery.New(
		recovery.WithRenderer(renderer),
		recovery.WithoutLogging(),
	)(mux)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	fmt.Println(w.Code)
	fmt.Println(w.Body.String())
	// Output:
	// 500
	// {
	//   "message": "Application Runtime Error (from panic(string))"
	// }
}
