// Copyright 2025 Poiesic Systems
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


package ingest

import "errors"

var (
	// ErrSourceRequired indicates a nil source store was provided.
	ErrSourceRequired = errors.New("source store is required")

	// ErrIndexRequired indicates a nil index store was provided.
	ErrIndexRequired = errors.New("index store is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrListSources indicates the source file listing itself failed.
	// This is the only fatal condition of a sync pass.
	ErrListSources = errors.New("listing source files failed")
)
