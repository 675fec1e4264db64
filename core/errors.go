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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidSourceFile indicates a SourceFile failed validation.
	ErrInvalidSourceFile = errors.New("invalid source file")

	// ErrEmptyFileID indicates the file ID field is empty.
	ErrEmptyFileID = errors.New("file id cannot be empty")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptyChunkText indicates the chunk Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrNegativeChunkSeq indicates a chunk sequence index below zero.
	ErrNegativeChunkSeq = errors.New("chunk sequence index cannot be negative")

	// ErrInvalidSeverity indicates an invalid Severity value.
	ErrInvalidSeverity = errors.New("invalid severity")
)
