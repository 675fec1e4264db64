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


package source

import "errors"

var (
	// ErrAuth indicates the store rejected the credentials or session.
	ErrAuth = errors.New("file store authentication failed")

	// ErrNotFound indicates the requested folder or file does not exist.
	ErrNotFound = errors.New("file store object not found")

	// ErrPermission indicates the caller is not allowed to access the object.
	ErrPermission = errors.New("file store access denied")
)
