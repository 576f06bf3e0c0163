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
	// ErrQueryTooShort indicates an identifier query below the field's minimum length.
	ErrQueryTooShort = errors.New("query too short")

	// ErrUnknownField indicates an identifier field with no configured thresholds.
	ErrUnknownField = errors.New("unknown identifier field")

	// ErrBoostOutOfRange indicates a semantic boost outside [0, 1].
	ErrBoostOutOfRange = errors.New("semantic boost out of range")

	// ErrInvalidFilters indicates filters that cannot describe a valid range.
	ErrInvalidFilters = errors.New("invalid filters")
)
