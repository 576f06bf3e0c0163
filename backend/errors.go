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


package backend

import "errors"

var (
	// ErrUnavailable indicates the backend could not be reached, timed out,
	// or reported a server-side failure.
	ErrUnavailable = errors.New("search backend unavailable")

	// ErrQueryRejected indicates the backend rejected the query as
	// malformed. This points at a programming defect, not a data condition.
	ErrQueryRejected = errors.New("search backend rejected query")
)
