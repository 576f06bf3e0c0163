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

import "fmt"

// ValidateHybridQuery validates a HybridQuery according to domain rules.
//
// Validation rules:
//   - SemanticBoost must be in [0, 1]
//
// NOT validated:
//   - Text (blank text is a valid match-all request when filters are set)
//   - PageSize (non-positive values fall back to the engine default)
func ValidateHybridQuery(q HybridQuery) error {
	if q.SemanticBoost < 0 || q.SemanticBoost > 1 {
		return fmt.Errorf("%w: %v", ErrBoostOutOfRange, q.SemanticBoost)
	}
	return nil
}

// ValidateFilters validates range filters for consistency.
//
// Validation rules:
//   - YearFrom must not exceed YearTo when both are set
//   - Attendance bounds must be non-negative
//   - MinAttendance must not exceed MaxAttendance when both are set
func ValidateFilters(f Filters) error {
	if f.YearFrom != 0 && f.YearTo != 0 && f.YearFrom > f.YearTo {
		return fmt.Errorf("%w: year range %d..%d", ErrInvalidFilters, f.YearFrom, f.YearTo)
	}
	if f.MinAttendance < 0 || f.MaxAttendance < 0 {
		return fmt.Errorf("%w: negative attendance bound", ErrInvalidFilters)
	}
	if f.MinAttendance != 0 && f.MaxAttendance != 0 && f.MinAttendance > f.MaxAttendance {
		return fmt.Errorf("%w: attendance range %d..%d", ErrInvalidFilters, f.MinAttendance, f.MaxAttendance)
	}
	return nil
}
