package backend

import "github.com/poiesic/relevit/core"

// FilterClauses renders the optional event filters as filter-context
// clauses: term queries for country and exact year, range queries for the
// year and attendance bounds. Zero values are unset and produce nothing.
func FilterClauses(filters core.Filters) []Query {
	var clauses []Query
	if filters.Country != "" {
		clauses = append(clauses, TermQuery{Field: "country", Value: filters.Country})
	}
	if filters.Year != 0 {
		clauses = append(clauses, TermQuery{Field: "year", Value: filters.Year})
	}
	if filters.YearFrom != 0 || filters.YearTo != 0 {
		rq := RangeQuery{Field: "year"}
		if filters.YearFrom != 0 {
			rq.GTE = filters.YearFrom
		}
		if filters.YearTo != 0 {
			rq.LTE = filters.YearTo
		}
		clauses = append(clauses, rq)
	}
	if filters.MinAttendance != 0 || filters.MaxAttendance != 0 {
		rq := RangeQuery{Field: "event_count"}
		if filters.MinAttendance != 0 {
			rq.GTE = filters.MinAttendance
		}
		if filters.MaxAttendance != 0 {
			rq.LTE = filters.MaxAttendance
		}
		clauses = append(clauses, rq)
	}
	return clauses
}
