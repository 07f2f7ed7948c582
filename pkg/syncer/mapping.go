package syncer

import (
	"sort"

	"github.com/shopfloor/jobsync/pkg/jobs"
)

// Mapping relates local record fields to remote sheet column names.
// Only mapped columns are ever read or written on the sheet, so columns
// outside the mapping (notes, checkboxes, other user-entered data) are
// never clobbered by a sync.
type Mapping map[string]string

// DefaultMapping maps every sync field to a sheet column of the same
// name.
func DefaultMapping() Mapping {
	m := make(Mapping, len(jobs.SyncFields()))
	for _, field := range jobs.SyncFields() {
		m[field] = field
	}
	return m
}

// KeyColumn returns the sheet column holding the work-order number.
func (m Mapping) KeyColumn() string {
	if col, ok := m[jobs.FieldWO]; ok {
		return col
	}
	return jobs.FieldWO
}

// Fields returns the mapped local fields in canonical order.
func (m Mapping) Fields() []string {
	fields := make([]string, 0, len(m))
	for _, field := range jobs.SyncFields() {
		if _, ok := m[field]; ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// Unknown returns the mapped local fields that are not record fields,
// sorted. Such entries can never project a value onto the sheet, so a
// typo'd field in a configured mapping would silently drop its column;
// callers should reject a mapping with unknown fields.
func (m Mapping) Unknown() []string {
	known := make(map[string]bool, len(jobs.SyncFields()))
	for _, field := range jobs.SyncFields() {
		known[field] = true
	}

	var unknown []string
	for field := range m {
		if !known[field] {
			unknown = append(unknown, field)
		}
	}
	sort.Strings(unknown)
	return unknown
}
