package airtable

import "time"

// Fields is a record's field map, keyed by Airtable field name
type Fields map[string]any

// Record is a single Airtable record
type Record struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      Fields    `json:"fields"`
}

// RecordList is the response to a list/query request
type RecordList struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// ListOptions narrows a list request
type ListOptions struct {
	// FilterByFormula restricts results to records matching an Airtable
	// formula. Build equality filters with FormulaEq.
	FilterByFormula string

	// MaxRecords bounds the number of records returned. Zero means the
	// Airtable default.
	MaxRecords int
}

// createRequest is the body of a create-record request
type createRequest struct {
	Fields Fields `json:"fields"`
}

// BaseSchema is the Meta API description of a base
type BaseSchema struct {
	Tables []TableSchema `json:"tables"`
}

// TableSchema describes one table in a base
type TableSchema struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Fields []FieldSchema `json:"fields"`
}

// FieldSchema describes one field of a table
type FieldSchema struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table returns the schema for the named table, or nil if the base has no
// table with that exact name.
func (s *BaseSchema) Table(name string) *TableSchema {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// HasField reports whether the table has a field with the exact name
func (t *TableSchema) HasField(name string) bool {
	for _, f := range t.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}
