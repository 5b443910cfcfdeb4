package process

import "strings"

// SchemaError is fatal: the batch is rejected before any record is processed.
// It lists every missing column, not just the first.
type SchemaError struct {
	MissingColumns []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.MissingColumns, ", ")
}

// ValidateSchema checks the declared header against the required column set.
// Matching is exact and case-sensitive; extra columns are ignored here and
// preserved for reporting.
func ValidateSchema(required, header []string) error {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[col] = true
	}

	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{MissingColumns: missing}
	}
	return nil
}
