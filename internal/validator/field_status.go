package validator

// FieldValidationStatus is the display state of one field.
type FieldValidationStatus string

const (
	FieldStatusValid   FieldValidationStatus = "valid"
	FieldStatusInvalid FieldValidationStatus = "invalid"
	FieldStatusUnsure  FieldValidationStatus = "unsure"
)

// FieldStatus represents the computed validation state for a single field path.
type FieldStatus struct {
	Status   FieldValidationStatus `json:"status"`
	Messages []string              `json:"messages"`
}

// Entry pairs a validation result with its rule's severity.
type Entry struct {
	Result
	Severity Severity
}

// ComputeFieldStatuses derives per-field statuses from rule results. A failed
// error rule marks the field invalid; a failed warning marks it unsure unless
// it is already invalid.
func ComputeFieldStatuses(entries []Entry) map[string]*FieldStatus {
	statuses := make(map[string]*FieldStatus)
	for _, e := range entries {
		fs, ok := statuses[e.FieldPath]
		if !ok {
			fs = &FieldStatus{Status: FieldStatusValid, Messages: []string{}}
			statuses[e.FieldPath] = fs
		}
		if e.Passed {
			continue
		}
		if e.Severity == SeverityError {
			fs.Status = FieldStatusInvalid
		} else if fs.Status != FieldStatusInvalid {
			fs.Status = FieldStatusUnsure
		}
		fs.Messages = append(fs.Messages, e.Message)
	}
	return statuses
}
