package enums

import "fmt"

// SubmissionStatus records how one store's order request ended.
type SubmissionStatus string

const (
	// SubmissionStatusCreated means the order API answered 201.
	SubmissionStatusCreated SubmissionStatus = "created"
	// SubmissionStatusRejected means the order API answered with any other status.
	SubmissionStatusRejected SubmissionStatus = "rejected"
	// SubmissionStatusFailed means no HTTP response was received.
	SubmissionStatusFailed SubmissionStatus = "failed"
)

var validSubmissionStatuses = []SubmissionStatus{
	SubmissionStatusCreated,
	SubmissionStatusRejected,
	SubmissionStatusFailed,
}

// String implements fmt.Stringer.
func (s SubmissionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SubmissionStatus) IsValid() bool {
	for _, candidate := range validSubmissionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionStatus converts raw input into a SubmissionStatus.
func ParseSubmissionStatus(value string) (SubmissionStatus, error) {
	for _, candidate := range validSubmissionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission status %q", value)
}
