package project

import (
	"fmt"
	"strings"
)

// ParseStatus converts user input into a Status. Matching ignores case.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// ParseStatusFilter converts a list filter into a Status. An empty filter
// selects ACTIVE projects and "all" (returned as "") selects every project.
func ParseStatusFilter(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return StatusActive, nil
	case "all":
		return "", nil
	}
	return ParseStatus(s)
}

// ValidateKey checks that a document key can identify a record.
func ValidateKey(key DocumentKey) error {
	if strings.TrimSpace(key.ProjectID) == "" {
		return ErrInvalidInput
	}
	return nil
}

// ValidateDescriptor checks the fields the store needs to persist a descriptor.
func ValidateDescriptor(desc Descriptor) error {
	if strings.TrimSpace(desc.ID) == "" {
		return fmt.Errorf("%w: empty project id", ErrInvalidInput)
	}
	if strings.TrimSpace(desc.Name) == "" {
		return fmt.Errorf("%w: empty project name", ErrInvalidInput)
	}
	if !desc.DocumentType.Valid() {
		return fmt.Errorf("%w: document type %q", ErrInvalidInput, desc.DocumentType)
	}
	if desc.Path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidInput)
	}
	return nil
}
