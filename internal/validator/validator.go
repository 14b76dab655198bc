package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func ValidateString(value string, minLength int, maxLength int) error {
	n := utf8.RuneCountInString(value)
	if n < minLength || n > maxLength {
		return fmt.Errorf("must contain from %d to %d characters", minLength, maxLength)
	}
	
	return nil
}

// ValidateDocumentID checks the Firestore document ID constraints.
func ValidateDocumentID(value string) error {
	if err := ValidateString(value, 1, 1500); err != nil {
		return err
	}
	
	if strings.Contains(value, "/") {
		return fmt.Errorf("must not contain '/'")
	}
	
	if value == "." || value == ".." {
		return fmt.Errorf("must not be '.' or '..'")
	}
	
	if strings.HasPrefix(value, "__") && strings.HasSuffix(value, "__") {
		return fmt.Errorf("must not match __.*__")
	}
	
	return nil
}

// ValidateDocumentPath checks that every segment of a relative document path is a valid ID.
func ValidateDocumentPath(value string) error {
	if err := ValidateString(value, 1, 6144); err != nil {
		return err
	}
	
	segments := strings.Split(strings.Trim(value, "/"), "/")
	if len(segments)%2 != 0 {
		return fmt.Errorf("must point to a document, not a collection")
	}
	
	for _, segment := range segments {
		if err := ValidateDocumentID(segment); err != nil {
			return fmt.Errorf("segment %q %w", segment, err)
		}
	}
	
	return nil
}
