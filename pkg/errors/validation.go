package errors

import (
	"strings"
	"unicode"
)

// smilesCharset holds every byte that may legally appear in a SMILES
// string. Validation here is a cheap pre-filter for untrusted input;
// full syntax checking is done by the parser.
const smilesCharset = "ABCDEFGHIKLMNOPRSTUVWXYZ" +
	"abcdefghiklmnoprstuvy" +
	"0123456789" +
	"[]()=#-+@/\\%.:*~$"

// ValidateSMILES performs a conservative surface check of a SMILES input
// before it reaches the parser.
//
// The validation rules are intentionally conservative:
//   - No empty inputs
//   - No control characters or whitespace
//   - Only characters from the SMILES alphabet
//   - Maximum length of 10000 characters
func ValidateSMILES(input string) error {
	if input == "" {
		return New(ErrCodeInvalidSMILES, "SMILES input cannot be empty")
	}

	const maxSMILESLength = 10000
	if len(input) > maxSMILESLength {
		return New(ErrCodeInvalidSMILES, "SMILES input too long (max %d characters)", maxSMILESLength)
	}

	for _, r := range input {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSMILES, "SMILES input contains whitespace or control characters")
		}
		if r > 127 || !strings.ContainsRune(smilesCharset, r) {
			return New(ErrCodeInvalidSMILES, "SMILES input contains invalid character %q", r)
		}
	}

	return nil
}

// ValidateOutputFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateOutputFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "output filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "output filename cannot contain path separators")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidInput, "output filename cannot be a hidden file")
	}

	return nil
}

// ValidatePath validates a file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}
