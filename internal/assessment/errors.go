package assessment

import (
	dErrors "htb-gateway/pkg/domain-errors"
)

// Error kinds surfaced by Assess. Each maps onto a domain error code so the
// transport layer can pick a status without knowing about assessments.
const (
	// CodeInputValidation: a required field is missing or malformed. Raised
	// before any rule runs.
	CodeInputValidation = dErrors.CodeValidation
	// CodeExternalDependency: the credit bureau failed. Not retried.
	CodeExternalDependency = dErrors.CodeDependencyDown
	// CodeComputation: an arithmetic edge case the rules cannot evaluate.
	CodeComputation = dErrors.CodeComputation
)

func inputError(msg string) error {
	return dErrors.New(CodeInputValidation, msg)
}

func computationError(msg string) error {
	return dErrors.New(CodeComputation, msg)
}

// IsInputValidation reports whether err rejected the application's input.
func IsInputValidation(err error) bool { return dErrors.HasCode(err, CodeInputValidation) }

// IsExternalDependency reports whether err came from a collaborator.
func IsExternalDependency(err error) bool { return dErrors.HasCode(err, CodeExternalDependency) }

// IsComputation reports whether err is an arithmetic guard.
func IsComputation(err error) bool { return dErrors.HasCode(err, CodeComputation) }
