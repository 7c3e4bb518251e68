// Package domain defines core data models, error kinds and collaborator
// contracts shared across fishcrypt. It contains plain types (wire/state)
// and interfaces only; the types and interfaces subpackages hold the
// definitions and this package re-exports them under short names.
package domain
