// Package validation provides struct-tag validation for configuration
// and declaration types.
//
// It wraps go-playground/validator: tag failures are collected into a
// single structured validation error listing every offending field, so a
// caller sees all problems in one pass rather than the first.
package validation
