// Package validation wraps go-playground/validator for struct-tag
// validation of configuration. Failures are returned as
// errors.InvalidInput with one message per failed field.
package validation
