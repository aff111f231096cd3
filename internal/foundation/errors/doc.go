// Package errors provides the classified error type used across recipefeed.
//
// Every error that crosses a package boundary (config loading, cache backends,
// the remote client, HTTP and CLI adapters) is a ClassifiedError built with the
// fluent ErrorBuilder:
//
//	err := errors.NewError(errors.CategoryCache, "cache write failed").
//		WithContext("kind", kind.String()).
//		Retryable().
//		Build()
//
// The HTTP and CLI adapters turn a category into a status code or exit code.
// Fetch outcomes are not errors: the fetch pipeline converts every failure into
// an outcome.Outcome and nothing classified leaks past it.
package errors
