// Package errors provides the classified error type used across blogindex.
//
// Pipeline packages return plain sentinel errors. The aggregation boundary
// wraps them into a ClassifiedError that records the category, the failing
// post and the stage; the CLI adapter turns the category into an exit code.
//
//	err := errors.WrapError(cause, errors.CategoryFrontMatter, "front matter could not be parsed").
//		WithFile(path).
//		WithStage("parse_front_matter").
//		UserAction().
//		Build()
package errors
