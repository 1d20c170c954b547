// Package errors provides the classified error type used across tocer.
//
// Every fatal condition of a synchronization pass is reported as a
// ClassifiedError carrying a category (filesystem, parse, execution, ...),
// a severity and structured context such as the offending path. The CLI
// adapter turns the category into a process exit code.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "failed to rename document").
//		WithContext("old_path", oldPath).
//		WithContext("new_path", newPath).
//		Build()
package errors
