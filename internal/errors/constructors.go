package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SitemapError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SitemapError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file is invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SitemapError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Source errors

func SourceNotFound(kind, path string) *SitemapError {
	return New(CategoryConfig, SeverityFatal, "source file not found").
		WithContext("source", kind).
		WithContext("path", path)
}

func SourceInvalid(kind, path string, cause error) *SitemapError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "source file is invalid").
		WithContext("source", kind).
		WithContext("path", path)
}

// Template errors

func TemplateInvalid(document string, cause error) *SitemapError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template document is invalid").
		WithContext("document", document)
}

func TemplateApply(template, nodeID string, cause error) *SitemapError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template could not be applied").
		WithContext("template", template).
		WithContext("node", nodeID)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *SitemapError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func ArtifactWriteFailed(path string, cause error) *SitemapError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "artifact write failed").
		WithContext("path", path)
}

// Post-write side channels

func HistoryError(operation string, cause error) *SitemapError {
	return Wrap(cause, CategoryHistory, SeverityWarning, "build history operation failed").
		WithContext("operation", operation)
}

func NotifyError(subject string, cause error) *SitemapError {
	return Wrap(cause, CategoryNotify, SeverityWarning, "build notification failed").
		WithContext("subject", subject)
}

// Internal errors

func InternalError(message string, cause error) *SitemapError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
