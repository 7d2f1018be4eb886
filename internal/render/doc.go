// Package render loads named HTML templates from a file system and renders
// them with a context. Templates are read on every call, so edits on disk
// are picked up without a restart. Every failure is reported as a
// *TemplateRenderingError.
package render
