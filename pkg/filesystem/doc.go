// Package filesystem provides the filesystem abstraction used by the
// collaborators that touch disk (compile outputs, project init, timing
// traces, the greeting marker).
//
// Everything is backed by afero: NewOS for the real disk and NewMemory for
// tests.
package filesystem
