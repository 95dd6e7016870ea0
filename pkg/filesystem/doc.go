// Package filesystem provides the file primitives used by the edit workflow.
//
// FS abstracts the handful of operations the workflow performs so tests can
// inject failures. The helpers in this package build on FS: exclusive
// creation of randomly named staging files next to their targets, copying
// a seed file while preserving its permission bits, and creating missing
// parent directories with security labels applied.
package filesystem
