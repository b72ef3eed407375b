// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error types with actionable context:
// what operation failed, what resource was involved, and suggestions for
// how to fix it.
package issue
