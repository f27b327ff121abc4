// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides schema-validated parsing of CUE documents into Go
// values. Callers embed a CUE schema, name its root definition, and get back
// a decoded struct or an error that points at the offending field.
package cueutil
