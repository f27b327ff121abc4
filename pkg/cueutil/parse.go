// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultMaxFileSize is the largest document Parse accepts (5MB). The limit
// exists so a runaway file cannot exhaust memory during compilation.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	parseOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
	}

	// Option configures parsing behavior.
	Option func(*parseOptions)
)

// WithMaxFileSize overrides the maximum accepted document size.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) {
		o.maxFileSize = size
	}
}

// WithConcrete sets whether every value must be concrete after unification.
// Default is true. Set to false for documents where optional fields may stay
// unset.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) {
		o.concrete = concrete
	}
}

// WithFilename sets the filename shown in error messages.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}

// Parse runs the three-step CUE flow and decodes the result into T:
//
//  1. compile the embedded schema and look up its root definition
//  2. compile the user document and unify it with the schema root
//  3. validate the unified value and decode it
//
// schemaRoot names the definition inside the schema to unify against,
// e.g. "#Topology" or "#Config".
func Parse[T any](schema string, data []byte, schemaRoot string, opts ...Option) (*T, error) {
	options := parseOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if int64(len(data)) > options.maxFileSize {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), options.maxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	root := schemaValue.LookupPath(cue.ParsePath(schemaRoot))
	if root.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaRoot, root.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	unified := root.Unify(userValue)
	if options.concrete {
		if err := unified.Validate(cue.Concrete(true)); err != nil {
			return nil, FormatError(err, filename)
		}
	} else if err := unified.Validate(); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &result, nil
}
