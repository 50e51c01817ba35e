// Package sqlbuild assembles parameterized Postgres statements.
//
// Every value is bound through a positional $n placeholder. Indices are
// 1-based and contiguous in append order so callers can keep appending
// their own arguments after a builder's output.
package sqlbuild
