// Package filter implements the boolean query engine behind find.
//
// A filter is a closed expression tree of Condition, And, and Or nodes,
// parsed from the tagged JSON grammar and evaluated against decrypted
// document payloads. Evaluation is pure, deterministic, and total: the
// same documents and filter always produce the same result, and malformed
// input of any shape yields false rather than an error.
package filter
