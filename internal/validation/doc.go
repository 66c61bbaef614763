// Package validation checks tool inputs and outputs before any work starts,
// so a bad path or a missing column fails fast with a classified error.
package validation
