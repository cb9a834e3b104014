// Package checks contains structural checks run alongside data comparison.
//
// CheckSchema detects schema drift: columns that exist on only one of the two
// sources. Data comparison only looks at the union of fields present in the
// fetched rows, so a column dropped on one side surfaces there as a field
// difference on every row; the schema check names the cause directly.
package checks
