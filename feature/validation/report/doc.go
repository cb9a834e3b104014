// Package report renders comparison results.
//
// Text is the full human-readable report with every missing key and every
// differing field; Compact only lists inconsistent tables. JSON and XLSX are
// machine-readable renderings of the same results, and Trend summarises
// stored history per table.
//
// All renderers are deterministic: tables keep the order of the results,
// difference keys sort numerically when they are integers and fields sort by
// name.
package report
