// Package report collects and renders the outcome of validating artifacts.
//
// # Core Concepts
//
//   - [Severity]: Distinguishes invalid data from broken validators.
//   - [Issue]: One failed artifact, with the validator and plugin involved.
//   - [Result]: Aggregates issues for a run and provides helper methods.
//   - [Reporter]: Writes a Result as colored text or JSON.
//
// # Basic Usage
//
//	result := report.NewResult(runID, "max")
//	result.Record(path, typ, manager.ValidateFile(ctx, typ, path, level))
//
//	if result.HasFaults() {
//		// a plugin is broken
//	}
package report
