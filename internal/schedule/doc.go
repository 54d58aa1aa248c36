// Package schedule implements the scheduling core: natural-language date
// and time resolution, free-slot search over busy intervals, fuzzy event
// lookup by name and date, and the confirmation gateway that guards every
// mutating calendar operation.
//
// The package is backend-agnostic. All calendar access goes through the
// narrow Backend interface, and all time arithmetic is anchored to a
// single configured target timezone. "Now" is always an explicit
// parameter so that weekday math and slot search stay deterministic and
// testable; only the outermost tool layer reads the wall clock.
package schedule
