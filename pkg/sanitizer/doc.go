// Package sanitizer normalizes free text typed by guests before it is
// validated or sent to the reservation backend.
//
// Transforms are plain func(string) string values and chain with Apply or
// Compose:
//
//	clean := sanitizer.Compose(sanitizer.StripHTML, sanitizer.SingleLine)
//	name := clean("  <b>Ana</b>\n Ruiz ")
//	// "Ana Ruiz"
//
// Sanitizers never reject input. Pair them with the validator package to
// report values that are still invalid after normalization.
package sanitizer
