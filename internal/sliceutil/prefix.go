// Package sliceutil holds generic slice helpers.
package sliceutil

// CommonPrefixLen reports the length of the longest prefix
// shared by a and b, comparing elements with eq.
//
// The slices may hold different types.
func CommonPrefixLen[A, B any](a []A, b []B, eq func(A, B) bool) int {
	n := 0
	for n < len(a) && n < len(b) && eq(a[n], b[n]) {
		n++
	}
	return n
}
