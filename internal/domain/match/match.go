// Package match implements the identifier and text comparisons used by the
// material store and the ledger. Case folding is ASCII only.
package match

// Exact reports whether two identifiers are byte-for-byte equal
func Exact(a, b string) bool {
	return a == b
}

// EqualFold reports whether a and b are equal ignoring ASCII letter case
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

// ContainsFold reports whether needle occurs in haystack ignoring ASCII
// letter case. An empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	n := len(needle)
	if n == 0 {
		return true
	}
	if n > len(haystack) {
		return false
	}
	for i := 0; i+n <= len(haystack); i++ {
		j := 0
		for j < n && lower(haystack[i+j]) == lower(needle[j]) {
			j++
		}
		if j == n {
			return true
		}
	}
	return false
}

// CompareFold compares a and b lexicographically ignoring ASCII letter case.
// It returns -1, 0 or +1.
func CompareFold(a, b string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		ca, cb := lower(a[i]), lower(b[i])
		if ca < cb {
			return -1
		}
		if ca > cb {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
