package rewrite

// IndexFold returns the index of the first ASCII case-insensitive occurrence
// of sep in s, or -1. Markers are plain ASCII, so no Unicode folding is
// needed; this keeps the per-chunk scan allocation-free.
func IndexFold(s, sep []byte) int {
	if len(sep) == 0 {
		return 0
	}
	if len(s) < len(sep) {
		return -1
	}

	first := lowerASCII(sep[0])
	for i := 0; i+len(sep) <= len(s); i++ {
		if lowerASCII(s[i]) != first {
			continue
		}
		j := 1
		for j < len(sep) && lowerASCII(s[i+j]) == lowerASCII(sep[j]) {
			j++
		}
		if j == len(sep) {
			return i
		}
	}
	return -1
}

func lowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
