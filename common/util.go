package common

// BytesCopy never returns nil so that empty values stay distinguishable from absent ones.
func BytesCopy(src []byte) []byte {
	dst := make([]byte, len(src))
	copy(dst, src)

	return dst
}

func LeftPadBytes(src []byte, size int) []byte {
	if len(src) >= size {
		return BytesCopy(src)
	}

	padded := make([]byte, size)
	copy(padded[size-len(src):], src)

	return padded
}
