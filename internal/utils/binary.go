package utils

import (
	"bytes"
	"unicode/utf8"
)

// binarySniffLength bounds the number of bytes inspected when classifying content.
const binarySniffLength = 8000

// IsBinary reports whether the provided bytes look like binary rather than text.
// A NUL byte or invalid UTF-8 inside the sniff window classifies the data as binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	sniffWindow := data
	if len(sniffWindow) > binarySniffLength {
		sniffWindow = sniffWindow[:binarySniffLength]
	}
	if bytes.IndexByte(sniffWindow, 0) >= 0 {
		return true
	}
	return !utf8.Valid(trimIncompleteRune(sniffWindow))
}

// trimIncompleteRune drops a multi-byte rune cut off by the sniff window so the
// tail of a valid UTF-8 file is not misclassified.
func trimIncompleteRune(data []byte) []byte {
	trimmed := data
	for trailingIndex := 0; trailingIndex < utf8.UTFMax && len(trimmed) > 0; trailingIndex++ {
		lastByte := trimmed[len(trimmed)-1]
		if lastByte < utf8.RuneSelf {
			break
		}
		trimmed = trimmed[:len(trimmed)-1]
		if lastByte&0xC0 == 0xC0 {
			break
		}
	}
	if utf8.Valid(trimmed) {
		return trimmed
	}
	return data
}
