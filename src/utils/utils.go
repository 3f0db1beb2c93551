package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RemoveDuplicates removes duplicate values from a slice of strings.
func RemoveDuplicates(slice []string) []string {
	seen := make(map[string]bool)
	result := []string{}

	for _, val := range slice {
		if _, ok := seen[val]; !ok {
			seen[val] = true
			result = append(result, val)
		}
	}

	return result
}

// RandomHex returns n random bytes hex-encoded; used for client credentials.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
