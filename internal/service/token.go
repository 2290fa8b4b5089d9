package service

import (
	"crypto/rand"
	"math/big"
)

const subIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newSubID generates a random lowercase-alphanumeric subscription id of the
// given length.
func newSubID(n int) string {
	runes := make([]byte, n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(subIDAlphabet))))
		if err != nil {
			panic("crypto/rand failed: " + err.Error())
		}
		runes[i] = subIDAlphabet[idx.Int64()]
	}
	return string(runes)
}
