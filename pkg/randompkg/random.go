// Package randompkg provides functionality for generating random application items in tests and seeds.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// IntBetween generates a random integer in [min, max].
func IntBetween(min, max int64) int64 {
	return min + Intn(int(max-min+1))
}

func fromAlphabet(n int, abc string) string {
	var sb strings.Builder

	k := len(abc)

	for i := 0; i < n; i++ {
		_ = sb.WriteByte(abc[Intn(k)]) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random string of length n.
func String(n int) string {
	return fromAlphabet(n, alphabet)
}

// Owner generates a random username.
func Owner() string {
	return String(6)
}

// CustomerID generates a random SSN-like customer identifier.
func CustomerID() string {
	return fmt.Sprintf("%s-%s-%s", fromAlphabet(3, digits), fromAlphabet(2, digits), fromAlphabet(4, digits))
}

// MoneyAmountBetween generates a random amount of money in cents precision between min and max.
func MoneyAmountBetween(min, max int64) string {
	cents := IntBetween(min*100, max*100)
	return decimal.New(cents, -2).StringFixed(2)
}

// AccountType returns a random supported account type.
func AccountType() string {
	types := []string{"Checking", "Savings"}
	return types[Intn(len(types))]
}
