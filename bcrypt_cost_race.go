//go:build race

package authgate

import "golang.org/x/crypto/bcrypt"

func passwordHashCost() int {
	// race-enabled builds use the cheap cost so the suite fits its timeout
	return bcrypt.DefaultCost
}
