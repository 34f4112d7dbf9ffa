//go:build !race

package authgate

func passwordHashCost() int {
	return 14
}
