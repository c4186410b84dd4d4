package utils

import (
	"fmt"
)

func Pluralize(num int, thing string) string {
	if num == 1 {
		return fmt.Sprintf("%d %s", num, thing)
	}

	return fmt.Sprintf("%d %ss", num, thing)
}

func Contains[T comparable](values []T, value T) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}

	return false
}
