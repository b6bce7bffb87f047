package utils

import (
	"fmt"
)

func MustNo(err error) {
	if err != nil {
		panic(err)
	}
}

func Assertf(condition bool, format string, args ...any) {
	if !condition {
		panic("assert failed: " + fmt.Sprintf(format, args...))
	}
}

func RemoveIf[T any](elems []T, condition func(T) bool) []T {
	i := 0

	for _, elem := range elems {
		if condition(elem) {
			continue
		}
		elems[i] = elem
		i++
	}
	return elems[:i]
}
