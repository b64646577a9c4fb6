package utils

import (
	"strconv"
)

func IntFromString(s string, defaultValue int) int {
	atoi, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return atoi
}

func BoolFromString(s string, defaultValue bool) bool {
	parsed, err := strconv.ParseBool(s)
	if err != nil {
		return defaultValue
	}
	return parsed
}
