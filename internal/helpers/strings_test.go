package helpers_test

import (
	"github.com/murmur-app/murmur/internal/helpers"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestString(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    *string
		Expected string
	}{
		{
			Name:     "nil_string",
			Input:    nil,
			Expected: "",
		},
		{
			Name:     "empty_string",
			Input:    new(string),
			Expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.String(tc.Input))
		})
	}
}

func TestTruncate(t *testing.T) {
	testCases := []struct {
		Name     string
		Input    string
		Length   int
		Expected string
	}{
		{
			Name:     "shorter_than_limit",
			Input:    "short",
			Length:   10,
			Expected: "short",
		},
		{
			Name:     "exactly_at_limit",
			Input:    "0123456789",
			Length:   10,
			Expected: "0123456789",
		},
		{
			Name:     "truncated",
			Input:    "0123456789x",
			Length:   10,
			Expected: "0123456...",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, helpers.Truncate(tc.Input, tc.Length))
		})
	}
}
