package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Crémerie", "cremerie"},
		{"pâtisserie  ARTISANALE", "patisserie artisanale"},
		{"  café \t crème ", "cafe creme"},
		{"noël", "noel"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Fold(tc.in), "Fold(%q)", tc.in)
	}
}

func TestFoldIsIdempotent(t *testing.T) {
	for _, s := range []string{"Crémerie", "épicerie fine", "déjà vu"} {
		once := Fold(s)
		assert.Equal(t, once, Fold(once))
	}
}
