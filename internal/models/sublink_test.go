package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSubLink(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
		uuid    string
		subID   string
		want    string
	}{
		{"empty pattern", "", "u1", "s1", ""},
		{"subId pattern", "https://p.example.com/sub/{subId}", "u1", "s1", "https://p.example.com/sub/s1"},
		{"uuid pattern", "https://p.example.com/cfg/{uuid}", "u1", "", "https://p.example.com/cfg/u1"},
		{"both placeholders", "https://p.example.com/{uuid}/{subId}", "u1", "s1", "https://p.example.com/u1/s1"},
		{"subId pattern without subId", "https://p.example.com/sub/{subId}", "u1", "", ""},
		{"case variants", "https://p.example.com/{UUID}/{SUBID}", "u1", "s1", "https://p.example.com/u1/s1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildSubLink(tc.pattern, tc.uuid, tc.subID))
		})
	}
}
