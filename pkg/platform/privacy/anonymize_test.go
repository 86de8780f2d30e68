package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	cases := map[string]string{
		"192.168.1.47":                 "192.168.1.0",
		"10.0.0.1":                     "10.0.0.0",
		"::ffff:203.0.113.9":           "203.0.113.0",
		"2001:db8:85a3::8a2e:370:7334": "2001:db8:85a3::",
		"":                             "unknown",
		"unknown":                      "unknown",
		"not-an-ip":                    "invalid",
	}
	for in, want := range cases {
		assert.Equal(t, want, AnonymizeIP(in), "input %q", in)
	}
}
