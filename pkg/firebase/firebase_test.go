package firebase

import (
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
)

func TestEmailClaim(t *testing.T) {
	cases := map[string]struct {
		claims map[string]interface{}
		email  string
		ok     bool
	}{
		"verified":      {map[string]interface{}{"email": "ann@example.com", "email_verified": true}, "ann@example.com", true},
		"unverified":    {map[string]interface{}{"email": "ann@example.com", "email_verified": false}, "", false},
		"flag missing":  {map[string]interface{}{"email": "ann@example.com"}, "", false},
		"flag a string": {map[string]interface{}{"email": "ann@example.com", "email_verified": "true"}, "", false},
		"empty email":   {map[string]interface{}{"email": "", "email_verified": true}, "", false},
		"no claims":     {nil, "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			email, ok := EmailClaim(&auth.Token{Claims: tc.claims})
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.email, email)
			}
		})
	}
}
