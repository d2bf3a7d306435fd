package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject_Validate(t *testing.T) {
	for _, code := range []string{"VIL01", "ECOLE02", "ABC1234", "ABCDEF01", "XYZ99"} {
		p := &Project{ShortID: code, Name: "Chantier"}
		assert.NoError(t, p.Validate(), code)
	}

	cases := map[string]struct {
		p    Project
		want string
	}{
		"no code":      {Project{Name: "Villa"}, "required"},
		"lowercase":    {Project{ShortID: "vil01", Name: "Villa"}, "uppercase"},
		"too few":      {Project{ShortID: "VI01", Name: "Villa"}, "uppercase"},
		"blank name":   {Project{ShortID: "VIL01", Name: "  "}, "name is required"},
		"digits first": {Project{ShortID: "01VIL", Name: "Villa"}, "uppercase"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.p.Validate()
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tc.want)
			}
		})
	}
}

func TestNormalizeSiteCode(t *testing.T) {
	assert.Equal(t, "VIL01", NormalizeSiteCode(" vil01 "))
}

func TestDisplayID(t *testing.T) {
	assert.Equal(t, "VIL01", (&Project{ID: "0123456789", ShortID: "VIL01"}).DisplayID())
	assert.Equal(t, "01234567", (&Project{ID: "0123456789"}).DisplayID())
	assert.Equal(t, "abc", (&Project{ID: "abc"}).DisplayID())
}
