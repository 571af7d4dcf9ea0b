package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseName(t *testing.T) {
	cases := map[string]string{
		"P-100":            "P-100",
		"../../etc/passwd": "passwd",
		`..\..\boot.ini`:   "boot.ini",
		"a/b/c.jpg":        "c.jpg",
		"..":               "",
		"  ":               "",
		"/":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, BaseName(in), in)
	}
}

func TestPhotoURL(t *testing.T) {
	assert.Equal(t, "/uploads/P1/abc.jpg", PhotoURL("P1", "abc.jpg"))
	assert.Equal(t, "/uploads/P%201/a%20b.jpg", PhotoURL("P 1", "a b.jpg"))
}

func TestSafePageID(t *testing.T) {
	assert.True(t, SafePageID("P-100"))
	assert.False(t, SafePageID("../x"))
	assert.False(t, SafePageID(`a\b`))
	assert.False(t, SafePageID("a.b"))
	assert.False(t, SafePageID(""))
}
