package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTarget(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "allowed set", in: "azAZ09!$&'()*+,-./:;=?@_~", expected: "azAZ09!$&'()*+,-./:;=?@_~"},
		{name: "space", in: "a b", expected: "a%20b"},
		{name: "percent", in: "%41", expected: "%2541"},
		{name: "fragment", in: "a#b", expected: "a%23b"},
		{name: "brackets", in: "[x]", expected: "%5Bx%5D"},
		{name: "multibyte", in: "ü", expected: "%C3%BC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := encodeTarget(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	_, err := encodeTarget("\xff\xfe")
	assert.ErrorIs(t, err, ErrBadURL)
}

func TestEncodeQuery(t *testing.T) {
	s := "ptr"
	var nilPtr *string

	q := encodeQuery(map[string]any{
		"z":   nil,
		"a&b": "c=d",
		"p":   &s,
		"n":   nilPtr,
		"sp":  "x y+z",
	})

	assert.Equal(t, "a%26b=c%3Dd&n=&p=ptr&sp=x%20y%2Bz&z=", q)
}

func TestLanguageIdentifier(t *testing.T) {
	assert.Equal(t, "en", languageIdentifier("en_US"))
	assert.Equal(t, "zh", languageIdentifier("zh-Hans_CN"))
	assert.Equal(t, "e", languageIdentifier("e"))
	assert.Equal(t, "", languageIdentifier(""))
}

func TestProcessLocale(t *testing.T) {
	t.Run("LC_ALL wins", func(t *testing.T) {
		t.Setenv("LC_ALL", "fr_FR.UTF-8")
		t.Setenv("LANG", "de_DE.UTF-8")
		assert.Equal(t, "fr_FR", ProcessLocale())
	})

	t.Run("LANG fallback", func(t *testing.T) {
		t.Setenv("LC_ALL", "")
		t.Setenv("LC_MESSAGES", "")
		t.Setenv("LANG", "pt_BR.UTF-8@euro")
		assert.Equal(t, "pt_BR", ProcessLocale())
	})

	t.Run("POSIX", func(t *testing.T) {
		t.Setenv("LC_ALL", "C.UTF-8")
		assert.Equal(t, "en", ProcessLocale())
	})

	t.Run("unset", func(t *testing.T) {
		t.Setenv("LC_ALL", "")
		t.Setenv("LC_MESSAGES", "")
		t.Setenv("LANG", "")
		assert.Equal(t, "en", ProcessLocale())
	})
}

func TestSignatureContent(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", MD5Hex(nil))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256Hex(nil))
	assert.Equal(t, MD5Hex([]byte("s")), DigestSignature{Secret: "s"}.Content())
	assert.Equal(t, "v", PlainSignature{Value: "v"}.Content())
}
