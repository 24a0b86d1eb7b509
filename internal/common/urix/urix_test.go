package urix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergePath(t *testing.T) {
	base := MustParse("https://www.example.com/foo/")

	got := MergePath(base, "/baz", nil)

	assert.Equal(t, "https://www.example.com/foo/baz", got.String())
	assert.Equal(t, "/foo/", base.Path, "base must not be mutated")
}

func TestMergePath_InterpolatesParameters(t *testing.T) {
	base := MustParse("https://www.example.com/{foo}/")

	got := MergePath(base, "/{baz}", map[string]string{"foo": "baz", "baz": "foo"})

	assert.Equal(t, "https://www.example.com/baz/foo", got.String())
}

func TestInterpolatePathParameters(t *testing.T) {
	tests := []struct {
		path   string
		params map[string]string
		want   string
	}{
		{"/{foo}/{baz}", map[string]string{"foo": "baz", "baz": "foo"}, "/baz/foo"},
		{"/repos/github/{owner}/{name}", map[string]string{"owner": "foo", "name": "baz"}, "/repos/github/foo/baz"},
		{"/{missing}/x", map[string]string{}, "//x"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InterpolatePathParameters(tt.path, tt.params), tt.path)
	}
}

func TestMergeQueryParams(t *testing.T) {
	base := MustParse("https://www.example.com/?foo=baz")

	got := MergeQueryParams(base, map[string]string{"baz": "foo"})

	assert.Equal(t, "baz", got.Query().Get("foo"))
	assert.Equal(t, "foo", got.Query().Get("baz"))
	assert.Equal(t, "foo=baz", base.RawQuery)
}

func TestMergeQueryParams_EncodesSlug(t *testing.T) {
	base := MustParse("https://api.codeclimate.com/v1/repos")

	got := MergeQueryParams(base, map[string]string{"github_slug": "foo/baz"})

	assert.Equal(t, "github_slug=foo%2Fbaz", got.RawQuery)
}
