package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_SimplePath(t *testing.T) {
	r := NewPublicURLResolver("https://example.supabase.co", "educational-files")

	got := r.Resolve("math/notes.pdf")
	assert.Equal(t, "https://example.supabase.co/storage/v1/object/public/educational-files/math/notes.pdf", got)
}

func TestResolve_TrimsSlashes(t *testing.T) {
	r := NewPublicURLResolver("https://example.supabase.co/", "educational-files")

	got := r.Resolve("/math/notes.pdf")
	assert.Equal(t, "https://example.supabase.co/storage/v1/object/public/educational-files/math/notes.pdf", got)
}

func TestResolve_EscapesSpecialCharacters(t *testing.T) {
	r := NewPublicURLResolver("https://example.supabase.co", "educational-files")

	got := r.Resolve("physics/جزوه (نسخه ۲) [نهایی].pdf")

	// The result has to be one unbroken token: no spaces, parentheses or
	// brackets that could cut the link when embedded in text.
	assert.True(t, strings.HasPrefix(got, "https://example.supabase.co/storage/v1/object/public/educational-files/physics/"))
	assert.NotContains(t, got, " ")
	assert.NotContains(t, got, "(")
	assert.NotContains(t, got, ")")
	assert.NotContains(t, got, "[")
	assert.NotContains(t, got, "]")
}

func TestResolve_PreservesSegmentStructure(t *testing.T) {
	r := NewPublicURLResolver("https://example.supabase.co", "educational-files")

	got := r.Resolve("a/b/c.pdf")
	assert.Equal(t, 3, strings.Count(strings.TrimPrefix(got, "https://example.supabase.co/storage/v1/object/public/educational-files/"), "/")+1)
}
