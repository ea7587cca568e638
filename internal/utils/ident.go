package utils

import (
	"math/rand"

	"github.com/gosimple/slug"
)

const identCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

const maxSlugLen = 64

// NewIdentifier returns an n-char random token used as the shareable key
// for posts and comments. Collisions are caught by the unique index.
func NewIdentifier(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = identCharset[rand.Intn(len(identCharset))]
	}
	return string(b)
}

// Slugify turns a title into its URL-safe fragment. Titles that reduce
// to nothing (e.g. all symbols) fall back to a random token so the
// (identifier, slug) pair stays addressable.
func Slugify(title string) string {
	s := slug.Make(title)
	if s == "" {
		return NewIdentifier(8)
	}
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}
