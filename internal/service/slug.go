package service

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// slugAlphabet is the 52-letter alphabet slugs are drawn from. Digits and
// punctuation are excluded so a slug is always distinguishable from a path
// segment with meaning of its own.
const slugAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newSlug returns a random string of exactly length characters drawn
// uniformly from slugAlphabet. Uniqueness is the caller's problem.
func newSlug(length int) (string, error) {
	return gonanoid.Generate(slugAlphabet, length)
}
