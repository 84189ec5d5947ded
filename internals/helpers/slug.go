package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const defaultSlugLen = 100

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Slugify turns free text into [a-z0-9-], folding diacritics (é → e).
// Empty results fall back to "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = defaultSlugLen
	}
	var b strings.Builder
	for _, r := range norm.NFD.String(strings.ToLower(strings.TrimSpace(s))) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	out := reNonAlnum.ReplaceAllString(b.String(), "-")
	out = strings.Trim(reHyphen.ReplaceAllString(out, "-"), "-")
	if len(out) > maxLen {
		out = strings.Trim(out[:maxLen], "-")
	}
	if out == "" {
		return "item"
	}
	return out
}

// UniqueSlug appends -2, -3, ... to base until exists reports false.
func UniqueSlug(ctx context.Context, base string, maxLen int, exists func(context.Context, string) (bool, error)) (string, error) {
	if maxLen <= 0 {
		maxLen = defaultSlugLen
	}
	slug := base
	for i := 2; i < 50; i++ {
		taken, err := exists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		slug = trimForSuffix(base, suffix, maxLen) + suffix
	}
	return "", fmt.Errorf("no free slug for %q", base)
}

func trimForSuffix(base, suffix string, maxLen int) string {
	keep := maxLen - len(suffix)
	if keep < 1 {
		return "x"
	}
	if len(base) > keep {
		base = base[:keep]
	}
	if base = strings.Trim(base, "-"); base == "" {
		return "x"
	}
	return base
}
