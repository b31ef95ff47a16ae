package approval

import (
	"strings"
	"unicode"
)

// ParseTeamSlugs splits the comma separated team input into normalized,
// de-duplicated slugs. Empty entries are dropped.
func ParseTeamSlugs(raw string) []string {
	seen := make(map[string]struct{})
	slugs := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		slug := NormalizeTeamSlug(part)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		slugs = append(slugs, slug)
	}
	return slugs
}

// NormalizeTeamSlug turns a team name as typed in a workflow file into the
// slug GitHub uses: lower case, whitespace and path separators become
// hyphens, runs of hyphens collapse. Normalizing a slug returns it unchanged.
func NormalizeTeamSlug(s string) string {
	var sb strings.Builder
	lastHyphen := false
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsSpace(r) || r == '/' || r == '\\' || r == '-' {
			if !lastHyphen {
				sb.WriteRune('-')
				lastHyphen = true
			}
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
		lastHyphen = false
	}
	return strings.Trim(sb.String(), "-")
}
