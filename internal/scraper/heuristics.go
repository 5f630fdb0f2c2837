package scraper

import (
	"crypto/sha1"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// knownTechnologies is the vocabulary used for best-effort technology
// tagging of free-text descriptions. Matching is case-insensitive and
// word-bounded so "go" does not match "google".
var knownTechnologies = []string{
	"python", "go", "golang", "java", "javascript", "typescript", "ruby",
	"rust", "php", "kotlin", "swift", "scala", "elixir", "c++", "c#",
	"react", "vue", "angular", "node", "django", "flask", "rails", "spring",
	"postgresql", "postgres", "mysql", "mongodb", "redis", "kafka",
	"docker", "kubernetes", "terraform", "aws", "gcp", "azure",
	"graphql", "grpc", "linux", "git",
}

var remoteMarkers = []string{
	"remote", "remoto", "work from home", "home office", "anywhere",
	"fully distributed",
}

// salaryRangePattern matches ranges like "$70k - $90k", "70,000-90,000 USD"
// or "R$ 8.000 a R$ 12.000".
var salaryRangePattern = regexp.MustCompile(
	`(?i)(?:\$|r\$|€|£|usd|brl|eur)?\s*(\d{1,3}(?:[.,]\d{3})+|\d{2,7})\s*(k)?\s*(?:-|–|to|a|até)\s*(?:\$|r\$|€|£|usd|brl|eur)?\s*(\d{1,3}(?:[.,]\d{3})+|\d{2,7})\s*(k)?`,
)

// ExternalID derives a stable, globally unique id for sources without a
// native one: a sha1 of the platform name and the canonicalized URL.
func ExternalID(platform, rawURL string) string {
	canonical := canonicalURL(rawURL)
	sum := sha1.Sum([]byte(platform + "|" + canonical))
	return fmt.Sprintf("%x", sum)
}

func canonicalURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return strings.TrimSpace(rawURL)
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}

// DetectRemote reports whether the combined text looks like a remote offer.
func DetectRemote(texts ...string) bool {
	combined := strings.ToLower(strings.Join(texts, " "))
	for _, marker := range remoteMarkers {
		if strings.Contains(combined, marker) {
			return true
		}
	}
	return false
}

// ExtractSalaryRange pulls a numeric salary range out of free text. Both
// values are zero when no recognizable range is present; a guessed value is
// never returned.
func ExtractSalaryRange(text string) (min, max int) {
	groups := salaryRangePattern.FindStringSubmatch(text)
	if groups == nil {
		return 0, 0
	}

	min = parseAmount(groups[1], groups[2] != "")
	max = parseAmount(groups[3], groups[4] != "")
	if min == 0 || max == 0 || max < min {
		return 0, 0
	}
	return min, max
}

func parseAmount(raw string, thousands bool) int {
	cleaned := strings.NewReplacer(".", "", ",", "").Replace(raw)
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	if thousands {
		n *= 1000
	}
	return n
}

// ExtractTechnologies tags the text with every known technology it mentions.
func ExtractTechnologies(text string) []string {
	lower := strings.ToLower(text)
	tokens := tokenize(lower)

	var found []string
	for _, tech := range knownTechnologies {
		if strings.ContainsAny(tech, "+#") {
			// Word boundaries do not work for c++ / c#.
			if strings.Contains(lower, tech) {
				found = append(found, tech)
			}
			continue
		}
		if _, ok := tokens[tech]; ok {
			found = append(found, tech)
		}
	}
	return found
}

func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '+' || r == '#')
	}) {
		tokens[tok] = struct{}{}
	}
	return tokens
}
