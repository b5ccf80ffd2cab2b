package analyzer

import (
	"strings"
	"unicode"
)

// Heuristic extraction runs against the raw search text when the model skips a
// field or the AI step fails entirely. The keyword tables are intentionally
// small; the goal is a plausible default, not coverage.

var industryTable = []struct {
	keyword string
	label   string
}{
	{"robot", "Robotics & Automation"},
	{"automation", "Robotics & Automation"},
	{"software", "Software & Technology"},
	{"saas", "Software & Technology"},
	{"cloud", "Software & Technology"},
	{"health", "Healthcare"},
	{"medical", "Healthcare"},
	{"bank", "Financial Services"},
	{"financ", "Financial Services"},
	{"insurance", "Financial Services"},
	{"marketing", "Marketing & Advertising"},
	{"advertis", "Marketing & Advertising"},
	{"education", "Education"},
	{"learning", "Education"},
	{"retail", "Retail & E-commerce"},
	{"ecommerce", "Retail & E-commerce"},
	{"e-commerce", "Retail & E-commerce"},
	{"manufactur", "Manufacturing"},
	{"logistics", "Logistics & Supply Chain"},
	{"construction", "Construction"},
	{"legal", "Legal Services"},
	{"real estate", "Real Estate"},
	{"energy", "Energy & Utilities"},
	{"consult", "Professional Services"},
}

var serviceTerms = []string{
	"consulting", "automation", "analytics", "integration", "development",
	"design", "support", "training", "hosting", "managed services",
	"maintenance", "installation", "monitoring", "security", "migration",
}

var valueTerms = []string{
	"innovation", "quality", "integrity", "sustainability", "reliability",
	"transparency", "excellence", "collaboration", "trust", "safety",
}

var audienceTable = []struct {
	keyword string
	segment string
}{
	{"enterprise", "Enterprise businesses"},
	{"small business", "Small businesses"},
	{"smb", "Small businesses"},
	{"startup", "Startups"},
	{"developer", "Developers"},
	{"manufacturer", "Manufacturers"},
	{"agencies", "Agencies"},
	{"consumer", "Consumers"},
}

// heuristicIndustry classifies the corpus into a coarse industry label.
// Returns "" when nothing matches.
func heuristicIndustry(corpus string) string {
	for _, entry := range industryTable {
		if strings.Contains(corpus, entry.keyword) {
			return entry.label
		}
	}
	return ""
}

// heuristicServices collects service terms mentioned anywhere in the corpus,
// title-cased, in table order.
func heuristicServices(corpus string) []string {
	var services []string
	for _, term := range serviceTerms {
		if strings.Contains(corpus, term) {
			services = append(services, titleCase(term))
		}
	}
	return services
}

// heuristicValues collects company-value terms mentioned in the corpus.
func heuristicValues(corpus string) []string {
	var values []string
	for _, term := range valueTerms {
		if strings.Contains(corpus, term) {
			values = append(values, titleCase(term))
		}
	}
	return values
}

// heuristicAudience maps audience keywords to named segments, deduplicated.
func heuristicAudience(corpus string) []string {
	seen := make(map[string]bool)
	var segments []string
	for _, entry := range audienceTable {
		if strings.Contains(corpus, entry.keyword) && !seen[entry.segment] {
			seen[entry.segment] = true
			segments = append(segments, entry.segment)
		}
	}
	return segments
}

// heuristicCompetitors pulls capitalized names that follow competitor-list
// markers ("competitors like X, Y", "alternatives such as X"). Best effort.
func heuristicCompetitors(rawText string) []string {
	markers := []string{"competitors like ", "competitors such as ", "competitors include ", "alternatives like ", "alternatives such as "}

	// ASCII-only folding keeps byte offsets aligned with rawText; the markers
	// are ASCII, and full Unicode lowering can change rune widths.
	lower := asciiLower(rawText)
	seen := make(map[string]bool)
	var names []string

	for _, marker := range markers {
		idx := 0
		for {
			pos := strings.Index(lower[idx:], marker)
			if pos < 0 {
				break
			}
			tail := rawText[idx+pos+len(marker):]
			for _, name := range leadingProperNouns(tail) {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
			idx += pos + len(marker)
		}
	}

	return names
}

// leadingProperNouns reads a comma/"and"-separated run of capitalized tokens
// from the start of text, stopping at the first token that is not capitalized
// or at sentence end.
func leadingProperNouns(text string) []string {
	var names []string
	for _, segment := range splitNameList(text) {
		segment = strings.TrimSpace(segment)
		if segment == "" || !startsUpper(segment) {
			break
		}
		words := strings.Fields(segment)
		kept := 0
		for _, word := range words {
			if !startsUpper(word) {
				break
			}
			kept++
		}
		names = append(names, strings.Join(words[:kept], " "))
		if kept < len(words) {
			break
		}
	}
	return names
}

// asciiLower lowercases only ASCII letters, leaving every byte count intact.
func asciiLower(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

func splitNameList(text string) []string {
	if end := strings.IndexAny(text, ".!?\n"); end >= 0 {
		text = text[:end]
	}
	text = strings.ReplaceAll(text, " and ", ",")
	return strings.Split(text, ",")
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
