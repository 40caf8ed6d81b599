package engine

import "strings"

// CategoryRule maps one project-type category to the keywords that imply
// it. Matching is lowercase substring containment against a repo's
// name + description; the first keyword hit wins for its category.
type CategoryRule struct {
	Category string
	Keywords []string
}

// DefaultCategories is the keyword table used in production. It is plain
// data so the inference rules can be tested (and replaced) independently
// of the extractor's control flow.
var DefaultCategories = []CategoryRule{
	{Category: "web", Keywords: []string{"web", "react", "vue", "angular", "next", "frontend", "website", "http"}},
	{Category: "cli", Keywords: []string{"cli", "command-line", "command line", "terminal", "tool"}},
	{Category: "library", Keywords: []string{"library", "lib", "sdk", "package", "framework", "wrapper"}},
	{Category: "data", Keywords: []string{"data", "scraper", "analysis", "analytics", "etl", "pipeline", "ml", "machine learning"}},
	{Category: "mobile", Keywords: []string{"android", "ios", "mobile", "flutter", "react-native"}},
	{Category: "devops", Keywords: []string{"docker", "kubernetes", "terraform", "ansible", "deploy", "infra", "ci/cd"}},
}

// matchCategories returns every category whose keyword list hits the
// repo's name or description. A repo may match zero or several
// categories.
func matchCategories(rules []CategoryRule, repo Repository) []string {
	haystack := strings.ToLower(repo.Name + " " + repo.Description)

	var matched []string
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(haystack, kw) {
				matched = append(matched, rule.Category)
				break
			}
		}
	}
	return matched
}
