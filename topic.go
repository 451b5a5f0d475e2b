package docscout

import (
	"regexp"
	"sort"
	"strings"
)

// TopicImplementation is the topic emitted for action verbs such as
// "build" or "integrate".
const TopicImplementation = "implementation"

var uiKeywords = []string{
	"pricing", "card", "form", "dashboard", "modal", "table", "chart",
	"button", "navbar", "sidebar", "login", "signup", "checkout", "profile",
	"landing", "hero", "footer", "header", "list", "calendar", "chat",
	"search",
}

var integrationKeywords = []string{
	"payment", "billing", "auth", "authentication", "api", "webhook",
	"analytics", "subscription", "email", "notification", "upload",
	"storage", "database", "map", "invoice", "customer",
}

var actionVerbs = []string{
	"create", "build", "generate", "make", "implement", "add", "design",
	"integrate",
}

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// ExtractTopics returns the UI and integration keywords mentioned in
// request, plus TopicImplementation when an action verb is present.
// Keywords match whole words only, optionally pluralized with a
// trailing "s". The result is sorted and deduplicated.
func ExtractTopics(request string) []string {
	words := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(request), -1) {
		words[w] = struct{}{}
	}

	set := make(map[string]struct{})
	for _, family := range [][]string{uiKeywords, integrationKeywords} {
		for _, kw := range family {
			_, ok := words[kw]
			_, plural := words[kw+"s"]
			if ok || plural {
				set[kw] = struct{}{}
			}
		}
	}
	for _, verb := range actionVerbs {
		if _, ok := words[verb]; ok {
			set[TopicImplementation] = struct{}{}
			break
		}
	}

	topics := make([]string, 0, len(set))
	for t := range set {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}
