package docscout_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/docscout"
	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"# Payments API",
		"Authenticate with an API key sent as a Bearer token.",
		"This REST API supports pagination and webhooks.",
		"```js",
		"stripe.charges.create({amount: 100})",
		"```",
		"Refunds are created with POST /v1/refunds.",
	}, "\n")

	t.Run("detects auth methods and patterns", func(t *testing.T) {
		t.Parallel()

		a := docscout.Analyze(content, []string{"/v1/charges", "/v1/refunds"}, "")

		assert.Equal(t, []string{"api key", "bearer token"}, a.AuthMethods)
		assert.Equal(t, []string{"REST API", "Pagination", "Webhooks"}, a.CommonPatterns)
		assert.Equal(t, []string{"js\nstripe.charges.create({amount: 100})"}, a.CodeSnippets)
		assert.Equal(t, []string{"/v1/charges", "/v1/refunds"}, a.KeyEndpoints)
	})

	t.Run("summarizes without focus", func(t *testing.T) {
		t.Parallel()

		a := docscout.Analyze(content, []string{"/v1/charges"}, "")

		want := "Documentation contains 30 words with 1 API endpoints. Authentication required."
		assert.Equal(t, want, a.Summary)
	})

	t.Run("summarizes focused lines", func(t *testing.T) {
		t.Parallel()

		a := docscout.Analyze(content, nil, "refund")

		assert.Equal(t, `Found 1 sections related to "refund": Refunds are created with POST /v1/refunds.`, a.Summary)
	})

	t.Run("treats an invalid focus regex literally", func(t *testing.T) {
		t.Parallel()

		a := docscout.Analyze("call charges.create(\nother", nil, "create(")

		assert.Equal(t, `Found 1 sections related to "create(": call charges.create(`, a.Summary)
	})

	t.Run("reports missing focus matches", func(t *testing.T) {
		t.Parallel()

		a := docscout.Analyze(content, nil, "graphql")

		assert.Equal(t, `No specific information found for "graphql". General API documentation available.`, a.Summary)
	})

	t.Run("builds integration notes", func(t *testing.T) {
		t.Parallel()

		a := docscout.Analyze(content, []string{"/v1/charges", "/v1/refunds"}, "")

		want := "2 API endpoints available. Authentication: api key, bearer token. 1 code examples found. Supports: REST API, Pagination, Webhooks"
		assert.Equal(t, want, a.IntegrationNotes)
	})

	t.Run("handles empty content", func(t *testing.T) {
		t.Parallel()

		a := docscout.Analyze("", nil, "")

		assert.NotNil(t, a.KeyEndpoints)
		assert.NotNil(t, a.AuthMethods)
		assert.NotNil(t, a.CodeSnippets)
		assert.NotNil(t, a.CommonPatterns)
		assert.Equal(t, "Documentation contains 0 words with 0 API endpoints. No authentication details found.", a.Summary)
		assert.Equal(t, "No clear API endpoints found. Authentication method unclear. No code examples available. Integration patterns unclear", a.IntegrationNotes)
	})

	t.Run("caps key endpoints and snippets", func(t *testing.T) {
		t.Parallel()

		blocks := strings.Repeat("```\n"+strings.Repeat("x", 300)+"\n```\n", 5)
		endpoints := []string{"/a", "/b", "/c", "/d", "/e", "/f", "/g"}

		a := docscout.Analyze(blocks, endpoints, "")

		assert.Len(t, a.KeyEndpoints, 5)
		assert.Len(t, a.CodeSnippets, 3)
		assert.Len(t, a.CodeSnippets[0], 200)
	})
}
