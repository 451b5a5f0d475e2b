package docscout_test

import (
	"testing"

	"github.com/fwojciec/docscout"
	"github.com/stretchr/testify/assert"
)

func TestExtractOutline(t *testing.T) {
	t.Parallel()

	t.Run("extracts every level", func(t *testing.T) {
		t.Parallel()

		markdown := "# H1\n## H2\n### H3\n#### H4\n##### H5\n###### H6"

		headings := docscout.ExtractOutline(markdown, 0)

		assert.Len(t, headings, 6)
		for i, h := range headings {
			assert.Equal(t, i+1, h.Level)
		}
	})

	t.Run("limits depth", func(t *testing.T) {
		t.Parallel()

		markdown := "# Users\n## List users\n### Query parameters\n## Create user"

		headings := docscout.ExtractOutline(markdown, 2)

		assert.Equal(t, []docscout.Heading{
			{Level: 1, Title: "Users", Anchor: "users"},
			{Level: 2, Title: "List users", Anchor: "list-users"},
			{Level: 2, Title: "Create user", Anchor: "create-user"},
		}, headings)
	})

	t.Run("numbers duplicate anchors", func(t *testing.T) {
		t.Parallel()

		headings := docscout.ExtractOutline("# Example\n## Example\n### Example", 0)

		assert.Equal(t, "example", headings[0].Anchor)
		assert.Equal(t, "example-1", headings[1].Anchor)
		assert.Equal(t, "example-2", headings[2].Anchor)
	})

	t.Run("strips closing hashes", func(t *testing.T) {
		t.Parallel()

		headings := docscout.ExtractOutline("## Authentication ##", 0)

		assert.Equal(t, "Authentication", headings[0].Title)
	})

	t.Run("ignores fenced code", func(t *testing.T) {
		t.Parallel()

		markdown := "# Install\n\n```bash\n# a comment\ncurl https://example.com\n```\n\n## Configure"

		headings := docscout.ExtractOutline(markdown, 0)

		assert.Len(t, headings, 2)
		assert.Equal(t, "Install", headings[0].Title)
		assert.Equal(t, "Configure", headings[1].Title)
	})

	t.Run("no headings", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docscout.ExtractOutline("", 0))
		assert.Empty(t, docscout.ExtractOutline("Just text.\n\nMore text.", 3))
	})
}

func TestAnchor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Getting Started With Go", "getting-started-with-go"},
		{"API Reference (v2.0)", "api-reference-v20"},
		{"rate_limit headers", "rate-limit-headers"},
		{"  Leading space", "leading-space"},
		{"Trailing -", "trailing"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, docscout.Anchor(tt.title))
		})
	}
}
