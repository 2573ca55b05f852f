package promptref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNoSentinel(t *testing.T) {
	ref := Parse("You are a helpful writing assistant.")
	assert.Equal(t, FormatNone, ref.Format)
	assert.Empty(t, ref.PromptID)
}

func TestParseLegacyReference(t *testing.T) {
	ref := Parse("[[prompt:3f1a9c2e-0d4b-4a7f-9a51-7c2b9e8d6f01]]")
	assert.Equal(t, FormatLegacy, ref.Format)
	assert.Equal(t, "3f1a9c2e-0d4b-4a7f-9a51-7c2b9e8d6f01", ref.PromptID)
	assert.False(t, ref.HasGuard)
}

func TestParseTaggedReference(t *testing.T) {
	ref := Parse("<prompt-content>[[prompt:abc-123]]</prompt-content>")
	assert.Equal(t, FormatTagged, ref.Format)
	assert.Equal(t, "abc-123", ref.PromptID)
	assert.False(t, ref.HasGuard)
}

func TestParseTaggedWithGuard(t *testing.T) {
	content := GuardBlock() + "\n<prompt-content>[[prompt:abc]]</prompt-content>"
	ref := Parse(content)
	assert.Equal(t, FormatTagged, ref.Format)
	assert.True(t, ref.HasGuard)
}

func TestParseSentinelWithoutExtractableID(t *testing.T) {
	ref := Parse("[[prompt: not a valid id ]]")
	assert.Equal(t, FormatLegacy, ref.Format)
	assert.Empty(t, ref.PromptID)
}

func TestReplaceContent(t *testing.T) {
	original := "prefix <prompt-content>OLD</prompt-content> suffix"
	got := ReplaceContent(original, "NEW")
	assert.Equal(t, "prefix <prompt-content>NEW</prompt-content> suffix", got)
}

func TestReplaceContentLiteralDollarSigns(t *testing.T) {
	// Replacement text must be treated literally, not as a regexp template.
	got := ReplaceContent("<prompt-content>x</prompt-content>", "costs $100")
	assert.Equal(t, "<prompt-content>costs $100</prompt-content>", got)
}
