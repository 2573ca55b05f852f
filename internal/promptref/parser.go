// Package promptref isolates the text-format fragility of prompt references:
// the sentinel token that points a system message at a stored template, and
// the tagged regions used when rewriting such a message for the model.
package promptref

import (
	"regexp"
	"strings"
)

const (
	// Sentinel marks a system message whose content is an indirect reference
	// to a stored prompt template rather than literal text.
	Sentinel = "[[prompt:"

	ContentOpenTag  = "<prompt-content>"
	ContentCloseTag = "</prompt-content>"
	RulesOpenTag    = "<prompt-rules>"
	RulesCloseTag   = "</prompt-rules>"
)

var (
	// Alphanumeric/hyphenated ids; UUIDs pass.
	idPattern      = regexp.MustCompile(`\[\[prompt:([A-Za-z0-9-]+)\]\]`)
	contentPattern = regexp.MustCompile(`(?s)<prompt-content>.*?</prompt-content>`)
)

// Format classifies how a message carries its prompt reference.
type Format int

const (
	// FormatNone means no sentinel is present; the message passes through.
	FormatNone Format = iota
	// FormatLegacy means the sentinel appears as bare text with no tagged
	// content region; the whole message content is replaced on rewrite.
	FormatLegacy
	// FormatTagged means a <prompt-content> region exists; only the region's
	// interior is replaced on rewrite.
	FormatTagged
)

// Ref is the result of parsing a message's content for a prompt reference.
type Ref struct {
	Format   Format
	PromptID string // empty when no id could be extracted
	HasGuard bool   // a <prompt-rules> region is already present
}

// Parse inspects message content for a prompt reference.
func Parse(content string) Ref {
	if !strings.Contains(content, Sentinel) {
		return Ref{Format: FormatNone}
	}

	ref := Ref{
		Format:   FormatLegacy,
		HasGuard: strings.Contains(content, RulesOpenTag),
	}
	if contentPattern.MatchString(content) {
		ref.Format = FormatTagged
	}
	if m := idPattern.FindStringSubmatch(content); m != nil {
		ref.PromptID = m[1]
	}
	return ref
}

// ReplaceContent swaps the interior of the <prompt-content> region with the
// given replacement, keeping the tags.
func ReplaceContent(original, replacement string) string {
	return contentPattern.ReplaceAllLiteralString(original, WrapContent(replacement))
}

// WrapContent wraps text in a tagged content region.
func WrapContent(text string) string {
	return ContentOpenTag + text + ContentCloseTag
}
