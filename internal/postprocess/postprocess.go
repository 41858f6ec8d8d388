// Package postprocess tidies the raw text a translation model returns before it
// is shown to the user.
package postprocess

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean removes tokenizer artifacts from model output in three phases and
// returns the trimmed result:
//  1. Special token removal
//  2. Whitespace collapsing within lines
//  3. Unicode NFC normalization
func Clean(text string) string {
	text = removeSpecialTokens(text)
	text = collapseSpaces(text)
	return norm.NFC.String(strings.TrimSpace(text))
}

// --- Phase 1: special tokens ---

// specialTokenRe matches the Marian/SentencePiece control tokens that leak into
// decoded output when the vocabulary has no entry for a piece.
var specialTokenRe = regexp.MustCompile(`(?i)<unk>|<pad>`)

// Sequence markers only count at the edges; elsewhere <s> and </s> are
// strikethrough markup that belongs to the text.
var (
	leadingBOSRe  = regexp.MustCompile(`(?i)^(?:\s*<s>)+`)
	trailingEOSRe = regexp.MustCompile(`(?i)(?:</s>\s*)+$`)
)

// sentencePieceMarker is the word-boundary marker SentencePiece uses in place
// of a space.
const sentencePieceMarker = "▁"

func removeSpecialTokens(text string) string {
	text = specialTokenRe.ReplaceAllString(text, " ")
	text = leadingBOSRe.ReplaceAllString(text, " ")
	text = trailingEOSRe.ReplaceAllString(text, " ")
	return strings.ReplaceAll(text, sentencePieceMarker, " ")
}

// --- Phase 2: whitespace ---

var horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)

// collapseSpaces squeezes runs of spaces and tabs and trims each line, but keeps
// line breaks so multi-paragraph input keeps its shape.
func collapseSpaces(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpaceRe.ReplaceAllString(line, " "))
	}
	return strings.Join(lines, "\n")
}
