package components

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/words"
	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter defines the interface for counting and truncating tokens in a string.
type TokenCounter interface {
	// Count returns the number of tokens in the given text
	Count(text string) int
	// Truncate returns the longest prefix of text holding at most maxTokens tokens
	Truncate(text string, maxTokens int) string
}

// DefaultTokenCounter counts Unicode words (UAX #29). Punctuation and whitespace
// segments are not counted, each CJK ideograph is a word of its own.
type DefaultTokenCounter struct{}

var _ TokenCounter = (*DefaultTokenCounter)(nil)

// Count returns the number of words in the text
func (dtc *DefaultTokenCounter) Count(text string) int {
	var n int
	for _, seg := range words.SegmentAll([]byte(text)) {
		if isWord(seg) {
			n++
		}
	}
	return n
}

// Truncate keeps the first maxTokens words with whatever sits between them,
// trailing whitespace is dropped.
func (dtc *DefaultTokenCounter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	var n, offset int
	for _, seg := range words.SegmentAll([]byte(text)) {
		if isWord(seg) {
			if n == maxTokens {
				return strings.TrimRightFunc(text[:offset], unicode.IsSpace)
			}
			n++
		}
		offset += len(seg)
	}
	return text
}

func isWord(seg []byte) bool {
	for _, r := range string(seg) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// TikTokenCounter provides accurate token counting using the tiktoken library,
// which implements the tokenization schemes used by OpenAI models.
type TikTokenCounter struct {
	tke *tiktoken.Tiktoken
}

var _ TokenCounter = (*TikTokenCounter)(nil)

// NewTikTokenCounter creates a new TikTokenCounter using the specified encoding.
// Common encodings include:
// - "cl100k_base" (GPT-4, ChatGPT)
// - "o200k_base" (GPT-4o)
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TikTokenCounter{tke: tke}, nil
}

// Count returns the exact number of tokens in the text according to the
// specified tiktoken encoding.
func (ttc *TikTokenCounter) Count(text string) int {
	return len(ttc.tke.Encode(text, nil, nil))
}

// Truncate decodes the first maxTokens tokens of text
func (ttc *TikTokenCounter) Truncate(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return ""
	}
	tokens := ttc.tke.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text
	}
	return trimPartialRune(ttc.tke.Decode(tokens[:maxTokens]))
}

// trimPartialRune drops the bytes of a rune cut in half at the end of s
func trimPartialRune(s string) string {
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size > 1 {
			break
		}
		s = s[:len(s)-size]
	}
	return s
}
