// Package llm – summary styles
//
// This file defines the closed set of summary styles and the instruction
// templates that shape a backend's output. Styles are persisted and displayed
// by their canonical names ("Professional", "Executive Summary", ...), so the
// type is a string and parsing canonicalizes user input into that form.
package llm

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style names a summary voice. The zero value is not valid; use DefaultStyle.
type Style string

// The closed set of supported styles.
const (
	StyleProfessional Style = "Professional"
	StyleFunny        Style = "Funny"
	StyleExecutive    Style = "Executive Summary"
	StyleTechnical    Style = "Technical"
	StyleCasual       Style = "Casual"
)

// DefaultStyle is used whenever a stored or requested style is missing or
// unknown.
const DefaultStyle = StyleProfessional

// styleTitle canonicalizes free-form user input ("funny", "EXECUTIVE summary")
// into the stored title-case form.
var styleTitle = cases.Title(language.English)

// styleInstructions maps each style to the instruction block prepended to the
// conversation prompt. Every template tells the model to answer in
// Telegram-safe HTML rather than Markdown, because the bot sends summaries
// with parse_mode=HTML.
var styleInstructions = map[Style]string{
	StyleProfessional: "You are a professional assistant summarizing a chat conversation. " +
		"Provide a clear, concise summary in bullet points. Focus on key topics, " +
		"decisions, and action items. Maintain a professional tone. " +
		"IMPORTANT: Use HTML formatting for Telegram: <b>text</b> for bold, " +
		"<i>text</i> for italic, <code>text</code> for code. Do NOT use Markdown asterisks or underscores.",
	StyleFunny: "You are a witty assistant summarizing a chat conversation. " +
		"Provide a humorous summary in bullet points, using playful language " +
		"and emoji where appropriate. Keep it light-hearted but still capture " +
		"the main points. 😄 " +
		"IMPORTANT: Use HTML formatting for Telegram: <b>text</b> for bold, " +
		"<i>text</i> for italic. Do NOT use Markdown asterisks or underscores.",
	StyleExecutive: "You are an executive assistant providing a high-level summary. " +
		"Focus ONLY on the most critical points: key decisions, important " +
		"announcements, and urgent action items. Keep it extremely brief " +
		"(3-5 bullet points max). Use clear, formal language. " +
		"IMPORTANT: Use HTML formatting for Telegram: <b>text</b> for bold. " +
		"Do NOT use Markdown asterisks.",
	StyleTechnical: "You are a technical analyst summarizing a chat conversation. " +
		"Focus on technical details, code snippets, system discussions, " +
		"and technical decisions. Use precise technical terminology. " +
		"Organize by technical topics. " +
		"IMPORTANT: Use HTML formatting for Telegram: <b>text</b> for bold, " +
		"<code>text</code> for code snippets. Do NOT use Markdown.",
	StyleCasual: "You are a friendly assistant summarizing a chat conversation. " +
		"Keep it casual and conversational, like you're telling a friend " +
		"what happened. Use relaxed language and emojis if relevant. " +
		"Still capture the main points though! " +
		"IMPORTANT: Use HTML formatting for Telegram: <b>text</b> for bold. " +
		"Do NOT use Markdown asterisks.",
}

// AllStyles returns the supported styles in a stable display order.
func AllStyles() []Style {
	return []Style{
		StyleProfessional,
		StyleFunny,
		StyleExecutive,
		StyleTechnical,
		StyleCasual,
	}
}

// String returns the canonical display name of the style.
func (s Style) String() string { return string(s) }

// Valid reports whether s is one of the supported styles.
func (s Style) Valid() bool {
	_, ok := styleInstructions[s]
	return ok
}

// ParseStyle resolves free-form input to a supported style, ignoring case and
// surrounding whitespace. Unknown input yields (DefaultStyle, false) so the
// caller can fall back without a second lookup.
func ParseStyle(raw string) (Style, bool) {
	s := Style(styleTitle.String(strings.TrimSpace(raw)))
	if s.Valid() {
		return s, true
	}
	return DefaultStyle, false
}

// StyleInstruction returns the instruction template for s, falling back to
// the default style's template when s is unknown.
func StyleInstruction(s Style) string {
	if inst, ok := styleInstructions[s]; ok {
		return inst
	}
	return styleInstructions[DefaultStyle]
}

// ValidateStyles verifies that every supported style has a non-empty
// instruction template. Called at engine construction so a table gap is a
// startup fault, not a silent prompt defect on the first summary.
func ValidateStyles() error {
	for _, s := range AllStyles() {
		inst, ok := styleInstructions[s]
		if !ok {
			return fmt.Errorf("llm: style %q has no instruction template", s)
		}
		if strings.TrimSpace(inst) == "" {
			return fmt.Errorf("llm: style %q has an empty instruction template", s)
		}
	}
	return nil
}
