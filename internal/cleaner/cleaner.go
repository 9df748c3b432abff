// Package cleaner turns raw captured chat messages into the ordered,
// speaker-attributed text lines fed to the summarization prompt. The
// transform is pure and stateless: system events are dropped, media-only
// messages become bracketed placeholders, URLs and bot commands are
// stripped, whitespace is collapsed, and each surviving line is prefixed
// with its author's display name.
package cleaner

import (
	"regexp"
	"strings"
)

// Attachment identifies the non-text payload carried by a raw message.
type Attachment int

// Attachment kinds recognized by the placeholder step. Only photo, video
// and document survive a round-trip through the message log; the remaining
// kinds occur on in-memory records captured straight from the transport.
const (
	AttachmentNone Attachment = iota
	AttachmentPhoto
	AttachmentVideo
	AttachmentDocument
	AttachmentSticker
	AttachmentVoice
	AttachmentAudio
	AttachmentLocation
	AttachmentPoll
)

// Record is one raw chat message as the cleaner sees it. Detail carries the
// kind-specific extra: caption for photo/video, filename for document,
// emoji for sticker, question for poll.
type Record struct {
	Username   string
	Text       string
	IsSystem   bool
	Attachment Attachment
	Detail     string
}

// Membership-change and group-metadata texts that upstream sometimes fails
// to flag as system events. Matched against the raw text before any
// stripping.
var systemPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^.+ joined the group$`),
	regexp.MustCompile(`^.+ left the group$`),
	regexp.MustCompile(`^.+ was added$`),
	regexp.MustCompile(`^.+ was removed$`),
	regexp.MustCompile(`^Group photo updated$`),
	regexp.MustCompile(`^Group name changed to`),
}

var (
	urlRE        = regexp.MustCompile(`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\\(),]|%[0-9a-fA-F]{2})+`)
	wwwRE        = regexp.MustCompile(`www\.(?:[a-zA-Z]|[0-9]|[$-_@.&+])+`)
	commandRE    = regexp.MustCompile(`^/\w+\s*`)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// Cleaner holds the removal switches. The zero value strips nothing
// beyond whitespace; use New for the production defaults.
type Cleaner struct {
	RemoveURLs     bool
	RemoveCommands bool
}

// New returns a Cleaner with both URL and command stripping enabled.
func New() *Cleaner {
	return &Cleaner{RemoveURLs: true, RemoveCommands: true}
}

// Clean transforms records into prompt-ready lines, preserving relative
// order. System records and records that clean down to nothing produce no
// output line.
func (c *Cleaner) Clean(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		if isSystem(r) {
			continue
		}
		text := c.CleanText(displayText(r))
		if text == "" {
			continue
		}
		name := r.Username
		if name == "" {
			name = "Unknown"
		}
		out = append(out, name+": "+text)
	}
	return out
}

// CleanText applies the configured stripping steps to a single line and
// collapses whitespace. An all-whitespace input yields "".
func (c *Cleaner) CleanText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if c.RemoveURLs {
		text = urlRE.ReplaceAllString(text, "")
		text = wwwRE.ReplaceAllString(text, "")
	}
	if c.RemoveCommands {
		text = commandRE.ReplaceAllString(text, "")
	}
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// isSystem reports whether the record is a system event, either flagged
// upstream or recognized by text pattern.
func isSystem(r Record) bool {
	for _, p := range systemPatterns {
		if p.MatchString(r.Text) {
			return true
		}
	}
	return r.IsSystem
}

// displayText derives the text to summarize: the body verbatim when
// present, otherwise a bracketed placeholder for the attachment kind.
// Records with neither produce "" and are dropped by Clean.
func displayText(r Record) string {
	if r.Text != "" {
		return r.Text
	}
	switch r.Attachment {
	case AttachmentPhoto:
		if r.Detail != "" {
			return "[Photo] - " + r.Detail
		}
		return "[Photo]"
	case AttachmentVideo:
		if r.Detail != "" {
			return "[Video] - " + r.Detail
		}
		return "[Video]"
	case AttachmentDocument:
		name := r.Detail
		if name == "" {
			name = "file"
		}
		return "[Document: " + name + "]"
	case AttachmentSticker:
		if r.Detail != "" {
			return "[Sticker: " + r.Detail + "]"
		}
		return "[Sticker]"
	case AttachmentVoice:
		return "[Voice message]"
	case AttachmentAudio:
		return "[Audio]"
	case AttachmentLocation:
		return "[Location]"
	case AttachmentPoll:
		if r.Detail != "" {
			return "[Poll: " + r.Detail + "]"
		}
		return "[Poll]"
	}
	return ""
}
