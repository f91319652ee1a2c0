// Package relay composes the anonymous channel posts and user-facing replies.
package relay

import (
	"strings"
	"unicode"
)

// Language is the label produced by the two-way ingress language guess.
type Language string

// Supported languages.
const (
	LanguageEnglish Language = "en"
	LanguageKorean  Language = "ko"
)

// GuessLanguage applies the two-way heuristic: any Hangul rune marks the text
// as Korean, everything else defaults to English.
func GuessLanguage(text string) Language {
	for _, r := range text {
		if unicode.Is(unicode.Hangul, r) {
			return LanguageKorean
		}
	}
	return LanguageEnglish
}

// Message is one anonymous submission ready to be posted.
type Message struct {
	// Text is the submitted text, possibly replaced by its AI rewrite.
	Text string
	// Commentary is the optional AI side note appended below the text.
	Commentary string
	// Language drives the canned strings surrounding the text.
	Language Language
}

// Compose renders the channel post for a message.
func (m Message) Compose() string {
	var b strings.Builder
	b.WriteString(header(m.Language))
	b.WriteString("\n")
	b.WriteString(m.Text)
	if c := strings.TrimSpace(m.Commentary); c != "" {
		b.WriteString("\n\n> 💬 ")
		b.WriteString(c)
	}
	return b.String()
}

func header(lang Language) string {
	if lang == LanguageKorean {
		return "*📢 익명의 한마디*"
	}
	return "*📢 An anonymous murmur*"
}

// UsageHint is the ephemeral reply for an empty submission.
func UsageHint(lang Language) string {
	if lang == LanguageKorean {
		return "사용법: `/murmur <전하고 싶은 말>`"
	}
	return "Usage: `/murmur <what you want to say>`"
}

// Confirmation is the ephemeral reply after a successful relay.
func Confirmation(lang Language) string {
	if lang == LanguageKorean {
		return "메시지가 익명으로 전달되었어요. 🤫"
	}
	return "Your message has been relayed anonymously. 🤫"
}
