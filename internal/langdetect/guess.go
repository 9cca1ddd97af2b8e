// Package langdetect guesses the language of untagged code blocks with
// go-enry, so they can be highlighted like fenced blocks with a tag.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// DefaultCandidates are the languages the classifier chooses between.
var DefaultCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript", "Ruby", "Rust",
	"Java", "C", "C++", "PHP", "SQL", "JSON", "YAML", "HTML", "CSS",
}

// minGuessBytes is the shortest snippet the classifier is trusted with.
const minGuessBytes = 16

// Guesser maps code snippets to lower-case chroma lexer names.
type Guesser struct {
	candidates []string
}

// New returns a Guesser choosing among candidates, or DefaultCandidates
// when none are given.
func New(candidates ...string) *Guesser {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}
	return &Guesser{candidates: candidates}
}

// GuessLanguage returns the language of code, or "" when no guess is
// safe.
func (g *Guesser) GuessLanguage(code string) string {
	content := []byte(code)
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return ""
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return lexerName(lang)
	}
	if lang := byMarker(trimmed); lang != "" {
		return lang
	}
	if len(trimmed) < minGuessBytes {
		return ""
	}
	if lang, safe := enry.GetLanguageByClassifier(content, g.candidates); safe && lang != "" {
		return lexerName(lang)
	}
	return ""
}

// byMarker recognises openings that name their language outright.
func byMarker(trimmed []byte) string {
	switch {
	case bytes.HasPrefix(trimmed, []byte("package ")):
		return "go"
	case bytes.HasPrefix(trimmed, []byte("<?php")):
		return "php"
	case bytes.HasPrefix(bytes.ToLower(trimmed), []byte("<!doctype html")):
		return "html"
	case bytes.HasPrefix(trimmed, []byte("---\n")):
		return "yaml"
	}
	return ""
}

// lexerName converts a go-enry language name to a chroma lexer alias.
func lexerName(lang string) string {
	switch lang {
	case "Shell":
		return "bash"
	case "C++":
		return "cpp"
	}
	return strings.ToLower(lang)
}
