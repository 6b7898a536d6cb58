package repl

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/phoenix/lang"
)

// keywords are completed alongside function names.
var keywords = []string{
	"if", "else", "while", "function", "return", "break", "continue",
	"true", "false",
}

// isWordChar reports whether b continues a completion word: identifier
// characters and the '$' sigil of variables and superglobals.
func isWordChar(b byte) bool {
	return b == '_' || b == '$' ||
		b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when the cursor sits between two non-word characters.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 && isWordChar(input[start-1]) {
		start--
	}

	end = cursor
	for end < len(input) && isWordChar(input[end]) {
		end++
	}

	// A command word includes its prefix.
	if start == 1 && input[0] == commandPrefix[0] {
		start = 0
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain that ends right before
// wordStart, such as "$cfg.flags" for "print($cfg.flags.le". It is empty
// when the word is not a member.
func parentPath(input string, wordStart int) string {
	if wordStart == 0 || input[wordStart-1] != '.' {
		return ""
	}

	pos := wordStart - 1
	for pos > 0 && (isWordChar(input[pos-1]) || input[pos-1] == '.') {
		pos--
	}

	chain := strings.Trim(input[pos:wordStart], ".")
	if !strings.HasPrefix(chain, "$") {
		return ""
	}

	return chain
}

// stackPath converts a member chain into a path for [lang.Stack.Get].
func stackPath(chain string) []string {
	parts := strings.Split(chain, ".")

	// "$$name" addresses the superglobal "$name"; "$name" the variable.
	parts[0] = strings.TrimPrefix(parts[0], "$")

	return slices.DeleteFunc(parts, func(s string) bool { return s == "" })
}

// memberNames returns the names reachable with '.' from v.
func memberNames(v lang.Value) []string {
	switch v := v.(type) {
	case lang.Map:
		return append(v.Keys(), "length")
	case lang.List, lang.String:
		return []string{"length"}
	default:
		return nil
	}
}

// candidates returns the completions for a word in the given context.
func candidates(s *lang.Stack, word, parent string) []string {
	switch {
	case strings.HasPrefix(word, commandPrefix):
		names := make([]string, len(commands))
		for i, c := range commands {
			names[i] = commandPrefix + c
		}

		return names

	case parent != "":
		v, err := s.Get(stackPath(parent)...)
		if err != nil {
			return nil
		}

		return memberNames(v)

	case strings.HasPrefix(word, "$"):
		return slices.DeleteFunc(s.Names(), func(n string) bool {
			return !strings.HasPrefix(n, "$")
		})

	default:
		names := slices.DeleteFunc(s.Names(), func(n string) bool {
			return strings.HasPrefix(n, "$")
		})

		return append(names, keywords...)
	}
}

// computeMatches ranks the candidates for the word at the cursor. Nothing
// is offered for an empty word, except after '.' where every member is
// listed.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())
	parent := parentPath(input, wordStart)
	names := candidates(m.session.Stack(), word, parent)

	if len(names) == 0 || (word == "" && parent == "") {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(names))
		for i, c := range names {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, names), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. The selected candidate (when tabbing) is highlighted.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters in bold.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
