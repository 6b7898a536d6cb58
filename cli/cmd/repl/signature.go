package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// signatures lists the parameters of the builtin functions. "0" is the
// positional first argument.
var signatures = map[string][]string{
	"Map":          {"name: value..."},
	"print":        {"0"},
	"dump":         {"0"},
	"fatal":        {"0"},
	"parseInt":     {"0"},
	"File":         {"0"},
	"subdirectory": {"0"},
	"checkVersion": {"minimum"},
	"eval":         {"0"},
	"pathPrefix":   {"0", "prefix", "exists"},
	"exists":       nil,
	"isDirectory":  nil,
	"getContents":  nil,
	"setContents":  {"0"},
	"remove":       nil,
}

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the call surrounding the cursor.
type functionCall struct {
	name     string // callee as written, such as "$$Phoenix.checkVersion"
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor.
// Parentheses inside string literals are not distinguished.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	depth := 0
	open := -1

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	start := open
	for start > 0 && (isWordChar(input[start-1]) || input[start-1] == '.') {
		start--
	}

	name := input[start:open]
	if name == "" || name == "if" || name == "while" {
		return functionCall{}
	}

	arg := 0
	depth = 0

	for i := open + 1; i < cursor; i++ {
		switch input[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				arg++
			}
		}
	}

	return functionCall{name: name, argIndex: arg, inCall: true}
}

// signatureOf returns the parameters of the builtin named by the last
// element of callee.
func signatureOf(callee string) ([]string, bool) {
	name := callee[strings.LastIndexByte(callee, '.')+1:]
	params, ok := signatures[name]

	return params, ok
}

// renderSignatureHint renders name(params...) with the parameter at index
// current highlighted. A parameter ending in "..." absorbs all later
// arguments.
func renderSignatureHint(name string, params []string, current int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasSuffix(p, "...")
		if current == i || (variadic && current >= i) {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
