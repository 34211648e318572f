package render

import (
	"os"

	"golang.org/x/term"
)

// DefaultLineWidth is the column budget for wrapped text output.
const DefaultLineWidth = 100

// unicodeCapable reports whether stdout is a terminal likely to render
// box-drawing glyphs correctly. Non-terminal output (piped to a file, a
// CI log) degrades to plain ASCII.
func unicodeCapable() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// glyphs is the set of tree-drawing characters the text renderer uses,
// switched wholesale between a unicode and an ASCII set.
type glyphs struct {
	branch     string
	lastBranch string
	pipe       string
}

var unicodeGlyphs = glyphs{
	branch:     "├── ",
	lastBranch: "└── ",
	pipe:       "│   ",
}

var asciiGlyphs = glyphs{
	branch:     "|-- ",
	lastBranch: "`-- ",
	pipe:       "|   ",
}

func pickGlyphs(forceASCII bool) glyphs {
	if forceASCII || !unicodeCapable() {
		return asciiGlyphs
	}
	return unicodeGlyphs
}
