// Package termwrap word-wraps text to the width of the controlling terminal.
package termwrap

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

type TermWrap struct {
	width  int
	height int
}

// NewTermWrap measures the terminal on stdin, falling back to the defaults when
// it is not a terminal.
func NewTermWrap(defaultWidth, defaultHeight int) *TermWrap {
	var err error
	tw := &TermWrap{}

	tw.width, tw.height, err = term.GetSize(0)
	if err != nil || tw.width <= 0 {
		tw.width = defaultWidth
		tw.height = defaultHeight
	}

	return tw
}

func (tw *TermWrap) Width() int {
	return tw.width
}

func (tw *TermWrap) Paragraph(content string) string {
	return wordwrap.WrapString(content, uint(tw.width))
}

// IndentedParagraph wraps content so that, once every line is prefixed, it
// still fits the terminal. The width never drops below minimumWidth. The result
// ends with a newline.
func (tw *TermWrap) IndentedParagraph(prefix, content string, minimumWidth int) string {
	width := tw.width - len(prefix)
	if width < minimumWidth {
		width = minimumWidth
	}

	var b strings.Builder
	for _, line := range strings.Split(wordwrap.WrapString(content, uint(width)), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
