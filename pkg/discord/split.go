package discord

import (
	"fmt"
	"strings"
)

// TextSplitter splits message content into chunks that fit Discord's limits,
// breaking on line boundaries where it can.
type TextSplitter struct {
	MaxLength     int
	PreserveLines bool
}

// NewTextSplitter creates a line-preserving splitter
func NewTextSplitter(maxLength int) *TextSplitter {
	return &TextSplitter{
		MaxLength:     maxLength,
		PreserveLines: true,
	}
}

// SplitText splits content into chunks of at most MaxLength bytes
func (ts *TextSplitter) SplitText(content string) []string {
	if len(content) <= ts.MaxLength {
		return []string{content}
	}

	if !ts.PreserveLines {
		return ts.splitByCharacters(content)
	}

	var chunks []string
	var current strings.Builder

	for _, line := range strings.Split(content, "\n") {
		if current.Len()+len(line)+1 > ts.MaxLength {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}

			if len(line) > ts.MaxLength {
				pieces := ts.splitByCharacters(line)
				chunks = append(chunks, pieces[:len(pieces)-1]...)
				current.WriteString(pieces[len(pieces)-1])
				continue
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func (ts *TextSplitter) splitByCharacters(content string) []string {
	var chunks []string
	for len(content) > ts.MaxLength {
		chunks = append(chunks, content[:ts.MaxLength])
		content = content[ts.MaxLength:]
	}
	if len(content) > 0 {
		chunks = append(chunks, content)
	}
	return chunks
}

// SplitTextWithParts splits content and prefixes every chunk after the first
// with a part indicator
func (ts *TextSplitter) SplitTextWithParts(content string) []string {
	chunks := ts.SplitText(content)
	if len(chunks) <= 1 {
		return chunks
	}

	for i := 1; i < len(chunks); i++ {
		chunks[i] = fmt.Sprintf("(Part %d/%d)\n%s", i+1, len(chunks), chunks[i])
	}
	return chunks
}
