package extraction

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:tab[^>]*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// DOCXBackend extracts plain text from Word documents.
type DOCXBackend struct{}

// Extract reads the document body and strips WordprocessingML markup.
func (DOCXBackend) Extract(data []byte) (Result, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return Result{Text: docxText(doc.Editable().GetContent())}, nil
}

// docxText converts document.xml content to plain text, one paragraph per line
func docxText(content string) string {
	content = docxParagraphEnd.ReplaceAllStringFunc(content, func(tag string) string {
		if strings.HasPrefix(tag, "<w:tab") {
			return " "
		}
		return "\n"
	})
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content)
}
