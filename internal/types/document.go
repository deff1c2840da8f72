package types

// Accepted document media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Document is an uploaded binary file awaiting text extraction.
type Document struct {
	Name      string
	MediaType string
	Data      []byte
}

// Size returns the byte length of the document.
func (d Document) Size() int {
	return len(d.Data)
}

// ExtractedText is the plain-text rendering of a Document plus provenance.
type ExtractedText struct {
	Text        string `json:"text"`
	MediaType   string `json:"media_type"`
	SourceBytes int    `json:"source_bytes"`
	Pages       int    `json:"pages,omitempty"` // 0 when the format has no page notion
	Hash        string `json:"hash"`            // SHA256 hex digest of Text
}
