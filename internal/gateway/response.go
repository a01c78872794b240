package gateway

import (
	"fmt"

	"github.com/mandalnilabja/goatchat/internal/types"
)

// ExtractResponse normalizes a complete response body into assistant text.
// A body that does not match the vendor's shape is a KindDecode error.
func ExtractResponse(desc *types.Descriptor, body []byte) (string, error) {
	if desc.ExtractResponse == nil {
		if desc.PlainText {
			return string(body), nil
		}
		return "", types.NewDecodeError(desc.ID, fmt.Errorf("provider %s has no response extractor", desc.ID))
	}

	text, err := desc.ExtractResponse(body)
	if err != nil {
		return "", types.NewDecodeError(desc.ID, err)
	}
	return text, nil
}

// ImageReference renders an image-generation result as markdown.
func ImageReference(url string) string {
	return "![Generated Image](" + url + ")"
}
