package analyzer

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// LayoutDPI is enough resolution for block detection
const LayoutDPI = 72

// LoadPage renders one page of a PDF
func LoadPage(path string, index, dpi int) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if index < 0 || index >= doc.NumPage() {
		return nil, fmt.Errorf("%s: page %d out of range (%d pages)", path, index, doc.NumPage())
	}
	return doc.ImageDPI(index, float64(dpi))
}
