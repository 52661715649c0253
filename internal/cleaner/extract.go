package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks returns the href of every <a> element in document order.
// Values are returned verbatim, duplicates included.
func ExtractLinks(html string) []string {
	return extractAttr(html, "a", "href")
}

// ExtractImages returns the src of every <img> element in document order.
func ExtractImages(html string) []string {
	return extractAttr(html, "img", "src")
}

func extractAttr(html, selector, attr string) []string {
	values := []string{}
	if strings.TrimSpace(html) == "" {
		return values
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return values
	}

	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		v, exists := s.Attr(attr)
		if !exists || v == "" {
			return
		}
		values = append(values, v)
	})
	return values
}
