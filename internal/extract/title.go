package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// Title returns the page's og:title, falling back to the <title> element with runs of
// whitespace collapsed. It returns "" when neither is present.
func Title(page string) string {
	if strings.TrimSpace(page) == "" {
		return ""
	}

	var ogTitle, docTitle string
	inTitle := false

	z := html.NewTokenizer(strings.NewReader(page))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if ogTitle != "" {
				return ogTitle
			}
			return strings.Join(strings.Fields(docTitle), " ")
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "meta":
				if ogTitle == "" && hasAttr {
					ogTitle = strings.TrimSpace(ogTitleContent(z))
				}
			case "title":
				inTitle = tt == html.StartTagToken && docTitle == ""
			}
		case html.TextToken:
			if inTitle {
				docTitle += string(z.Text())
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "title" {
				inTitle = false
			}
		}
	}
}

func ogTitleContent(z *html.Tokenizer) string {
	var property, content string
	for {
		k, v, more := z.TagAttr()
		switch string(k) {
		case "property":
			property = string(v)
		case "content":
			content = string(v)
		}
		if !more {
			break
		}
	}
	if property != "og:title" {
		return ""
	}
	return content
}
