package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"

	"github.com/jobfit/backend/utils"
)

// DefaultContentLimit bounds the HTML handed to a model
const DefaultContentLimit = 50000

var pageMinifier = newPageMinifier()

func newPageMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		KeepComments:            false,
		KeepConditionalComments: false,
		KeepSpecialComments:     false,
		KeepDefaultAttrVals:     false,
		KeepDocumentTags:        false,
		KeepEndTags:             false,
		KeepQuotes:              false,
		KeepWhitespace:          false,
		TemplateDelims:          [2]string{"", ""},
	})
	return m
}

// ContentForLLM strips non-content tags and minifies the page so the job
// fits in a prompt. JSON-LD scripts are kept since they often hold the job.
func ContentForLLM(page string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultContentLimit
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find(`script:not([type="application/ld+json"]), style, noscript, svg, iframe, link, nav, footer`).Remove()

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}

	minified, err := pageMinifier.String("text/html", cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to minify html: %w", err)
	}

	return utils.Truncate(minified, limit), nil
}
