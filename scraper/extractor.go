package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/jobfit/backend/logger"
	"github.com/jobfit/backend/models"
	"github.com/jobfit/backend/utils"
)

// ErrNotJobPosting is returned when a page has no recognizable job
var ErrNotJobPosting = errors.New("page does not contain a job posting")

var (
	titleSelectors       = []string{"h1.job-title", "h1"}
	descriptionSelectors = []string{"div.job-description", "section.description", "div#job-description"}
	locationSelectors    = []string{"span.job-location", `span[itemprop="addressLocality"]`}
	companySelectors     = []string{"div.company-name", `span[itemprop="name"]`}
	paySelectors         = []string{"span.salary", "div.salary", `[itemprop="baseSalary"]`}
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// Extractor pulls job details out of a job posting page
type Extractor struct {
	keywords Keywords
	log      zerolog.Logger
}

// NewExtractor creates an extractor using the given keyword set
func NewExtractor(keywords Keywords) *Extractor {
	return &Extractor{keywords: keywords, log: logger.With("extractor")}
}

// Extract parses html and fills every field, falling back from JSON-LD to
// meta tags to page selectors. Missing values are models.NotAvailable.
func (e *Extractor) Extract(html string) (models.JobDetails, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.NewJobDetails(), fmt.Errorf("failed to parse html: %w", err)
	}

	var d models.JobDetails

	if node, ok := findJobPosting(doc); ok {
		f := parseJobPosting(node)
		d.JobTitle = f.Title
		d.JobDescription = f.Description
		d.Location = f.Location
		d.CompanyName = f.Company
		d.PayRange = f.Pay
		e.log.Debug().Str("title", f.Title).Msg("found JSON-LD job posting")
	}

	// Meta tags only fill what structured data left empty.
	fill(&d.CompanyName, metaContent(doc, "og:site_name"))
	fill(&d.JobTitle, metaContent(doc, "og:title"))
	fill(&d.JobDescription, metaContent(doc, "og:description"))

	fill(&d.JobTitle, firstText(doc, titleSelectors))
	fill(&d.JobDescription, firstText(doc, descriptionSelectors))
	fill(&d.Location, firstText(doc, locationSelectors))
	fill(&d.CompanyName, firstText(doc, companySelectors))
	fill(&d.PayRange, firstText(doc, paySelectors))

	fill(&d.CompanyName, e.companyFromTitle(doc))

	d.JobTitle = finalize(d.JobTitle)
	d.JobDescription = finalize(d.JobDescription)
	d.CompanyName = finalize(d.CompanyName)
	d.Location = finalize(d.Location)
	d.PayRange = finalize(d.PayRange)

	d.Sections = make(map[string]string, len(e.keywords.Sections))
	for _, key := range e.keywords.SectionKeys() {
		d.Sections[key] = e.sectionText(doc, key)
	}

	return d, nil
}

// fill sets *dst to v when *dst has no usable value yet
func fill(dst *string, v string) {
	if models.IsAvailable(utils.CleanText(*dst)) {
		return
	}
	if v = utils.CleanText(v); models.IsAvailable(v) {
		*dst = v
	}
}

func finalize(v string) string {
	v = utils.CleanText(v)
	if v == "" {
		return models.NotAvailable
	}
	return v
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property="%s"]`, property)).First().Attr("content")
	return content
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			if text := utils.JoinedText(s); text != "" {
				return text
			}
		}
	}
	return ""
}

// companyFromTitle matches words of the page title against known companies
func (e *Extractor) companyFromTitle(doc *goquery.Document) string {
	title := doc.Find("title").First().Text()
	for _, word := range strings.Fields(title) {
		word = strings.Trim(word, ".,:;|-–()[]")
		for _, company := range e.keywords.Companies {
			if strings.EqualFold(word, company) {
				return word
			}
		}
	}
	return ""
}

// sectionText finds the first element whose own text contains one of the
// section's headers and returns the text of that element. A bare heading
// also takes the content up to the next heading.
func (e *Extractor) sectionText(doc *goquery.Document, key string) string {
	for _, header := range e.keywords.Sections[key] {
		needle := strings.ToLower(header)

		var match *goquery.Selection
		doc.Find("body *").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			switch goquery.NodeName(s) {
			case "script", "style", "noscript":
				return true
			}
			if strings.Contains(strings.ToLower(ownText(s)), needle) {
				match = s
				return false
			}
			return true
		})
		if match == nil {
			continue
		}

		text := utils.JoinedText(match)
		if match.Is(headingSelector) {
			if rest := utils.JoinedText(match.NextUntil(headingSelector)); rest != "" {
				text = text + " " + rest
			}
		}

		e.log.Debug().Str("section", key).Str("header", header).Msg("extracted section")
		return finalize(text)
	}

	return models.NotAvailable
}

// ownText is the text of s's direct text children
func ownText(s *goquery.Selection) string {
	var sb strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			sb.WriteString(c.Text())
		}
	})
	return sb.String()
}
