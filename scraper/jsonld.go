package scraper

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jobfit/backend/utils"
)

// jobPostingFields holds the raw values pulled from a JobPosting node
type jobPostingFields struct {
	Title       string
	Description string
	Location    string
	Company     string
	Pay         string
}

// findJobPosting returns the first JobPosting node across every JSON-LD
// script on the page
func findJobPosting(doc *goquery.Document) (map[string]any, bool) {
	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return true
		}
		if node, ok := searchJobPosting(data); ok {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}

// searchJobPosting walks objects, arrays and @graph containers
func searchJobPosting(data any) (map[string]any, bool) {
	switch v := data.(type) {
	case []any:
		for _, item := range v {
			if node, ok := searchJobPosting(item); ok {
				return node, true
			}
		}
	case map[string]any:
		if isType(v["@type"], "JobPosting") {
			return v, true
		}
		if graph, ok := v["@graph"]; ok {
			return searchJobPosting(graph)
		}
	}
	return nil, false
}

func isType(t any, want string) bool {
	switch v := t.(type) {
	case string:
		return v == want
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func parseJobPosting(node map[string]any) jobPostingFields {
	return jobPostingFields{
		Title:       stringValue(node["title"]),
		Description: descriptionText(stringValue(node["description"])),
		Location:    jobLocation(node),
		Company:     organizationName(node["hiringOrganization"]),
		Pay:         formatSalary(node["baseSalary"]),
	}
}

// descriptionText strips markup, including markup that was entity-escaped
// inside the JSON string
func descriptionText(raw string) string {
	text := utils.StripHTML(raw)
	if strings.Contains(text, "<") && strings.Contains(text, ">") {
		text = utils.StripHTML(text)
	}
	return text
}

func jobLocation(node map[string]any) string {
	loc := node["jobLocation"]
	if arr, ok := loc.([]any); ok {
		for _, item := range arr {
			if place := placeName(item); place != "" {
				return place
			}
		}
		loc = nil
	}
	if place := placeName(loc); place != "" {
		return place
	}

	if strings.EqualFold(stringValue(node["jobLocationType"]), "TELECOMMUTE") {
		return "Remote"
	}
	return ""
}

func placeName(place any) string {
	obj, ok := place.(map[string]any)
	if !ok {
		return stringValue(place)
	}

	switch addr := obj["address"].(type) {
	case string:
		return addr
	case map[string]any:
		for _, key := range []string{"addressLocality", "addressRegion"} {
			if v := stringValue(addr[key]); v != "" {
				return v
			}
		}
		return organizationName(addr["addressCountry"])
	}
	return stringValue(obj["name"])
}

// organizationName accepts either an object with a name or a plain string
func organizationName(v any) string {
	if obj, ok := v.(map[string]any); ok {
		return stringValue(obj["name"])
	}
	return stringValue(v)
}

// formatSalary renders a MonetaryAmount as "CUR min-max per UNIT"
func formatSalary(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return stringValue(v)
	}

	currency := stringValue(obj["currency"])
	value := obj["value"]
	unit := stringValue(obj["unitText"])

	var amount string
	switch q := value.(type) {
	case map[string]any:
		if u := stringValue(q["unitText"]); u != "" {
			unit = u
		}
		minV, maxV := stringValue(q["minValue"]), stringValue(q["maxValue"])
		switch {
		case minV != "" && maxV != "" && minV != maxV:
			amount = minV + "-" + maxV
		case minV != "":
			amount = minV
		case maxV != "":
			amount = maxV
		default:
			amount = stringValue(q["value"])
		}
	default:
		amount = stringValue(q)
	}

	if amount == "" {
		return ""
	}

	parts := []string{}
	if currency != "" {
		parts = append(parts, currency)
	}
	parts = append(parts, amount)
	if unit != "" {
		parts = append(parts, "per", unit)
	}
	return strings.Join(parts, " ")
}

// stringValue formats scalars; objects and arrays yield ""
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return fmt.Sprint(t)
	}
	return ""
}
