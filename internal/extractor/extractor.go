// Package extractor parses listing-page HTML into raw product entries.
package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/hotdeals/deal-harvester/internal/platform/models"
	"github.com/samber/lo"
)

// Listing pages use two card markups: the classic <article> grid and the
// newer data-card-name <div> variant.
const (
	cardSelector     = "article.prd, div[data-card-name=prd]"
	titleSelector    = ".name"
	priceSelector    = "div.prc, .prc"
	oldPriceSelector = "div.old, .-old-prc, span.-old-prc"
	discountSelector = "div.bdg._dsct, span.bdg._dsct, span.tag._dsct, div.tag._dsct"
	linkSelector     = "a.core"
)

const siteBaseURL = "https://www.jumia.ma"

// Extractor extracts raw product entries from listing-page documents.
type Extractor struct{}

// Extract parses one listing page into raw entries in document order.
// Extraction is best effort per card: a card without a title is skipped.
func (e Extractor) Extract(html, pageURL, category string) ([]models.RawEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("can't parse listing page: %w", err)
	}

	var entries []models.RawEntry
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find(titleSelector).First().Text())
		if title == nil {
			return
		}

		entries = append(entries, models.RawEntry{
			Title:        title,
			PriceText:    cleanText(card.Find(priceSelector).First().Text()),
			OldPriceText: cleanText(card.Find(oldPriceSelector).First().Text()),
			DiscountText: cleanText(card.Find(discountSelector).First().Text()),
			BrandGuess:   brandGuess(*title),
			ProductLink:  extractLink(card),
			ImageURL:     extractImage(card),
			PageURL:      pageURL,
			Category:     category,
		})
	})

	return entries, nil
}

// cleanText normalizes whitespace: narrow no-break spaces are dropped,
// no-break spaces become regular ones, the result is trimmed.
// Returns nil for empty text.
func cleanText(txt string) *string {
	txt = strings.ReplaceAll(txt, "\u202f", "")
	txt = strings.ReplaceAll(txt, "\u00a0", " ")
	txt = strings.TrimSpace(txt)
	if txt == "" {
		return nil
	}

	return &txt
}

// brandGuess returns the first whitespace/hyphen-delimited token of the title.
func brandGuess(title string) *string {
	token, _, _ := strings.Cut(title, " ")
	token, _, _ = strings.Cut(token, "-")
	if token == "" {
		return nil
	}

	return &token
}

func extractLink(card *goquery.Selection) *string {
	href, ok := card.Find(linkSelector).First().Attr("href")
	if !ok || href == "" {
		return nil
	}

	return lo.ToPtr(siteBaseURL + href)
}

func extractImage(card *goquery.Selection) *string {
	img := card.Find("img").First()

	url, ok := img.Attr("data-src")
	if !ok || url == "" {
		url, _ = img.Attr("src")
	}
	if url == "" {
		return nil
	}
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}

	return &url
}
