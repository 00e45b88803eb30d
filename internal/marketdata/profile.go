package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/trendsignal/internal/contracts"
)

const profileUnknown = "Unknown"

// FetchProfile scrapes sector and industry from the quote profile page.
// Missing fields fall back to "Unknown" rather than failing, matching how
// classification data is best-effort context, not a scoring input.
func (c *Client) FetchProfile(ctx context.Context, symbol string) (*contracts.Profile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := fmt.Sprintf("%s/quote/%s/profile", c.cfg.ProfileBaseURL, url.PathEscape(symbol))

	resp, err := c.httpClient.Get(ctx, fullURL, defaultHeaders)
	if err != nil {
		return nil, fmt.Errorf("profile request for %s failed: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile request for %s returned status %d", symbol, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse profile page for %s: %w", symbol, err)
	}

	profile := parseProfileDocument(doc)
	profile.Symbol = symbol

	c.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"sector":   profile.Sector,
		"industry": profile.Industry,
	}).Debug("Fetched profile")

	return profile, nil
}

// parseProfileDocument pulls sector/industry out of the profile page.
// The page labels each value with a dt/strong pair inside the company
// details block.
func parseProfileDocument(doc *goquery.Document) *contracts.Profile {
	profile := &contracts.Profile{
		Sector:   profileUnknown,
		Industry: profileUnknown,
	}

	doc.Find("dt, span").EachWithBreak(func(_ int, label *goquery.Selection) bool {
		text := strings.TrimSpace(label.Text())
		switch {
		case strings.HasPrefix(text, "Sector"):
			if v := nextValueText(label); v != "" {
				profile.Sector = v
			}
		case strings.HasPrefix(text, "Industry"):
			if v := nextValueText(label); v != "" {
				profile.Industry = v
			}
		}
		return profile.Sector == profileUnknown || profile.Industry == profileUnknown
	})

	return profile
}

// nextValueText returns the trimmed text of the element following a label.
func nextValueText(label *goquery.Selection) string {
	value := label.NextFiltered("dd, a, strong")
	if value.Length() == 0 {
		value = label.Next()
	}
	return strings.TrimSpace(value.Text())
}
