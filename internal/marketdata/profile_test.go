package marketdata

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestParseProfileDocument(t *testing.T) {
	tests := []struct {
		name         string
		html         string
		wantSector   string
		wantIndustry string
	}{
		{
			name: "dt/dd layout",
			html: `<dl>
				<dt>Sector:</dt><dd>Technology</dd>
				<dt>Industry:</dt><dd>Consumer Electronics</dd>
			</dl>`,
			wantSector:   "Technology",
			wantIndustry: "Consumer Electronics",
		},
		{
			name: "span/a layout",
			html: `<div>
				<span>Sector</span><a href="#">Healthcare</a>
				<span>Industry</span><a href="#">Biotechnology</a>
			</div>`,
			wantSector:   "Healthcare",
			wantIndustry: "Biotechnology",
		},
		{
			name:         "missing labels fall back to Unknown",
			html:         `<div><span>Employees</span><strong>164,000</strong></div>`,
			wantSector:   "Unknown",
			wantIndustry: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("parse HTML: %v", err)
			}

			profile := parseProfileDocument(doc)
			if profile.Sector != tt.wantSector {
				t.Errorf("sector = %q, want %q", profile.Sector, tt.wantSector)
			}
			if profile.Industry != tt.wantIndustry {
				t.Errorf("industry = %q, want %q", profile.Industry, tt.wantIndustry)
			}
		})
	}
}
