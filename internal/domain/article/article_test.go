package article

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
)

func TestNewArticle(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		content    string
		isPremium  bool
		priceCents int64
		wantErr    bool
	}{
		{"free article", "Title", "Body", false, 0, false},
		{"premium article", "Title", "Body", true, 499, false},
		{"empty title", "", "Body", false, 0, true},
		{"whitespace title", "   ", "Body", false, 0, true},
		{"empty content", "Title", "", false, 0, true},
		{"premium without price", "Title", "Body", true, 0, true},
		{"premium negative price", "Title", "Body", true, -100, true},
		{"free with price", "Title", "Body", false, 499, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authorID := uuid.New()
			a, err := NewArticle(tt.title, tt.content, tt.isPremium, tt.priceCents, &authorID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewArticle() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && a.ID == uuid.Nil {
				t.Error("expected generated article id")
			}
		})
	}
}

func TestPreview_FreeArticleFullContent(t *testing.T) {
	a := &Article{Title: "Free", Content: strings.Repeat("long content ", 100), IsPremium: false}
	if a.Preview() != a.Content {
		t.Error("free articles should preview their full content")
	}
}

func TestPreview_ShortPremiumContent(t *testing.T) {
	a := &Article{Title: "Premium", Content: "short body", IsPremium: true, PriceCents: 499}
	if a.Preview() != "short body" {
		t.Errorf("short content should not be truncated, got %q", a.Preview())
	}
}

func TestPreview_TruncatesLongPremiumContent(t *testing.T) {
	a := &Article{Title: "Premium", Content: strings.Repeat("a", 1000), IsPremium: true, PriceCents: 499}

	preview := a.Preview()
	if !strings.HasSuffix(preview, "…") {
		t.Error("truncated preview should end with ellipsis")
	}
	if utf8.RuneCountInString(preview) > previewRunes+1 {
		t.Errorf("preview too long: %d runes", utf8.RuneCountInString(preview))
	}
}

func TestPreview_MultibyteContent(t *testing.T) {
	a := &Article{Title: "Premium", Content: strings.Repeat("héllo wörld ", 50), IsPremium: true, PriceCents: 499}

	preview := a.Preview()
	if !utf8.ValidString(preview) {
		t.Error("preview must not split multibyte runes")
	}
}
