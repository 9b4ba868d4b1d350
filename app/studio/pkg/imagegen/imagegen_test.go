package imagegen

import (
	"context"
	"strings"
	"testing"
)

func TestPlaceholderURL(t *testing.T) {
	got := PlaceholderURL("instagram", "Summer Sale", 1024, 1024)
	if !strings.HasPrefix(got, "https://placehold.co/1024x1024?text=") {
		t.Errorf("PlaceholderURL() = %q", got)
	}
	if !strings.Contains(got, "instagram") {
		t.Errorf("PlaceholderURL() should encode the channel, got %q", got)
	}
	if strings.Contains(got, " ") {
		t.Errorf("PlaceholderURL() must be query-escaped, got %q", got)
	}
}

func TestIsPlaceholder(t *testing.T) {
	if !IsPlaceholder("https://placehold.co/600x400?text=x") {
		t.Error("IsPlaceholder(placehold.co) = false, want true")
	}
	if IsPlaceholder("https://cdn.example.com/img.png") {
		t.Error("IsPlaceholder(cdn url) = true, want false")
	}
}

func TestDimensionsFor(t *testing.T) {
	cases := []struct {
		channel string
		width   int
		height  int
	}{
		{"instagram", 1024, 1024},
		{"facebook", 1200, 630},
		{"twitter", 1200, 675},
		{"linkedin", 1200, 627},
		{"email", 600, 400},
		{"unknown", 600, 400},
	}
	for _, c := range cases {
		d := dimensionsFor(c.channel)
		if d.width != c.width || d.height != c.height {
			t.Errorf("dimensionsFor(%q) = %dx%d, want %dx%d", c.channel, d.width, d.height, c.width, c.height)
		}
	}
}

func TestGenerate_NoClientReturnsPlaceholder(t *testing.T) {
	g := NewGenerator(nil, nil, false)
	got := g.Generate(context.Background(), "instagram", "Summer Sale", "50% off")

	if !IsPlaceholder(got) {
		t.Errorf("Generate() = %q, want placeholder", got)
	}
	if !strings.Contains(got, "1024x1024") {
		t.Errorf("Generate() placeholder should use instagram dimensions, got %q", got)
	}
}

func TestImagePrompt_PerFamily(t *testing.T) {
	email := imagePrompt("email", "Launch", "brief")
	social := imagePrompt("instagram", "Launch", "brief")
	general := imagePrompt("other", "Launch", "brief")

	if !strings.Contains(email, "email") {
		t.Errorf("imagePrompt(email) = %q", email)
	}
	if !strings.Contains(social, "instagram") {
		t.Errorf("imagePrompt(instagram) = %q", social)
	}
	if email == general || social == general {
		t.Error("prompt families should differ")
	}
}
