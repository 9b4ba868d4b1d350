package model

import "testing"

func TestParseChannel(t *testing.T) {
	cases := []struct {
		name string
		want Channel
	}{
		{"email", ChannelEmail},
		{"instagram", ChannelInstagram},
		{"facebook", ChannelFacebook},
		{"twitter", ChannelTwitter},
		{"linkedin", ChannelLinkedIn},
		{"", ChannelGeneral},
		{"EMAIL", ChannelGeneral}, // 大小写敏感，未知标识走通用渠道
		{"carrier_pigeon", ChannelGeneral},
	}
	for _, c := range cases {
		if got := ParseChannel(c.name); got != c.want {
			t.Errorf("ParseChannel(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestChannel_IsSocial(t *testing.T) {
	social := []Channel{ChannelInstagram, ChannelFacebook, ChannelTwitter, ChannelLinkedIn}
	for _, ch := range social {
		if !ch.IsSocial() {
			t.Errorf("IsSocial(%v) = false, want true", ch)
		}
	}
	if ChannelEmail.IsSocial() || ChannelGeneral.IsSocial() {
		t.Error("email and general are not social channels")
	}
}

func TestGenerationRequest_Normalize(t *testing.T) {
	req := &GenerationRequest{Title: "t", Brief: "b"}
	req.Normalize()
	if req.BrandProfileID != "demo" {
		t.Errorf("BrandProfileID = %q, want demo", req.BrandProfileID)
	}
	if req.ContentLength != "medium" {
		t.Errorf("ContentLength = %q, want medium", req.ContentLength)
	}

	req = &GenerationRequest{BrandProfileID: "fashion_brand", ContentLength: "short"}
	req.Normalize()
	if req.BrandProfileID != "fashion_brand" || req.ContentLength != "short" {
		t.Error("Normalize() must not override explicit fields")
	}
}

func TestJob_Terminal(t *testing.T) {
	if (&Job{Status: JobStatusProcessing}).Terminal() {
		t.Error("processing job is not terminal")
	}
	if !(&Job{Status: JobStatusCompleted}).Terminal() {
		t.Error("completed job is terminal")
	}
	if !(&Job{Status: JobStatusFailed}).Terminal() {
		t.Error("failed job is terminal")
	}
}
