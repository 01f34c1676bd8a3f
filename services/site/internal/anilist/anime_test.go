package anilist

import "testing"

func intp(v int) *int { return &v }

func TestAnimeLabels_Missing(t *testing.T) {
	a := Anime{}
	if a.ScoreLabel() != "N/A" || a.DurationLabel() != "N/A" || a.EpisodesLabel() != "?" {
		t.Fatalf("unexpected labels %q %q %q", a.ScoreLabel(), a.DurationLabel(), a.EpisodesLabel())
	}
	if a.Studio() != "" {
		t.Fatalf("expected empty studio, got %q", a.Studio())
	}
	if a.Lifecycle() != LifecycleOther {
		t.Fatalf("expected other, got %s", a.Lifecycle())
	}
}

func TestAnimeLabels_Present(t *testing.T) {
	a := Anime{Duration: intp(24), Episodes: intp(12), AverageScore: intp(0), Status: "FINISHED"}
	if a.DurationLabel() != "24 min" {
		t.Fatalf("unexpected duration %q", a.DurationLabel())
	}
	if a.EpisodesLabel() != "12" {
		t.Fatalf("unexpected episodes %q", a.EpisodesLabel())
	}
	if a.ScoreLabel() != "N/A" {
		t.Fatalf("zero score should be N/A, got %q", a.ScoreLabel())
	}
	if a.Lifecycle() != LifecycleFinished {
		t.Fatalf("expected finished, got %s", a.Lifecycle())
	}
}

func TestTitleFallbacks(t *testing.T) {
	a := Anime{Title: Title{English: "Frieren"}}
	if a.DisplayTitle() != "Frieren" {
		t.Fatalf("display title should fall back to english, got %q", a.DisplayTitle())
	}
	b := Anime{Title: Title{Romaji: "Sousou no Frieren"}}
	if b.SpotlightTitle() != "Sousou no Frieren" {
		t.Fatalf("spotlight title should fall back to romaji, got %q", b.SpotlightTitle())
	}
}

func TestCleanDescription(t *testing.T) {
	a := Anime{Description: "First line.<br>Second <i>line</i>. "}
	if got := a.CleanDescription(); got != "First line.\nSecond line." {
		t.Fatalf("unexpected description %q", got)
	}
}

func TestCover(t *testing.T) {
	a := Anime{CoverImage: CoverImage{Large: "l.jpg"}}
	if a.Cover() != "l.jpg" {
		t.Fatalf("unexpected cover %q", a.Cover())
	}
	a.CoverImage.ExtraLarge = "xl.jpg"
	if a.Cover() != "xl.jpg" {
		t.Fatalf("unexpected cover %q", a.Cover())
	}
}
