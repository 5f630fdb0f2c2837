package scraper

import (
	"testing"
)

func TestExternalIDCanonicalizesURL(t *testing.T) {
	t.Parallel()

	base := ExternalID("remoteok", "https://remoteok.com/remote-jobs/12345")

	variants := []string{
		"https://RemoteOK.com/remote-jobs/12345",
		"https://remoteok.com/remote-jobs/12345/",
		"https://remoteok.com/remote-jobs/12345?utm_source=feed",
		"https://remoteok.com/remote-jobs/12345#apply",
	}
	for _, v := range variants {
		if got := ExternalID("remoteok", v); got != base {
			t.Errorf("expected %q to canonicalize to the same id, got %q != %q", v, got, base)
		}
	}

	if ExternalID("adzuna", "https://remoteok.com/remote-jobs/12345") == base {
		t.Error("expected different platforms to produce different ids")
	}
}

func TestDetectRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		texts  []string
		expect bool
	}{
		{"english marker", []string{"Backend Engineer", "100% remote team"}, true},
		{"portuguese marker", []string{"Desenvolvedor", "trabalho remoto"}, true},
		{"home office", []string{"Analista", "regime home office"}, true},
		{"onsite only", []string{"Backend Engineer", "on-site in Berlin"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectRemote(tt.texts...); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestExtractSalaryRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		min  int
		max  int
	}{
		{"k suffix", "We pay $70k-$90k plus equity", 70000, 90000},
		{"thousands separators", "Salary: 70,000 - 90,000 USD", 70000, 90000},
		{"no salary", "Competitive compensation", 0, 0},
		{"inverted range ignored", "90k - 70k", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			min, max := ExtractSalaryRange(tt.text)
			if min != tt.min || max != tt.max {
				t.Fatalf("expected (%d, %d), got (%d, %d)", tt.min, tt.max, min, max)
			}
		})
	}
}

func TestExtractTechnologies(t *testing.T) {
	t.Parallel()

	techs := ExtractTechnologies("Senior Go developer, PostgreSQL and Kubernetes. Must know Docker.")

	want := map[string]bool{"go": false, "postgresql": false, "kubernetes": false, "docker": false}
	for _, tech := range techs {
		if _, ok := want[tech]; ok {
			want[tech] = true
		}
	}
	for tech, found := range want {
		if !found {
			t.Errorf("expected %q to be detected, got %v", tech, techs)
		}
	}

	if got := ExtractTechnologies("We sell gothic furniture"); len(got) != 0 {
		t.Errorf("expected no false positives from substrings, got %v", got)
	}
}
