package jobs

import (
	"encoding/json"
	"os"
)

const (
	PostingIDField      = "ID"
	PostingCompanyField = "Company"
)

// Postings wraps a list of postings with the collection helpers the CLI
// commands rely on.
type Postings struct {
	Items []*JobPosting
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) Titles() []string {
	titles := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		titles = append(titles, item.Title)
	}
	return titles
}

// Exclude removes postings whose named string field matches any of the
// provided values and returns the ids of the removed items.
func (p *Postings) Exclude(field string, values []string) []string {
	if len(values) == 0 {
		return nil
	}

	lookup := make(map[string]struct{}, len(values))
	for _, v := range values {
		lookup[v] = struct{}{}
	}

	var removed []string
	kept := make([]*JobPosting, 0, len(p.Items))
	for _, item := range p.Items {
		if _, ok := lookup[item.GetStringField(field)]; ok {
			removed = append(removed, item.ID)
			continue
		}
		kept = append(kept, item)
	}

	p.Items = kept
	return removed
}

func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (p *JobPosting) GetStringField(name string) string {
	switch name {
	case PostingIDField:
		return p.ID
	case PostingCompanyField:
		return p.Company
	default:
		return ""
	}
}
