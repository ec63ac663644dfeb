package classifier

import (
	"context"
	"strings"

	"github.com/pbaille/jobtrack/internal/fetcher"
)

// jobBoards are hosts whose site name is never the employer
var jobBoards = []string{
	"greenhouse", "lever", "workday", "linkedin", "indeed", "glassdoor",
	"ashby", "smartrecruiters", "workable", "welcome to the jungle",
	"wellfound", "angellist", "monster", "stepstone", "recruitee",
}

var titleSeparators = []string{" | ", " - ", " · ", " :: "}

// Name is the display name for a lead built from the listing
func (l Listing) Name() string {
	switch {
	case l.RoleTitle != "" && l.CompanyName != "":
		return l.RoleTitle + " at " + l.CompanyName
	case l.RoleTitle != "":
		return l.RoleTitle
	default:
		return l.CompanyName
	}
}

// GuessListing reads role and company from the page title and site name.
// "Role at Company" titles win, then a site name that is not a job board,
// then the second title segment.
func GuessListing(page *fetcher.Page) Listing {
	segments := splitTitle(page.Title)
	var l Listing
	if len(segments) > 0 {
		l.RoleTitle = segments[0]
	}

	if i := strings.LastIndex(l.RoleTitle, " at "); i > 0 {
		l.CompanyName = strings.TrimSpace(l.RoleTitle[i+len(" at "):])
		l.RoleTitle = strings.TrimSpace(l.RoleTitle[:i])
		return l
	}

	if page.SiteName != "" && !isJobBoard(page.SiteName) {
		l.CompanyName = page.SiteName
		return l
	}

	for _, seg := range segments[min(1, len(segments)):] {
		if !isJobBoard(seg) {
			l.CompanyName = trimCareers(seg)
			break
		}
	}
	return l
}

// Prefill returns listing details for a page. With a classifier the model
// answer overrides the title guess field by field; a model failure is
// returned alongside the guess.
func Prefill(ctx context.Context, c *Classifier, page *fetcher.Page) (Listing, error) {
	l := GuessListing(page)
	if c == nil {
		return l, nil
	}

	got, err := c.ClassifyListing(ctx, page)
	if err != nil {
		return l, err
	}
	if got.RoleTitle != "" {
		l.RoleTitle = got.RoleTitle
	}
	if got.CompanyName != "" {
		l.CompanyName = got.CompanyName
	}
	return l, nil
}

func splitTitle(title string) []string {
	parts := []string{strings.TrimSpace(title)}
	for _, sep := range titleSeparators {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}

	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isJobBoard(name string) bool {
	n := strings.ToLower(name)
	for _, b := range jobBoards {
		if strings.Contains(n, b) {
			return true
		}
	}
	return false
}

func trimCareers(s string) string {
	for _, suffix := range []string{" Careers", " Jobs", " careers", " jobs"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return strings.TrimSpace(s)
}
