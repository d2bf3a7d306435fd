package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

// parseRange reads "2024-03-04:2024-03-08" (or with ".."). A single date is
// a one-day range.
func parseRange(s string) (domain.DateRange, error) {
	s = strings.TrimSpace(s)
	a, b, found := strings.Cut(s, "..")
	if !found {
		a, b, found = strings.Cut(s, ":")
	}
	if !found {
		b = a
	}
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	start, err := domain.ParseDate(a)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("range %q: %w", s, err)
	}
	end, err := domain.ParseDate(b)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("range %q: %w", s, err)
	}
	r := domain.DateRange{Start: start, End: end}
	if !r.Valid() {
		return domain.DateRange{}, fmt.Errorf("range %q: %w", s, domain.ErrInvalidRange)
	}
	return r, nil
}

// parseRanges splits on newlines, commas and semicolons.
func parseRanges(s string) ([]domain.DateRange, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})
	var out []domain.DateRange
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			continue
		}
		r, err := parseRange(f)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one date range is required")
	}
	return out, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// rangePayloads builds one create payload per range, all sharing the same
// parent and title.
func rangePayloads(parentID, title, color string, ranges []domain.DateRange) []domain.NewSubIntervention {
	out := make([]domain.NewSubIntervention, len(ranges))
	for i, r := range ranges {
		out[i] = domain.NewSubIntervention{
			ParentID:  parentID,
			Title:     title,
			StartDate: r.Start,
			EndDate:   r.End,
			Color:     color,
		}
	}
	return out
}

func foldName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// resolveLot finds a lot of the project by id or by name, ignoring case and
// repeated spaces.
func resolveLot(ctx context.Context, a *App, projectID, ref string) (*domain.WorkPackage, error) {
	lots, err := a.Lots.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	want := foldName(ref)
	for _, w := range lots {
		if w.ID == ref || foldName(w.Name) == want {
			return w, nil
		}
	}
	return nil, fmt.Errorf("lot %q: %w", ref, domain.ErrNotFound)
}

func resolveProject(ctx context.Context, a *App, ref string) (*domain.Project, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("project is required (use --project)")
	}
	return a.Projects.Resolve(ctx, strings.TrimSpace(ref))
}
