package timeline

import (
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/chantier/internal/domain"
)

const (
	// DefaultInlineSpanDays is the length of a freshly opened draft.
	DefaultInlineSpanDays = 5
	// DefaultDraftTitle is used when a draft is confirmed with a blank title.
	DefaultDraftTitle = "New intervention"
)

var (
	ErrDragActive   = errors.New("a drag is in progress")
	ErrDraftPending = errors.New("an inline draft is already open")
)

// Draft is an ephemeral, editable sub-intervention anchored to a lot row.
type Draft struct {
	ParentID string
	Title    string
	Range    domain.DateRange
	Color    string
	RowY     int
}

// OpenDraft turns a click at x on the empty part of lot's row into a draft
// spanning spanDays days from the clicked date. It fails while a drag is
// active or another draft is open.
func OpenDraft(m Machine, pending *Draft, lot *domain.WorkPackage, x, rowY int, visibleStart time.Time, dayWidth, spanDays int) (*Draft, error) {
	if m.Dragging() {
		return nil, ErrDragActive
	}
	if pending != nil {
		return nil, ErrDraftPending
	}
	if spanDays < 1 {
		spanDays = DefaultInlineSpanDays
	}
	start := DateForPosition(x, visibleStart, dayWidth)
	return &Draft{
		ParentID: lot.ID,
		Range:    domain.DateRange{Start: start, End: domain.AddDays(start, spanDays-1)},
		Color:    lot.Color,
		RowY:     rowY,
	}, nil
}

// Payload builds the create call for the draft. A blank title falls back to
// defaultTitle.
func (d *Draft) Payload(defaultTitle string) domain.NewSubIntervention {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = defaultTitle
	}
	return domain.NewSubIntervention{
		ParentID:  d.ParentID,
		Title:     title,
		StartDate: d.Range.Start,
		EndDate:   d.Range.End,
		Color:     d.Color,
	}
}
