package timeline

import (
	"testing"

	"github.com/alexanderramin/chantier/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDraft_DefaultSpan(t *testing.T) {
	visibleStart := domain.NewDate(2024, 1, 1)
	parent := &domain.WorkPackage{ID: "lot-1", Color: "#b8bb26"}
	x := PositionForDate(domain.NewDate(2024, 2, 1), visibleStart, 20)

	d, err := OpenDraft(Machine{}, nil, parent, x+4, 88, visibleStart, 20, DefaultInlineSpanDays)

	require.NoError(t, err)
	assert.Equal(t, "lot-1", d.ParentID)
	assert.Equal(t, domain.NewDate(2024, 2, 1), d.Range.Start)
	assert.Equal(t, domain.NewDate(2024, 2, 5), d.Range.End)
	assert.Equal(t, "#b8bb26", d.Color)
	assert.Equal(t, 88, d.RowY)
}

func TestOpenDraft_Preconditions(t *testing.T) {
	parent := &domain.WorkPackage{ID: "lot-1"}
	start := domain.NewDate(2024, 1, 1)

	var m Machine
	m, _ = m.Reduce(press(GestureMove), 20)
	_, err := OpenDraft(m, nil, parent, 0, 0, start, 20, 5)
	assert.ErrorIs(t, err, ErrDragActive)

	_, err = OpenDraft(Machine{}, &Draft{ParentID: "lot-2"}, parent, 0, 0, start, 20, 5)
	assert.ErrorIs(t, err, ErrDraftPending)
}

func TestOpenDraft_ConfigurableSpan(t *testing.T) {
	start := domain.NewDate(2024, 1, 1)
	d, err := OpenDraft(Machine{}, nil, &domain.WorkPackage{ID: "l"}, 0, 0, start, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, d.Range.Start, d.Range.End)

	d, err = OpenDraft(Machine{}, nil, &domain.WorkPackage{ID: "l"}, 0, 0, start, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Range.Days(), "non-positive span falls back to the default")
}

func TestDraft_Payload(t *testing.T) {
	d := &Draft{ParentID: "lot-1", Range: domain.DateRange{Start: domain.NewDate(2024, 2, 1), End: domain.NewDate(2024, 2, 5)}, Color: "#fabd2f"}

	p := d.Payload(DefaultDraftTitle)
	assert.Equal(t, "New intervention", p.Title)
	assert.Equal(t, "lot-1", p.ParentID)
	assert.Equal(t, "#fabd2f", p.Color)
	assert.NoError(t, p.Validate())

	d.Title = "  Pose menuiseries "
	assert.Equal(t, "Pose menuiseries", d.Payload(DefaultDraftTitle).Title)
}
