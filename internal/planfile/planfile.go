// Package planfile reads and writes proposed intervention schedules. The same
// document shape is produced by the planning assistant and accepted by
// `chantier plan import`.
package planfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/chantier/internal/domain"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the format from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Entry is one proposed intervention. Dates are ISO calendar dates.
type Entry struct {
	Lot   string `json:"lot" yaml:"lot"`
	Title string `json:"title" yaml:"title"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// File is a proposed schedule. Project is informational.
type File struct {
	Project       string  `json:"project,omitempty" yaml:"project,omitempty"`
	Interventions []Entry `json:"interventions" yaml:"interventions"`
}

func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing YAML plan: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing JSON plan: %w", err)
		}
	}
	return &f, nil
}

func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	return Parse(data, FormatForPath(path))
}

func Write(w io.Writer, f *File, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encoding YAML plan: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encoding JSON plan: %w", err)
		}
		return nil
	}
}

// Proposals converts entries to domain proposals. Dates that do not parse
// are left zero so the mapping step excludes those entries.
func (f *File) Proposals() []domain.ProposedIntervention {
	out := make([]domain.ProposedIntervention, 0, len(f.Interventions))
	for _, e := range f.Interventions {
		p := domain.ProposedIntervention{
			WorkPackageName: e.Lot,
			Title:           e.Title,
			Color:           e.Color,
		}
		if d, err := domain.ParseDate(strings.TrimSpace(e.Start)); err == nil {
			p.StartDate = d
		}
		if d, err := domain.ParseDate(strings.TrimSpace(e.End)); err == nil {
			p.EndDate = d
		}
		out = append(out, p)
	}
	return out
}

func FromProposals(project string, ps []domain.ProposedIntervention) *File {
	f := &File{Project: project, Interventions: make([]Entry, 0, len(ps))}
	for _, p := range ps {
		e := Entry{Lot: p.WorkPackageName, Title: p.Title, Color: p.Color}
		if !p.StartDate.IsZero() {
			e.Start = domain.FormatDate(p.StartDate)
		}
		if !p.EndDate.IsZero() {
			e.End = domain.FormatDate(p.EndDate)
		}
		f.Interventions = append(f.Interventions, e)
	}
	return f
}
