package config

import (
	"github.com/nao1215/storeeda/internal/model"
	"github.com/nao1215/storeeda/internal/narrative"
)

// ReportSettings overrides the title page of the report.
type ReportSettings struct {
	Title       string   `yaml:"title,omitempty"`
	Authors     []string `yaml:"authors,omitempty"`
	Description string   `yaml:"description,omitempty"`

	// SpendByGender is "total" or "count".
	SpendByGender string `yaml:"spendByGender,omitempty"`
}

// ChartSettings configures chart artifacts.
type ChartSettings struct {
	Dir    string `yaml:"dir,omitempty"`
	Format string `yaml:"format,omitempty"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// File represents the structure of the .storeeda configuration file.
type File struct {
	// Dataset is the CSV read when no path is given on the command line.
	Dataset string `yaml:"dataset,omitempty"`

	Report ReportSettings `yaml:"report,omitempty"`
	Charts ChartSettings  `yaml:"charts,omitempty"`

	// Sections maps step names to text overrides for that section.
	Sections map[string]narrative.Text `yaml:"sections,omitempty"`

	// Defaults is applied to every section unless the section overrides it.
	Defaults narrative.Text `yaml:"defaults,omitempty"`
}

// SectionText returns the text of a section: builtin, then the file
// defaults, then the section's own overrides. Empty fields never replace
// text. A nil File returns builtin unchanged.
func (cf *File) SectionText(step string, builtin narrative.Text) narrative.Text {
	if cf == nil {
		return builtin
	}
	return builtin.Merge(cf.Defaults).Merge(cf.Sections[step])
}

// Narrative returns the text of every report section with the file's
// overrides applied.
func (cf *File) Narrative() narrative.Set {
	set := make(narrative.Set, len(model.Steps))
	for _, step := range model.Steps {
		set[step] = cf.SectionText(step, narrative.For(step))
	}
	return set
}

// ApplyTo replaces the report's title, authors and description with the
// ones set in the file.
func (cf *File) ApplyTo(r *model.Report) {
	if cf == nil {
		return
	}
	if cf.Report.Title != "" {
		r.Title = cf.Report.Title
	}
	if len(cf.Report.Authors) > 0 {
		r.Authors = append([]string(nil), cf.Report.Authors...)
	}
	if cf.Report.Description != "" {
		r.Description = cf.Report.Description
	}
}
