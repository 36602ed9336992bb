package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dictee/internal/i18n"
	"dictee/internal/models"
)

const dateLayout = "2006-01-02"

// legacyPeriodID identifies the single period of an old-style metadata
// file; its catalog is the content root
const legacyPeriodID = "current"

// dateField keeps the literal text of a YAML date so that both quoted and
// bare YYYY-MM-DD values are accepted
type dateField string

func (d *dateField) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	*d = dateField(strings.TrimSpace(value.Value))
	return nil
}

func (d dateField) parse() (time.Time, error) {
	if d == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", string(d), err)
	}
	return t, nil
}

type metadataDocument struct {
	Periods []periodEntry `yaml:"periods"`
	Dictee  *legacyEntry  `yaml:"dictee"`
}

type periodEntry struct {
	ID       string    `yaml:"id"`
	Label    string    `yaml:"label"`
	Sounds   string    `yaml:"sounds"`
	Start    dateField `yaml:"start"`
	End      dateField `yaml:"end"`
	Catalog  string    `yaml:"catalog"`
	Language string    `yaml:"language"`
}

type legacyEntry struct {
	Name             string    `yaml:"name"`
	Sounds           string    `yaml:"sounds"`
	DateOfGeneration dateField `yaml:"date_of_generation"`
}

// ParseMetadata decodes the period document and returns periods sorted by
// start date, most recent first
func ParseMetadata(data []byte, defaultLocale i18n.Locale) ([]models.Period, error) {
	var doc metadataDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}

	entries := doc.Periods
	if len(entries) == 0 && doc.Dictee != nil {
		entries = []periodEntry{{
			ID:      legacyPeriodID,
			Label:   doc.Dictee.Name,
			Sounds:  doc.Dictee.Sounds,
			Start:   doc.Dictee.DateOfGeneration,
			Catalog: ".",
		}}
	}

	periods := make([]models.Period, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		p, err := e.toPeriod(defaultLocale)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", i+1, err)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("period %d: duplicate id %q", i+1, p.ID)
		}
		seen[p.ID] = true
		periods = append(periods, p)
	}

	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].Start.After(periods[j].Start)
	})
	return periods, nil
}

func (e periodEntry) toPeriod(defaultLocale i18n.Locale) (models.Period, error) {
	start, err := e.Start.parse()
	if err != nil {
		return models.Period{}, fmt.Errorf("start: %w", err)
	}
	end, err := e.End.parse()
	if err != nil {
		return models.Period{}, fmt.Errorf("end: %w", err)
	}
	if !end.IsZero() && end.Before(start) {
		return models.Period{}, fmt.Errorf("end %s is before start %s", e.End, e.Start)
	}

	id := strings.TrimSpace(e.ID)
	if id == "" {
		id = strings.TrimSpace(e.Catalog)
	}
	if id == "" && !start.IsZero() {
		id = start.Format(dateLayout)
	}
	if id == "" {
		return models.Period{}, fmt.Errorf("period needs an id, catalog or start date")
	}

	catalog := strings.TrimSpace(e.Catalog)
	if catalog == "" {
		catalog = id
	}

	locale := defaultLocale
	if e.Language != "" {
		locale = i18n.ParseLocale(e.Language)
	}

	label := e.Label
	if label == "" {
		label = id
	}

	return models.Period{
		ID:       id,
		Label:    label,
		Sounds:   e.Sounds,
		Start:    start,
		End:      end,
		Catalog:  catalog,
		Language: string(locale),
	}, nil
}
