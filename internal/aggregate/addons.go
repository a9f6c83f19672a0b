package aggregate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/nao1215/storeeda/internal/dataset"
	"github.com/nao1215/storeeda/internal/model"
	"golang.org/x/text/cases"
)

const termColumn = "Term"

// AddOnTerms joins every non-null add-on cell with a space and splits the
// text into terms on whitespace and commas.
func AddOnTerms(rs *dataset.RecordSet) ([]string, error) {
	if rs.Len() == 0 {
		return []string{}, nil
	}

	df, err := frameOf(rs)
	if err != nil {
		return nil, err
	}
	df = df.Filter(dataframe.F{
		Colname:    dataset.ColumnAddOns,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return !el.IsNA()
		},
	})
	if df.Err != nil {
		return nil, fmt.Errorf("failed to drop empty add-ons: %w", df.Err)
	}

	text := strings.Join(df.Col(dataset.ColumnAddOns).Records(), " ")
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	}), nil
}

// AddOnFrequency counts how often each add-on term was purchased. Terms are
// compared case-insensitively and reported with their first spelling seen.
// The result is ordered by count descending, then term.
func AddOnFrequency(rs *dataset.RecordSet) ([]model.TermFrequency, error) {
	terms, err := AddOnTerms(rs)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return []model.TermFrequency{}, nil
	}

	fold := cases.Fold()
	keys := make([]string, len(terms))
	spelling := make(map[string]string)
	for i, term := range terms {
		keys[i] = fold.String(term)
		if _, ok := spelling[keys[i]]; !ok {
			spelling[keys[i]] = term
		}
	}

	df := dataframe.New(series.New(keys, series.String, termColumn))
	if df.Err != nil {
		return nil, fmt.Errorf("failed to build term frame: %w", df.Err)
	}
	counts, err := groupCounts(df, termColumn)
	if err != nil {
		return nil, err
	}

	type keyed struct {
		key string
		tf  model.TermFrequency
	}
	sorted := make([]keyed, 0, len(counts))
	for k, n := range counts {
		sorted = append(sorted, keyed{key: k, tf: model.TermFrequency{Term: spelling[k], Count: n}})
	}
	slices.SortFunc(sorted, func(a, b keyed) int {
		if c := cmp.Compare(b.tf.Count, a.tf.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	out := make([]model.TermFrequency, len(sorted))
	for i, s := range sorted {
		out[i] = s.tf
	}
	return out, nil
}
