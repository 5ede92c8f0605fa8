package notices

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hwatkins/procurement-finder/internal/models"
)

// Criteria is one search request's filter set. Empty slices and empty/
// unparseable bounds mean "no filter" for that dimension.
type Criteria struct {
	Keywords []string `json:"keywords"`
	Types    []string `json:"types"`
	Statuses []string `json:"statuses"`
	Stages   []string `json:"procurementStages"`
	Sources  []string `json:"sources"`

	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`

	ValueFrom *float64 `json:"valueFrom"`
	ValueTo   *float64 `json:"valueTo"`
}

// typeAliases collapses synonymous Contracts Finder type tokens. Tokens not
// in the table alias to themselves.
var typeAliases = map[string]string{
	"opportunity":       "contract",
	"contract":          "contract",
	"futureopportunity": "pipeline",
	"pipeline":          "pipeline",
}

// sourceAliases expands a requested source value to every tag historically
// used for that source.
var sourceAliases = map[string][]string{
	"cf":              {"cf", "contractsfinder"},
	"contractsfinder": {"cf", "contractsfinder"},
	"fts":             {"fts", "findatender"},
	"findatender":     {"fts", "findatender"},
}

// ApplyFilters returns the notices passing every requested criterion. It
// only removes, never reorders; sorting is a separate step. Some rules are
// source-conditional: types and statuses apply to Contracts Finder notices
// only, keywords (plus the authority check) to Find a Tender notices only.
func ApplyFilters(items []models.Notice, c Criteria) []models.Notice {
	out := make([]models.Notice, 0, len(items))
	for _, n := range items {
		if passesFilters(n, c) {
			out = append(out, n)
		}
	}
	return out
}

func passesFilters(n models.Notice, c Criteria) bool {
	if !passesSources(n, c.Sources) {
		return false
	}
	if !passesStages(n, c.Stages) {
		return false
	}
	if n.Source == models.SourceContractsFinder {
		if !passesTypes(n, c.Types) {
			return false
		}
		if !passesStatuses(n, c.Statuses) {
			return false
		}
	}
	if n.Source == models.SourceFindTender {
		if !passesKeywords(n, c.Keywords) {
			return false
		}
	}
	if !passesDateRange(n, c.DateFrom, c.DateTo) {
		return false
	}
	return passesValueRange(n, c.ValueFrom, c.ValueTo)
}

func passesSources(n models.Notice, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	tag := normalizeToken(string(n.Source))
	for _, r := range requested {
		for _, alias := range expandSource(r) {
			if tag == alias {
				return true
			}
		}
	}
	return false
}

func expandSource(s string) []string {
	norm := normalizeToken(s)
	if aliases, ok := sourceAliases[norm]; ok {
		return aliases
	}
	return []string{norm}
}

// passesStages drops a notice only when its derived stage is known and not
// in the requested set; an unclassifiable notice passes through.
func passesStages(n models.Notice, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	stage, ok := DeriveStage(n)
	if !ok {
		return true
	}
	derived := normalizeToken(string(stage))
	for _, r := range requested {
		if normalizeToken(r) == derived {
			return true
		}
	}
	return false
}

func passesTypes(n models.Notice, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	have := aliasType(strVal(n.NoticeType))
	for _, r := range requested {
		if aliasType(r) == have {
			return true
		}
	}
	return false
}

func aliasType(s string) string {
	norm := normalizeToken(s)
	if alias, ok := typeAliases[norm]; ok {
		return alias
	}
	return norm
}

func passesStatuses(n models.Notice, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	have := normalizeToken(strVal(n.NoticeStatus))
	for _, r := range requested {
		if normalizeToken(r) == have {
			return true
		}
	}
	return false
}

// passesKeywords requires at least one keyword in the notice's text blob
// AND an independent authority match; keyword relevance for Contracts
// Finder is applied upstream at fetch time, never here.
func passesKeywords(n models.Notice, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	blob := keywordBlob(n)
	matched := false
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(blob, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	return IsAuthorityMatch(&blob)
}

// keywordBlob concatenates the searchable text fields, lowercased, with
// HTML stripped from the description.
func keywordBlob(n models.Notice) string {
	parts := []string{
		strVal(n.Title),
		HTMLToText(strVal(n.Description)),
		strVal(n.CpvDescription),
		strVal(n.CpvDescriptionExpanded),
		strVal(n.OrganisationName),
		strVal(n.OrganisationAddress),
		strVal(n.RegionText),
		strVal(n.Region),
		strVal(n.NoticeIdentifier),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// passesDateRange resolves the notice's candidate date (published, falling
// back through last update, awarded, deadline) and checks it against the
// inclusive day bounds. A notice with no resolvable date is dropped once
// either bound is set; an unparseable bound is treated as absent.
func passesDateRange(n models.Notice, fromRaw, toRaw string) bool {
	from, hasFrom := parseBound(fromRaw)
	to, hasTo := parseBound(toRaw)
	if !hasFrom && !hasTo {
		return true
	}

	at, ok := noticeFilterDate(n)
	if !ok {
		return false
	}
	if hasFrom && at.Before(startOfDay(from)) {
		return false
	}
	if hasTo && at.After(endOfDay(to)) {
		return false
	}
	return true
}

func noticeFilterDate(n models.Notice) (time.Time, bool) {
	candidates := []*string{&n.PublishedDate, n.LastNotifiableUpdate, n.AwardedDate, n.DeadlineDate}
	for _, c := range candidates {
		if c == nil || *c == "" {
			continue
		}
		if t, ok := parseNoticeDate(*c); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

var noticeDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseNoticeDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range noticeDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseBound(raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, false
	}
	return parseNoticeDate(raw)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// passesValueRange checks whether any of the notice's finite value fields
// falls inside the closed range. A notice with no parseable value at all
// passes; only a fully out-of-range set of values rejects.
func passesValueRange(n models.Notice, from, to *float64) bool {
	if from == nil && to == nil {
		return true
	}

	var values []float64
	for _, v := range []*float64{n.ValueLow, n.ValueHigh, n.AwardedValue} {
		if v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return true
	}

	for _, v := range values {
		if from != nil && v < *from {
			continue
		}
		if to != nil && v > *to {
			continue
		}
		return true
	}
	return false
}

// SortByPublishedDesc orders notices newest-first by their published date.
// Notices without a parseable date sort last, keeping their relative order.
func SortByPublishedDesc(items []models.Notice) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, okI := parseNoticeDate(items[i].PublishedDate)
		tj, okJ := parseNoticeDate(items[j].PublishedDate)
		if okI != okJ {
			return okI
		}
		return ti.After(tj)
	})
}
