package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PromptParams are the values the prompt method needs to poll for confirmation.
type PromptParams struct {
	Key  string
	TxID string
}

// Extractor is the page-extraction surface consumed by the flows.
type Extractor interface {
	// HiddenFields returns name/value pairs of the first form's inputs.
	HiddenFields(page string) map[string]string
	// FormFields returns name/value pairs of the index-th form on the page.
	FormFields(page string, index int) (map[string]string, bool)
	// MethodList returns the enabled method labels in page order. ok is false
	// when the page is not a method-selection page.
	MethodList(page string) ([]string, bool)
	PromptParams(page string) (PromptParams, bool)
	PhoneNumber(page string) string
	ErrorText(page string) (string, bool)
	Markers() Markers
}

// Selectors locate the page elements the extractor reads.
type Selectors struct {
	MethodLabel  string
	PickerList   string
	PromptHolder string
	PromptKey    string
	PromptTxID   string
	PhoneNumber  string
	ErrorMessage string
}

// DefaultSelectors matches the Google sign-in markup.
func DefaultSelectors() Selectors {
	return Selectors{
		MethodLabel:  "span.mSMaIe",
		PickerList:   "ol#challengePickerList",
		PromptHolder: "div.LJtPoc",
		PromptKey:    "data-api-key",
		PromptTxID:   "data-tx-id",
		PhoneNumber:  ".DZNRQe",
		ErrorMessage: "span#errorMsg",
	}
}

// HTML is the goquery-backed [Extractor].
type HTML struct {
	selectors Selectors
	markers   Markers
}

// NewHTML creates an HTML extractor.
func NewHTML(selectors Selectors, markers Markers) *HTML {
	return &HTML{selectors: selectors, markers: markers.Clone()}
}

// Default returns an HTML extractor with default selectors and markers.
func Default() *HTML {
	return NewHTML(DefaultSelectors(), DefaultMarkers())
}

func (h *HTML) Markers() Markers {
	return h.markers.Clone()
}

func (h *HTML) HiddenFields(page string) map[string]string {
	doc, ok := parse(page)
	if !ok {
		return map[string]string{}
	}
	return inputs(doc.Find("form").First())
}

func (h *HTML) FormFields(page string, index int) (map[string]string, bool) {
	doc, ok := parse(page)
	if !ok || index < 0 {
		return nil, false
	}
	forms := doc.Find("form")
	if index >= forms.Length() {
		return nil, false
	}
	return inputs(forms.Eq(index)), true
}

func (h *HTML) MethodList(page string) ([]string, bool) {
	doc, ok := parse(page)
	if !ok {
		return nil, false
	}
	if h.selectors.PickerList != "" && doc.Find(h.selectors.PickerList).Length() == 0 {
		return nil, false
	}
	var methods []string
	doc.Find(h.selectors.MethodLabel).Each(func(_ int, s *goquery.Selection) {
		methods = append(methods, strings.TrimSpace(s.Text()))
	})
	return methods, true
}

func (h *HTML) PromptParams(page string) (PromptParams, bool) {
	doc, ok := parse(page)
	if !ok {
		return PromptParams{}, false
	}
	holder := doc.Find(h.selectors.PromptHolder).First()
	key, hasKey := holder.Attr(h.selectors.PromptKey)
	tx, hasTx := holder.Attr(h.selectors.PromptTxID)
	if !hasKey || !hasTx || key == "" || tx == "" {
		return PromptParams{}, false
	}
	return PromptParams{Key: key, TxID: tx}, true
}

func (h *HTML) PhoneNumber(page string) string {
	doc, ok := parse(page)
	if !ok {
		return ""
	}
	return strings.TrimSpace(doc.Find(h.selectors.PhoneNumber).First().Text())
}

func (h *HTML) ErrorText(page string) (string, bool) {
	doc, ok := parse(page)
	if !ok {
		return "", false
	}
	sel := doc.Find(h.selectors.ErrorMessage).First()
	if sel.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(sel.Text()), true
}

func parse(page string) (*goquery.Document, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, false
	}
	return doc, true
}

func inputs(form *goquery.Selection) map[string]string {
	out := map[string]string{}
	form.Find("input").Each(func(_ int, s *goquery.Selection) {
		name, hasName := s.Attr("name")
		value, hasValue := s.Attr("value")
		if hasName && hasValue {
			out[name] = value
		}
	})
	return out
}
