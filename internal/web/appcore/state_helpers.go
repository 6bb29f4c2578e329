package appcore

import (
	"encoding/json"
	"strings"
)

type SearchSignalState struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}

func (s SearchSignalState) normalize(defaultTopK int) SearchSignalState {
	s.Query = strings.TrimSpace(s.Query)
	if s.TopK < 1 {
		s.TopK = defaultTopK
	}
	if s.TopK > maxTopK {
		s.TopK = maxTopK
	}
	return s
}

type BrowseSignalState struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

func (s BrowseSignalState) normalize(defaultPerPage int) BrowseSignalState {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.PerPage < 1 {
		s.PerPage = defaultPerPage
	}
	if s.PerPage > maxPerPage {
		s.PerPage = maxPerPage
	}
	return s
}

func SearchSignalsJSON(view SearchPageView) string {
	return marshalSignals(SearchSignalState{
		Query: view.Query,
		TopK:  view.TopK,
	})
}

func BrowseSignalsJSON(view BrowsePageView) string {
	return marshalSignals(BrowseSignalState{
		Page:    view.Pagination.Page,
		PerPage: view.PerPage,
	})
}

func marshalSignals[T interface{}](value T) string {
	payload, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}

	return string(payload)
}
