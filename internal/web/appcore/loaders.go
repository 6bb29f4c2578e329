package appcore

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"docsearch/framework"
	"github.com/starfederation/datastar-go/datastar"
)

const maxTopK = 50
const maxPerPage = 100

func LoadHomePage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	_ framework.EmptyParams,
) (HomePageView, error) {
	api, err := documentsAPI(appCtx)
	if err != nil {
		return HomePageView{}, err
	}

	view := HomePageView{PageTitle: "Home"}
	stats, err := api.Stats(ctx)
	if err != nil {
		// The landing page stays usable while the backend is warming up.
		appCtx.logger.WarnContext(ctx, "stats unavailable", "error", err)
		return view, nil
	}

	view.Stats = stats
	return view, nil
}

func LoadSearchPage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params framework.EmptyParams,
) (SearchPageView, error) {
	return LoadSearchLive(ctx, appCtx, r, params, searchStateFromQuery(r, appCtx))
}

func LoadSearchLive(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	_ framework.EmptyParams,
	state SearchSignalState,
) (SearchPageView, error) {
	api, err := documentsAPI(appCtx)
	if err != nil {
		return SearchPageView{}, err
	}

	state = state.normalize(appCtx.settings.SearchTopK)
	if state.Query == "" {
		return newSearchPageView(state, nil), nil
	}

	result, err := api.Search(ctx, state.Query, state.TopK)
	if err != nil {
		return SearchPageView{}, err
	}

	return newSearchPageView(state, result), nil
}

func LoadDocumentPage(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	params framework.IDParams,
) (DocumentPageView, error) {
	api, err := documentsAPI(appCtx)
	if err != nil {
		return DocumentPageView{}, err
	}

	response, err := api.GetDocument(ctx, params.ID)
	if err != nil {
		return DocumentPageView{}, err
	}

	similar, err := api.GetSimilarDocuments(ctx, params.ID, appCtx.settings.SimilarTopK)
	if err != nil {
		appCtx.logger.WarnContext(ctx, "similar documents unavailable", "document_id", params.ID, "error", err)
		similar = nil
	}

	return newDocumentPageView(response.Document, similar), nil
}

func LoadBrowsePage(
	ctx context.Context,
	appCtx *Context,
	r *http.Request,
	params framework.EmptyParams,
) (BrowsePageView, error) {
	return LoadBrowseLive(ctx, appCtx, r, params, browseStateFromQuery(r, appCtx))
}

func LoadBrowseLive(
	ctx context.Context,
	appCtx *Context,
	_ *http.Request,
	_ framework.EmptyParams,
	state BrowseSignalState,
) (BrowsePageView, error) {
	api, err := documentsAPI(appCtx)
	if err != nil {
		return BrowsePageView{}, err
	}

	state = state.normalize(appCtx.settings.PerPage)
	page, err := api.ListDocuments(ctx, state.Page, state.PerPage)
	if err != nil {
		return BrowsePageView{}, err
	}

	return newBrowsePageView(page, state), nil
}

func ParseSearchLiveState(r *http.Request) (SearchSignalState, error) {
	fallback := SearchSignalState{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		TopK:  parsePositive(r.URL.Query().Get("top_k"), 0),
	}

	return readDatastarState(r, fallback)
}

func ParseBrowseLiveState(r *http.Request) (BrowseSignalState, error) {
	fallback := BrowseSignalState{
		Page:    parsePositive(r.URL.Query().Get("page"), 1),
		PerPage: parsePositive(r.URL.Query().Get("per_page"), 0),
	}

	return readDatastarState(r, fallback)
}

func readDatastarState[T interface{}](r *http.Request, fallback T) (T, error) {
	if r.Method == http.MethodGet && strings.TrimSpace(r.URL.Query().Get(datastar.DatastarKey)) == "" {
		return fallback, nil
	}

	parsed := fallback
	if err := datastar.ReadSignals(r, &parsed); err != nil {
		return fallback, err
	}

	return parsed, nil
}

func searchStateFromQuery(r *http.Request, appCtx *Context) SearchSignalState {
	state := SearchSignalState{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
		TopK:  parsePositive(r.URL.Query().Get("top_k"), 0),
	}
	if appCtx != nil {
		state = state.normalize(appCtx.settings.SearchTopK)
	}
	return state
}

func browseStateFromQuery(r *http.Request, appCtx *Context) BrowseSignalState {
	state := BrowseSignalState{
		Page:    parsePositive(r.URL.Query().Get("page"), 1),
		PerPage: parsePositive(r.URL.Query().Get("per_page"), 0),
	}
	if appCtx != nil {
		state = state.normalize(appCtx.settings.PerPage)
	}
	return state
}

func parsePositive(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
