package handlers

import (
	"net/http"

	"eduassist/internal/corpus"
)

// FacetsHandler serves the distinct languages, subjects and levels of the
// loaded corpus, for the presentation layer's filter choices. The corpus is
// immutable while serving, so the facets are computed once.
type FacetsHandler struct {
	facets corpus.Facets
}

// NewFacetsHandler creates a new FacetsHandler.
func NewFacetsHandler(facets corpus.Facets) *FacetsHandler {
	return &FacetsHandler{facets: facets}
}

// ServeHTTP handles facet reads.
func (h *FacetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		writeError(ctx, w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(ctx, w, http.StatusOK, h.facets)
}
