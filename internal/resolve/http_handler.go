package resolve

import (
	"net/http"

	"bibresolver/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type bibParams struct {
	BibID      string `validate:"required,numeric,max=18"`
	Electronic string `validate:"omitempty,oneof=first last"`
}

type numberParams struct {
	Type       string `validate:"required,numtype"`
	Num        string `validate:"required,max=64"`
	Electronic string `validate:"omitempty,oneof=first last"`
}

// Register mounts the resolver routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/bibs/{bibid}", h.GetBib)
	mux.HandleFunc("GET /v1/items/{type}/{num}", h.GetByNumber)
}

// GetBib handles GET /v1/bibs/{bibid}
func (h *HTTPHandler) GetBib(w http.ResponseWriter, r *http.Request) {
	params := bibParams{
		BibID:      r.PathValue("bibid"),
		Electronic: r.URL.Query().Get("electronic"),
	}
	if details := httpx.ValidateStruct(params); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request", details)
		return
	}

	rec, err := h.service.ByBibID(r.Context(), params.BibID, Options{ElectronicFirst: params.Electronic == "first"})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, map[string]interface{}{"related": len(rec.RelatedBibIDs)})
}

// GetByNumber handles GET /v1/items/{type}/{num}
func (h *HTTPHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	params := numberParams{
		Type:       r.PathValue("type"),
		Num:        r.PathValue("num"),
		Electronic: r.URL.Query().Get("electronic"),
	}
	if details := httpx.ValidateStruct(params); details != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request", details)
		return
	}

	rec, err := h.service.ByNumber(r.Context(), params.Num, params.Type, Options{ElectronicFirst: params.Electronic == "first"})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, rec, map[string]interface{}{"related": len(rec.RelatedBibIDs)})
}
