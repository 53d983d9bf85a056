package httpserver

import (
	"bytes"
	"net/http"

	"github.com/OliveiraNt/consumer-progress/internal/report"
	"github.com/OliveiraNt/consumer-progress/internal/utils"

	"github.com/go-chi/chi/v5"
)

func writeText(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		utils.Logger.Warn("write report failed", "err", err)
	}
}

func (s *Server) textAllGroups(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "clusterName")
	records, err := s.progressService.AllGroups(r.Context(), name)
	if err != nil {
		utils.Logger.Error("all groups report failed", "cluster", name, "err", err)
		http.Error(w, err.Error(), mapErrorToHTTPStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := report.RenderAllGroups(&buf, records); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeText(w, &buf)
}

func (s *Server) textGroupDetail(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "clusterName")
	group := chi.URLParam(r, "groupName")
	stats, err := s.progressService.GroupDetail(r.Context(), name, group)
	if err != nil {
		utils.Logger.Error("group report failed", "cluster", name, "group", group, "err", err)
		http.Error(w, err.Error(), mapErrorToHTTPStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := report.RenderGroupDetail(&buf, stats); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeText(w, &buf)
}
