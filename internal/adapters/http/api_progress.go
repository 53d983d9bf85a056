package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/OliveiraNt/consumer-progress/internal/report"
	"github.com/OliveiraNt/consumer-progress/internal/utils"

	"github.com/go-chi/chi/v5"
)

type groupRecord struct {
	Group      string  `json:"group"`
	Count      int     `json:"count"`
	Version    string  `json:"version"`
	Type       string  `json:"type"`
	Model      string  `json:"model"`
	ConsumeTPS float64 `json:"consume_tps"`
	DiffTotal  int64   `json:"diff_total"`
}

func (s *Server) apiListGroups(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "clusterName")
	records, err := s.progressService.AllGroups(r.Context(), name)
	if err != nil {
		utils.Logger.Error("api list groups failed", "cluster", name, "err", err)
		http.Error(w, err.Error(), mapErrorToHTTPStatus(err))
		return
	}

	out := make([]groupRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, groupRecord{
			Group:      rec.Group,
			Count:      rec.Count,
			Version:    report.VersionLabel(rec.Count, rec.Version),
			Type:       report.TypeLabel(rec.Count, rec.ConsumeType),
			Model:      report.ModelLabel(rec.Count, rec.ConsumeType, rec.MessageModel),
			ConsumeTPS: rec.ConsumeTPS,
			DiffTotal:  rec.DiffTotal,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		utils.Logger.Error("encode groups failed", "cluster", name, "err", err)
	}
}
