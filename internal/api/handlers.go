package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/export"
	"github.com/sells-group/leadclean/internal/extract"
	"github.com/sells-group/leadclean/internal/fetcher"
	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/pipeline"
	"github.com/sells-group/leadclean/internal/store"
)

type cleanResponse struct {
	RunID      string                 `json:"run_id,omitempty"`
	Mode       model.RunMode          `json:"mode"`
	Assignment model.ColumnAssignment `json:"assignment"`
	Cleaned    []model.NormalizedLead `json:"cleaned"`
	Rejected   []model.RejectedLead   `json:"rejected"`
	Summary    model.BatchSummary     `json:"summary"`
}

type messagesResponse struct {
	RunID   string                 `json:"run_id,omitempty"`
	Leads   []model.NormalizedLead `json:"leads"`
	Summary model.BatchSummary     `json:"summary"`
}

type filterLeadsResponse struct {
	RunID         string                 `json:"run_id,omitempty"`
	TotalReceived int                    `json:"total_received"`
	TotalFiltered int                    `json:"total_filtered"`
	FilteredLeads []model.NormalizedLead `json:"filtered_leads"`
	Rejected      []model.RejectedLead   `json:"rejected"`
	Summary       model.BatchSummary     `json:"summary"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleClean accepts a multipart upload in field "file" plus optional
// name_column, email_column, phone_column, message_column, and format
// (json, zip, or xlsx) form fields.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, "multipart upload required (max "+strconv.FormatInt(s.maxUpload>>20, 10)+"MB)", http.StatusBadRequest)
		return
	}

	format := strings.ToLower(r.FormValue("format"))
	if format != "" && format != "json" && format != string(export.FormatZIP) && format != string(export.FormatXLSX) {
		writeError(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close() //nolint:errcheck

	columns, rows, err := fetcher.Read(r.Context(), file, header.Filename)
	if err != nil {
		writeError(w, "could not parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := s.pipeline.Run(r.Context(), rows, columns, overrideFromForm(r))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	runID := s.record(r.Context(), header.Filename, res.Mode, res.Assignment, res.Summary)

	switch format {
	case string(export.FormatZIP):
		attachment(w, "application/zip", "leads.zip", runID)
		logWriteErr(r, export.WriteArchive(w, res.Cleaned, res.Rejected, res.Summary))
	case string(export.FormatXLSX):
		attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "leads.xlsx", runID)
		logWriteErr(r, export.WriteXLSX(w, res.Cleaned, res.Rejected, res.Summary))
	default:
		writeJSON(w, http.StatusOK, cleanResponse{
			RunID:      runID,
			Mode:       res.Mode,
			Assignment: res.Assignment,
			Cleaned:    nonNil(res.Cleaned),
			Rejected:   nonNil(res.Rejected),
			Summary:    res.Summary,
		})
	}
}

// handleMessages accepts JSON {"content": "..."} or a multipart text file
// and returns one scored lead per paragraph. ?format=csv returns CSV.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	text, err := s.readMessageBody(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := extract.Process(text, s.pipeline.Scorer())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	runID := s.record(r.Context(), "messages", model.RunModeMessage, model.ColumnAssignment{}, res.Summary)

	if strings.EqualFold(r.URL.Query().Get("format"), string(export.FormatCSV)) {
		attachment(w, "text/csv", "messages.csv", runID)
		logWriteErr(r, export.WriteMessagesCSV(w, res.Leads, res.Messages))
		return
	}
	writeJSON(w, http.StatusOK, messagesResponse{RunID: runID, Leads: res.Leads, Summary: res.Summary})
}

func (s *Server) readMessageBody(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			return "", eris.New("invalid multipart upload")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", eris.New("file is required")
		}
		defer file.Close() //nolint:errcheck
		data, err := io.ReadAll(file)
		if err != nil {
			return "", eris.New("could not read upload")
		}
		return string(data), nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", eris.New("invalid request body")
	}
	return req.Content, nil
}

// handleFilterLeads accepts a JSON array of lead objects. Objects carrying
// name, email, and phone keys use those directly; otherwise columns are
// detected from the keys present.
func (s *Server) handleFilterLeads(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		writeError(w, "request body must be a JSON array of objects", http.StatusBadRequest)
		return
	}

	records := make([]map[string]string, len(raw))
	for i, obj := range raw {
		rec := make(map[string]string, len(obj))
		for k, v := range obj {
			rec[k] = stringify(v)
		}
		records[i] = rec
	}

	columns, rows := pipeline.RowsFromRecords(records)
	res, err := s.pipeline.Run(r.Context(), rows, columns, pipeline.DefaultOverride(columns))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	runID := s.record(r.Context(), "filter-leads", res.Mode, res.Assignment, res.Summary)

	writeJSON(w, http.StatusOK, filterLeadsResponse{
		RunID:         runID,
		TotalReceived: res.Summary.Total,
		TotalFiltered: res.Summary.Valid,
		FilteredLeads: nonNil(res.Cleaned),
		Rejected:      nonNil(res.Rejected),
		Summary:       res.Summary,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, "run history is disabled", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	filter := store.RunFilter{
		Mode:   model.RunMode(q.Get("mode")),
		Source: q.Get("source"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, "limit must be a non-negative integer", http.StatusBadRequest)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, "offset must be a non-negative integer", http.StatusBadRequest)
		return
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": nonNil(runs)})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, "run history is disabled", http.StatusServiceUnavailable)
		return
	}

	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// record stores batch metadata and returns the run ID, or "" when history
// is disabled or the write failed.
func (s *Server) record(ctx context.Context, source string, mode model.RunMode, a model.ColumnAssignment, summary model.BatchSummary) string {
	run := &model.Run{Source: source, Mode: mode, Assignment: a, Summary: summary}
	if s.store == nil || store.Record(ctx, s.store, run) != nil {
		return ""
	}
	return run.ID
}

func overrideFromForm(r *http.Request) *model.ColumnAssignment {
	a := model.ColumnAssignment{
		Name:    strings.TrimSpace(r.FormValue("name_column")),
		Email:   strings.TrimSpace(r.FormValue("email_column")),
		Phone:   strings.TrimSpace(r.FormValue("phone_column")),
		Message: strings.TrimSpace(r.FormValue("message_column")),
	}
	if a == (model.ColumnAssignment{}) {
		return nil
	}
	return &a
}

func attachment(w http.ResponseWriter, contentType, filename, runID string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if runID != "" {
		w.Header().Set(headerRunID, runID)
	}
	w.WriteHeader(http.StatusOK)
}

// logWriteErr reports an attachment that failed after headers were sent.
func logWriteErr(r *http.Request, err error) {
	if err != nil {
		zap.L().Warn("api: write attachment", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, eris.Errorf("invalid integer %q", s)
	}
	return n, nil
}

// nonNil keeps empty result lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
