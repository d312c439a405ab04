package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docstruct/doc-structurer/internal/common"
	"github.com/docstruct/doc-structurer/internal/config"
	"github.com/docstruct/doc-structurer/internal/export"
	"github.com/docstruct/doc-structurer/internal/llm"
	"github.com/docstruct/doc-structurer/internal/llm/openai"
	"github.com/docstruct/doc-structurer/internal/pdftext"
	"github.com/docstruct/doc-structurer/internal/pipeline"
)

const (
	downloadFilename = "Structured_Output.xlsx"
	xlsxMIME         = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Processor is the single pipeline entry point the handlers call.
type Processor interface {
	Process(ctx context.Context, pdfBytes []byte) (*pipeline.Result, error)
}

// ProcessorFactory builds a pipeline bound to the credential supplied with
// one request. Nothing is shared between requests.
type ProcessorFactory func(apiKey string) Processor

// Server is the form-based surface: upload a PDF, preview the extracted
// records, download the workbook. It keeps no per-session state; the
// download form carries the records back to the server.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	factory  ProcessorFactory
	renderer *export.Service
}

func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		renderer: export.NewService(logger),
	}
	s.factory = s.defaultFactory
	return s
}

// NewWithFactory is used by tests to stub out the pipeline.
func NewWithFactory(cfg *config.Config, logger *slog.Logger, factory ProcessorFactory) *Server {
	s := New(cfg, logger)
	s.factory = factory
	return s
}

func (s *Server) defaultFactory(apiKey string) Processor {
	client := openai.NewClient(openai.Config{
		APIKey:      apiKey,
		BaseURL:     s.cfg.OpenAI.BaseURL,
		Model:       s.cfg.OpenAI.Model,
		Temperature: s.cfg.OpenAI.Temperature,
		Timeout:     s.cfg.OpenAI.Timeout,
		Lenient:     true,
	}, s.logger)
	return pipeline.NewProcessor(s.logger, pdftext.NewExtractor(s.logger), client, s.renderer)
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("POST /download", s.handleDownload)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, pageData{})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	rid := uuid.New().String()
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.logger.Warn("server.process.bad_form", "req_id", rid, "error", err)
		s.renderPage(w, http.StatusBadRequest, pageData{Error: "could not read the upload; the file may exceed the size limit"})
		return
	}

	apiKey := strings.TrimSpace(r.FormValue("api_key"))
	if apiKey == "" {
		apiKey = s.cfg.OpenAI.APIKey
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Error: "please choose a PDF file to upload"})
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		s.renderPage(w, http.StatusBadRequest, pageData{Error: fmt.Sprintf("%q is not a PDF file", header.Filename)})
		return
	}

	pdfBytes, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("server.process.read_error", "req_id", rid, "error", err)
		s.renderPage(w, http.StatusBadRequest, pageData{Error: "could not read the uploaded file"})
		return
	}

	s.logger.Info("server.process.start",
		"req_id", rid,
		"filename", header.Filename,
		"bytes", len(pdfBytes),
	)

	result, err := s.factory(apiKey).Process(r.Context(), pdfBytes)
	if err != nil {
		s.logger.Error("server.process.failed", "req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		s.renderPage(w, http.StatusUnprocessableEntity, pageData{Error: common.UserMessage(err)})
		return
	}

	records := result.Records
	if records == nil {
		records = []llm.Record{}
	}
	recordsJSON, err := json.Marshal(records)
	if err != nil {
		s.renderPage(w, http.StatusInternalServerError, pageData{Error: "an error occurred while preparing the preview"})
		return
	}

	rows := make([]recordRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordRow{Key: rec.Key, Value: rec.Value, Comments: rec.Comments})
	}

	s.logger.Info("server.process.ok",
		"req_id", rid,
		"records", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	s.renderPage(w, http.StatusOK, pageData{Processed: true, Records: rows, RecordsJSON: string(recordsJSON)})
}

// handleDownload re-renders the workbook from the records posted back by
// the preview page. The renderer is deterministic, so the download matches
// what the pipeline produced.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rid := uuid.New().String()

	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Error: "could not read the download request"})
		return
	}
	var records []llm.Record
	if err := json.Unmarshal([]byte(r.FormValue("records")), &records); err != nil {
		s.logger.Warn("server.download.bad_records", "req_id", rid, "error", err)
		s.renderPage(w, http.StatusBadRequest, pageData{Error: "the download request did not carry valid records"})
		return
	}

	xlsx, err := s.renderer.RenderXLSX(llm.ExtractionResult{Entries: records})
	if err != nil {
		s.logger.Error("server.download.render_failed", "req_id", rid, "error", err)
		s.renderPage(w, http.StatusInternalServerError, pageData{Error: common.UserMessage(err)})
		return
	}

	s.logger.Info("server.download.ok", "req_id", rid, "records", len(records), "bytes", len(xlsx))
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(xlsx)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		s.logger.Error("server.render_page.error", "error", err)
	}
}
