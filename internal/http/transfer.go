package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	goerrors "github.com/goliatone/go-errors"

	csvcmd "github.com/goliatone/go-l10n/internal/commands/csv"
	"github.com/goliatone/go-l10n/internal/csvtransfer"
	"github.com/goliatone/go-l10n/internal/logging"
)

// ImportFileField is the multipart field carrying the spreadsheet.
const ImportFileField = "importCsvFile"

const (
	messageNoFile       = "No file was uploaded."
	messageFileTooLarge = "The uploaded file is too large."
	messageLoginNeeded  = "You need to sign in to do this."
)

func (api *API) registerTransferRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /projects/{slug}/export-csv/{$}", api.handleExport)
	mux.HandleFunc("POST /projects/{slug}/import-csv/{$}", api.handleImport)
}

func (api *API) handleExport(w http.ResponseWriter, r *http.Request) {
	if api.export == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	user, err := api.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	project, err := api.projects.GetVisible(r.Context(), r.PathValue("slug"), user)
	if err != nil {
		api.fail(w, r, RouteExportCSV, err)
		return
	}

	var buf bytes.Buffer
	if err := api.export.Execute(r.Context(), csvcmd.ExportTranslationsCommand{
		ProjectSlug: project.Slug,
		Writer:      &buf,
	}); err != nil {
		api.fail(w, r, "", err)
		return
	}

	filename := fmt.Sprintf("%s_translations_stats.csv", project.Slug)
	if api.exportNamer != nil {
		filename = api.exportNamer.Filename(project)
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (api *API) handleImport(w http.ResponseWriter, r *http.Request) {
	if api.importer == nil || api.projects == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	user, err := api.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": messageLoginNeeded})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, api.maxUploadBytes)
	file, _, err := r.FormFile(ImportFileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": messageFileTooLarge})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": messageNoFile})
		return
	}
	defer file.Close()

	project, err := api.projects.GetVisible(r.Context(), r.PathValue("slug"), user)
	if err != nil {
		api.fail(w, r, RouteImportCSV, err)
		return
	}

	logger := logging.WithProjectContext(api.logger, project.Slug, "", user.ID.String())
	report, err := api.importer.Import(r.Context(), csvtransfer.ImportRequest{
		Project: project,
		User:    user,
		Source:  file,
		Options: csvtransfer.ImportOptions{OnRowError: api.onRowError},
	})
	if err != nil {
		if goerrors.IsCategory(err, goerrors.CategoryValidation) {
			logger.Warn("http.import.rejected", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": csvtransfer.Message(err)})
			return
		}
		api.fail(w, r, "", err)
		return
	}
	logger.Info("http.import.completed",
		"rows", report.Rows,
		"activated", report.Activated,
		"suggested", report.Suggested,
		"skipped", len(report.Errors),
	)
	http.Redirect(w, r, api.routes.MustURL(RouteProject, map[string]string{"slug": project.Slug}), http.StatusFound)
}
