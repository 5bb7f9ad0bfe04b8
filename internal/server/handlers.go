package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zombor/expense-tracker/internal/ledger"
	"github.com/zombor/expense-tracker/internal/receipt"
)

// maxUploadSize fits high-resolution phone photos, base64 encoded
const maxUploadSize = int64(50 << 20)

const unreadableReceipt = "could not read receipt, enter details manually"

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// writeError writes a JSON error body
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request is too large. Maximum size is 50MB.")
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type extractResponse struct {
	Success bool `json:"success"`
	*receipt.Scan
}

// handleExtractReceipt accepts {"image": "<base64 or data URL>"} or a multipart "file" upload
func (s *Server) handleExtractReceipt(w http.ResponseWriter, r *http.Request) {
	var (
		scan *receipt.Scan
		err  error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		data, contentType, ok := readUpload(w, r)
		if !ok {
			return
		}
		scan, err = s.receipts.ExtractImage(r.Context(), data, contentType)
	} else {
		var req struct {
			Image string `json:"image"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		scan, err = s.receipts.Extract(r.Context(), req.Image)
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, extractResponse{Success: true, Scan: scan})
	case errors.Is(err, receipt.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, receipt.ErrOCRUnavailable):
		writeError(w, http.StatusBadGateway, unreadableReceipt)
	default:
		slog.Error("Error extracting receipt", "user", UserFromContext(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// readUpload reads the "file" part of a multipart form
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large. Maximum size is 50MB. Please compress or resize your image.")
		} else {
			writeError(w, http.StatusBadRequest, "Error parsing form")
		}
		return nil, "", false
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file was selected. Please choose a file to upload.")
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeError(w, http.StatusInternalServerError, "Error reading file. Please try again.")
		return nil, "", false
	}

	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "application/octet-stream" {
		// Let the receipt service sniff it
		contentType = ""
	}
	return data, contentType, true
}

func (s *Server) handleDictation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Transcript string `json:"transcript"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	draft, err := s.receipts.Dictate(req.Transcript)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No speech was recognized. Please try again or type manually.")
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.ledger.ListTransactions(UserFromContext(r.Context()))
	if err != nil {
		slog.Error("Error listing transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var in ledger.Input
	if !decodeJSON(w, r, &in) {
		return
	}

	t, err := s.ledger.CreateTransaction(UserFromContext(r.Context()), in)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidTransaction) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("Error creating transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "Error saving transaction. Please try again.")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.ledger.GetTransaction(UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		s.notFoundOrError(w, err, "Transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(UserFromContext(r.Context()), r.PathValue("id")); err != nil {
		s.notFoundOrError(w, err, "Transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetReceiptFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.ledger.GetReceiptFile(UserFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		s.notFoundOrError(w, err, "File not found")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[ledger.Type][]string{
		ledger.TypeExpense: ledger.Categories(ledger.TypeExpense),
		ledger.TypeIncome:  ledger.Categories(ledger.TypeIncome),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ledger.Summarize(UserFromContext(r.Context()))
	if err != nil {
		slog.Error("Error summarizing transactions", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) notFoundOrError(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	slog.Error("Error handling transaction", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
