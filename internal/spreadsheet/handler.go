package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vanzari-imobiliare/api/internal/complex"
	"github.com/vanzari-imobiliare/api/internal/property"
	"github.com/vanzari-imobiliare/api/internal/utils"
)

const multipartOverhead = 1 << 20

type Handler struct {
	Service       *Service
	MaxSheetBytes int64
}

func NewHandler(svc *Service, maxSheetBytes int64) *Handler {
	return &Handler{Service: svc, MaxSheetBytes: maxSheetBytes}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoHeader):
		utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  err.Error(),
			"fields": map[string]string{"file": err.Error()},
		})
	case errors.Is(err, ErrUnsupportedFormat):
		utils.WriteError(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		property.WriteError(w, r, err)
	}
}

// POST /complexes/{id}/import takes the workbook as the "file" field of a
// multipart form.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	complexID, err := complex.ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxSheetBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.MaxSheetBytes + multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "missing file",
			"fields": map[string]string{"file": "required"},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.MaxSheetBytes+1))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "could not read file")
		return
	}
	if int64(len(data)) > h.MaxSheetBytes {
		utils.WriteError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	summary, err := h.Service.Import(r.Context(), complexID, header.Filename, data)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

// GET /complexes/{id}/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	complexID, err := complex.ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := h.Service.Export(r.Context(), complexID, property.FilterFromQuery(r.URL.Query()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}
