package property

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/vanzari-imobiliare/api/internal/complex"
	"github.com/vanzari-imobiliare/api/internal/logging"
	"github.com/vanzari-imobiliare/api/internal/storage"
	"github.com/vanzari-imobiliare/api/internal/utils"
	"gorm.io/gorm"
)

// multipartOverhead is allowed on top of the image cap for form framing.
const multipartOverhead = 1 << 20

type Handler struct {
	Service       *Service
	MaxImageBytes int64
}

func NewHandler(svc *Service, maxImageBytes int64) *Handler {
	return &Handler{Service: svc, MaxImageBytes: maxImageBytes}
}

func propertyID(r *http.Request) (string, error) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.New("invalid property id")
	}
	return id, nil
}

// WriteError maps property, storage and persistence errors to responses.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.WriteError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrInvalidStatus):
		writeFieldError(w, "status", err)
	case errors.Is(err, ErrUnknownClient):
		writeFieldError(w, "client_id", err)
	case errors.Is(err, utils.ErrUnparseableAmount):
		writeFieldError(w, "commission", err)
	case errors.Is(err, ErrInvalidTarget):
		writeFieldError(w, "target", err)
	case errors.Is(err, errMissingFile):
		writeFieldError(w, "plan", err)
	case errors.Is(err, ErrInvalidMutation), errors.Is(err, ErrEmptySelection):
		writeFieldError(w, "ids", err)
	case errors.Is(err, ErrNoCommissionPolicy), errors.Is(err, ErrNoPrice), errors.Is(err, ErrNotInComplex):
		utils.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrNotAnImage):
		utils.WriteError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, storage.ErrTooLarge):
		utils.WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, storage.ErrDisabled):
		utils.WriteError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logging.FromContext(r.Context()).Error("property request failed", "path", r.URL.Path, "err", err)
		utils.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeFieldError(w http.ResponseWriter, field string, err error) {
	utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  err.Error(),
		"fields": map[string]string{field: err.Error()},
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid payload")
		return false
	}
	if err := utils.Validate(v); err != nil {
		utils.WriteValidationError(w, err)
		return false
	}
	return true
}

// readPlanImage reads the "plan" file of a multipart form.
func (h *Handler) readPlanImage(w http.ResponseWriter, r *http.Request) (*storage.Image, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.MaxImageBytes + multipartOverhead); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, storage.ErrTooLarge
		}
		return nil, err
	}
	file, _, err := r.FormFile("plan")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return storage.ReadImage(file, h.MaxImageBytes)
}

// GET /complexes/{id}/properties
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	complexID, err := complex.ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	props, err := h.Service.List(r.Context(), complexID, FilterFromQuery(r.URL.Query()))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Views(props))
}

// GET /complexes/{id}/filter-options
func (h *Handler) FilterOptions(w http.ResponseWriter, r *http.Request) {
	complexID, err := complex.ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts, err := h.Service.FilterOptions(r.Context(), complexID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, opts)
}

// POST /complexes/{id}/properties
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	complexID, err := complex.ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req CreatePropertyRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Service.Create(r.Context(), complexID, CreateInput{
		Attributes: req.Attributes,
		Status:     req.Status,
		ClientID:   req.ClientID,
		Commission: req.Commission,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, Views([]Property{*p})[0])
}

// POST /complexes/{id}/properties/bulk/commission
func (h *Handler) BulkCommission(w http.ResponseWriter, r *http.Request) {
	complexID, err := complex.ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req BulkCommissionRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Service.BulkCommission(r.Context(), complexID, NewSelection(req.IDs...), req.Commission, req.Target)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

// POST /complexes/{id}/properties/bulk/plan takes a "plan" file and the
// selected ids as repeated or comma-separated "ids" fields.
func (h *Handler) BulkPlan(w http.ResponseWriter, r *http.Request) {
	complexID, err := complex.ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	img, err := h.readPlanImage(w, r)
	if err != nil {
		WriteError(w, r, uploadError(err))
		return
	}
	sel := NewSelection()
	for _, field := range r.MultipartForm.Value["ids"] {
		for _, id := range strings.Split(field, ",") {
			sel.Add(id)
		}
	}
	res, err := h.Service.BulkPlan(r.Context(), complexID, sel, img)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

// GET /properties/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := propertyID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Views([]Property{*p})[0])
}

// PUT /properties/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := propertyID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdatePropertyRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Service.UpdateAttributes(r.Context(), id, req.Attributes)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Views([]Property{*p})[0])
}

// DELETE /properties/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := propertyID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /properties/{id}/status
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := propertyID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req StatusRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Service.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Views([]Property{*p})[0])
}

// PATCH /properties/{id}/client
func (h *Handler) AssignClient(w http.ResponseWriter, r *http.Request) {
	id, err := propertyID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req ClientRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Service.AssignClient(r.Context(), id, req.ClientID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Views([]Property{*p})[0])
}

// PATCH /properties/{id}/commission
func (h *Handler) SetCommission(w http.ResponseWriter, r *http.Request) {
	id, err := propertyID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req CommissionRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Service.SetCommission(r.Context(), id, req.Commission, req.Target)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Views([]Property{*p})[0])
}

// POST /properties/{id}/plan
func (h *Handler) UploadPlan(w http.ResponseWriter, r *http.Request) {
	id, err := propertyID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	img, err := h.readPlanImage(w, r)
	if err != nil {
		WriteError(w, r, uploadError(err))
		return
	}
	p, err := h.Service.UploadPlan(r.Context(), id, img)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Views([]Property{*p})[0])
}

// DELETE /properties/{id}/plan
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := propertyID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.Service.DeletePlan(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, Views([]Property{*p})[0])
}

var errMissingFile = errors.New("missing \"plan\" file")

// uploadError keeps typed storage errors and turns form errors into a
// missing-file validation error.
func uploadError(err error) error {
	if errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrNotAnImage) {
		return err
	}
	return errMissingFile
}
