package client

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/vanzari-imobiliare/api/internal/logging"
	"github.com/vanzari-imobiliare/api/internal/utils"
	"gorm.io/gorm"
)

const maxVCFBytes = 5 << 20

type Handler struct {
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repository: NewRepository(db)}
}

func clientID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid client id")
	}
	return uint(id), nil
}

func (h *Handler) writeRepoError(w http.ResponseWriter, r *http.Request, err error, action string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteError(w, http.StatusNotFound, "client not found")
		return
	}
	logging.FromContext(r.Context()).Error(action, "err", err)
	utils.WriteError(w, http.StatusInternalServerError, action+" failed")
}

func (req ClientRequest) apply(c *Client) {
	c.Name = strings.TrimSpace(req.Name)
	c.Phone = strings.TrimSpace(req.Phone)
	c.Email = strings.TrimSpace(req.Email)
	c.Organization = strings.TrimSpace(req.Organization)
}

// GET /clients?search=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		h.writeRepoError(w, r, err, "list clients")
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /clients/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.Repository.FindByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, r, err, "get client")
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// POST /clients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	var c Client
	req.apply(&c)
	if err := h.Repository.Create(r.Context(), &c); err != nil {
		h.writeRepoError(w, r, err, "create client")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// PUT /clients/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req ClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	c, err := h.Repository.FindByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, r, err, "get client")
		return
	}
	req.apply(c)
	if err := h.Repository.Update(r.Context(), c); err != nil {
		h.writeRepoError(w, r, err, "update client")
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// DELETE /clients/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := clientID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Repository.Delete(r.Context(), id); err != nil {
		h.writeRepoError(w, r, err, "delete client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /clients/import-vcf accepts a multipart "file" field or a raw
// text/vcard body.
func (h *Handler) ImportVCF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxVCFBytes)

	var src io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxVCFBytes); err != nil {
			utils.WriteError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "missing file",
				"fields": map[string]string{"file": "required"},
			})
			return
		}
		defer file.Close()
		src = file
	}

	parsed, err := ParseVCF(src)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, "vcf file too large")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := ImportContacts(r.Context(), h.Repository, parsed)
	if err != nil {
		h.writeRepoError(w, r, err, "import contacts")
		return
	}
	logging.FromContext(r.Context()).Info("vcf import",
		"imported", res.Imported, "duplicates", res.Duplicates, "invalid", res.Invalid)
	utils.WriteJSON(w, http.StatusOK, res)
}
