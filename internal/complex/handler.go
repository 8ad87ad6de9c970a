package complex

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/vanzari-imobiliare/api/internal/logging"
	"github.com/vanzari-imobiliare/api/internal/utils"
	"gorm.io/gorm"
)

var ErrPercentageRange = errors.New("percentage must be between 0 and 100")

type Handler struct {
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{Repository: NewRepository(db)}
}

// ParseID reads the {id} route variable of complex routes.
func ParseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid complex id")
	}
	return uint(id), nil
}

func (p PolicyRequest) toPolicy() (CommissionPolicy, error) {
	if p.Type == PolicyPercentage && p.Value > 100 {
		return CommissionPolicy{}, ErrPercentageRange
	}
	target := p.Target
	if target == "" {
		target = TargetCredit
	}
	return CommissionPolicy{Type: p.Type, Value: p.Value, Target: target}, nil
}

func normalizeColumns(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		c.Key = strings.TrimSpace(c.Key)
		if c.Key == "" || seen[c.Key] {
			continue
		}
		seen[c.Key] = true
		if strings.TrimSpace(c.Label) == "" {
			c.Label = c.Key
		}
		out = append(out, c)
	}
	return out
}

func (h *Handler) writeRepoError(w http.ResponseWriter, r *http.Request, err error, action string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteError(w, http.StatusNotFound, "complex not found")
		return
	}
	logging.FromContext(r.Context()).Error(action, "err", err)
	utils.WriteError(w, http.StatusInternalServerError, action+" failed")
}

// GET /complexes
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.List(r.Context())
	if err != nil {
		h.writeRepoError(w, r, err, "list complexes")
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /complexes/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := h.Repository.FindByID(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, r, err, "get complex")
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// POST /complexes
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateComplexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	c := Complex{
		Name:             strings.TrimSpace(req.Name),
		Address:          strings.TrimSpace(req.Address),
		CommissionPolicy: CommissionPolicy{Target: TargetCredit},
		Columns:          normalizeColumns(req.Columns),
	}
	if req.CommissionPolicy != nil {
		if err := utils.Validate(req.CommissionPolicy); err != nil {
			utils.WriteValidationError(w, err)
			return
		}
		p, err := req.CommissionPolicy.toPolicy()
		if err != nil {
			utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		c.CommissionPolicy = p
	}

	if err := h.Repository.Create(r.Context(), &c); err != nil {
		h.writeRepoError(w, r, err, "create complex")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, c)
}

// PUT /complexes/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdateComplexRequest
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
		h.writeRepoError(w, r, err, "get complex")
		return
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		c.Address = strings.TrimSpace(*req.Address)
	}
	if err := h.Repository.Update(r.Context(), c); err != nil {
		h.writeRepoError(w, r, err, "update complex")
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}

// DELETE /complexes/{id} also deletes every property of the complex.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Repository.Delete(r.Context(), id); err != nil {
		h.writeRepoError(w, r, err, "delete complex")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PUT /complexes/{id}/commission-policy
func (h *Handler) SetCommissionPolicy(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req PolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	p, err := req.toPolicy()
	if err != nil {
		utils.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.Repository.SetCommissionPolicy(r.Context(), id, p); err != nil {
		h.writeRepoError(w, r, err, "set commission policy")
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// PUT /complexes/{id}/columns
func (h *Handler) SetColumns(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req ColumnsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	cols := normalizeColumns(req.Columns)
	if _, err := h.Repository.FindByID(r.Context(), id); err != nil {
		h.writeRepoError(w, r, err, "get complex")
		return
	}
	if err := h.Repository.SetColumns(r.Context(), id, cols); err != nil {
		h.writeRepoError(w, r, err, "set columns")
		return
	}
	utils.WriteJSON(w, http.StatusOK, cols)
}
