package property

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vanzari-imobiliare/api/internal/complex"
	"github.com/vanzari-imobiliare/api/internal/logging"
	"github.com/vanzari-imobiliare/api/internal/storage"
	"github.com/vanzari-imobiliare/api/internal/utils"
)

var (
	ErrNotInComplex   = errors.New("property does not belong to this complex")
	ErrUnknownClient  = errors.New("client not found")
	ErrEmptySelection = errors.New("no properties selected")
)

// ClientDirectory resolves client ids to display names.
type ClientDirectory interface {
	Names(ctx context.Context, ids []uint) (map[uint]string, error)
}

type Service struct {
	repo      Repository
	complexes complex.Repository
	clients   ClientDirectory
	plans     storage.PlanStore
}

// NewService wires the property operations. plans may be nil when plan
// storage is not configured.
func NewService(repo Repository, complexes complex.Repository, clients ClientDirectory, plans storage.PlanStore) *Service {
	return &Service{repo: repo, complexes: complexes, clients: clients, plans: plans}
}

// CreateInput is a new property. Status, ClientID and Commission are optional.
type CreateInput struct {
	Attributes Attributes
	Status     *string
	ClientID   *uint
	Commission string
}

func (s *Service) resolveClientNames(ctx context.Context, props []Property) error {
	var ids []uint
	for i := range props {
		if props[i].ClientID != nil {
			ids = append(ids, *props[i].ClientID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	names, err := s.clients.Names(ctx, ids)
	if err != nil {
		return fmt.Errorf("resolve client names: %w", err)
	}
	for i := range props {
		if props[i].ClientID != nil {
			props[i].ClientName = names[*props[i].ClientID]
		}
	}
	return nil
}

// Views decorates properties with their derived values.
func Views(props []Property) []View {
	out := make([]View, len(props))
	for i := range props {
		out[i] = View{
			Property:        props[i],
			EffectiveStatus: EffectiveStatus(&props[i]),
			CommissionValue: CommissionValue(&props[i]),
		}
	}
	return out
}

// Complex loads the complex a listing or export is about.
func (s *Service) Complex(ctx context.Context, complexID uint) (*complex.Complex, error) {
	return s.complexes.FindByID(ctx, complexID)
}

// List returns the filtered properties of a complex in floor order, with
// client names resolved.
func (s *Service) List(ctx context.Context, complexID uint, f Filter) ([]Property, error) {
	if _, err := s.complexes.FindByID(ctx, complexID); err != nil {
		return nil, err
	}
	props, err := s.repo.ListByComplex(ctx, complexID)
	if err != nil {
		return nil, err
	}
	if err := s.resolveClientNames(ctx, props); err != nil {
		return nil, err
	}
	return Apply(props, f), nil
}

func (s *Service) FilterOptions(ctx context.Context, complexID uint) (Options, error) {
	if _, err := s.complexes.FindByID(ctx, complexID); err != nil {
		return Options{}, err
	}
	props, err := s.repo.ListByComplex(ctx, complexID)
	if err != nil {
		return Options{}, err
	}
	return FilterOptions(props), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Property, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	one := []Property{*p}
	if err := s.resolveClientNames(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *Service) Create(ctx context.Context, complexID uint, in CreateInput) (*Property, error) {
	if _, err := s.complexes.FindByID(ctx, complexID); err != nil {
		return nil, err
	}
	p := &Property{
		ID:         uuid.NewString(),
		ComplexID:  complexID,
		Attributes: in.Attributes.Clone(),
	}
	if in.Status != nil {
		st, err := ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		p.Status = &st
	}
	if in.ClientID != nil {
		if err := s.checkClient(ctx, *in.ClientID); err != nil {
			return nil, err
		}
		p.ClientID = in.ClientID
	}
	commission, err := FormatCommission(in.Commission)
	if err != nil {
		return nil, err
	}
	p.Commission = commission

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.recompute(ctx, complexID)
	return p, nil
}

// UpdateAttributes merges patch into the stored attributes; null values in
// the patch delete keys.
func (s *Service) UpdateAttributes(ctx context.Context, id string, patch Attributes) (*Property, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Attributes.Merge(patch)
	if err := s.repo.SaveAttributes(ctx, id, p.Attributes); err != nil {
		return nil, err
	}
	s.recompute(ctx, p.ComplexID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if p.PlanURL != nil {
		s.dropPlan(ctx, *p.PlanURL)
	}
	s.recompute(ctx, p.ComplexID)
	return nil
}

// SetStatus stores an explicit status; nil clears it so the status is
// derived again.
func (s *Service) SetStatus(ctx context.Context, id string, status *string) (*Property, error) {
	var value interface{}
	if status != nil {
		st, err := ParseStatus(*status)
		if err != nil {
			return nil, err
		}
		value = st
	}
	return s.updateAndReload(ctx, id, map[string]interface{}{"status": value})
}

// AssignClient links a client, or unlinks with nil.
func (s *Service) AssignClient(ctx context.Context, id string, clientID *uint) (*Property, error) {
	var value interface{}
	if clientID != nil {
		if err := s.checkClient(ctx, *clientID); err != nil {
			return nil, err
		}
		value = *clientID
	}
	return s.updateAndReload(ctx, id, map[string]interface{}{"client_id": value})
}

// SetCommission stores a literal amount or, for "auto", the amount given
// by the complex policy.
func (s *Service) SetCommission(ctx context.Context, id, value, target string) (*Property, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m := Mutation{Commission: &value, Target: target}
	var c *complex.Complex
	if m.IsAuto() {
		if c, err = s.complexes.FindByID(ctx, p.ComplexID); err != nil {
			return nil, err
		}
	}
	commission, err := commissionFor(m, c, p)
	if err != nil {
		return nil, err
	}
	return s.updateAndReload(ctx, id, map[string]interface{}{"commission": commission})
}

func commissionFor(m Mutation, c *complex.Complex, p *Property) (string, error) {
	if !m.IsAuto() {
		return FormatCommission(*m.Commission)
	}
	amount, err := CommissionAmount(c.CommissionPolicy, &p.Attributes, m.Target)
	if err != nil {
		return "", err
	}
	return utils.FormatEUR(amount), nil
}

func (s *Service) UploadPlan(ctx context.Context, id string, img *storage.Image) (*Property, error) {
	if s.plans == nil {
		return nil, storage.ErrDisabled
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.plans.Upload(ctx, planKey(p.ComplexID, img), img.ContentType, img.Reader(), img.Size())
	if err != nil {
		return nil, err
	}
	updated, err := s.updateAndReload(ctx, id, map[string]interface{}{"plan_url": url})
	if err != nil {
		s.dropPlan(ctx, url)
		return nil, err
	}
	if p.PlanURL != nil && *p.PlanURL != url {
		s.dropPlan(ctx, *p.PlanURL)
	}
	return updated, nil
}

func (s *Service) DeletePlan(ctx context.Context, id string) (*Property, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.updateAndReload(ctx, id, map[string]interface{}{"plan_url": nil})
	if err != nil {
		return nil, err
	}
	if p.PlanURL != nil {
		s.dropPlan(ctx, *p.PlanURL)
	}
	return updated, nil
}

// BulkCommission applies one commission value to every selected property
// of the complex.
func (s *Service) BulkCommission(ctx context.Context, complexID uint, sel *Selection, value, target string) (Result, error) {
	m := Mutation{Commission: &value, Target: target}
	return s.applyBulk(ctx, complexID, sel, m)
}

// BulkPlan uploads img once and points every selected property at it.
func (s *Service) BulkPlan(ctx context.Context, complexID uint, sel *Selection, img *storage.Image) (Result, error) {
	if s.plans == nil {
		return Result{}, storage.ErrDisabled
	}
	if sel.Len() == 0 {
		return Result{}, ErrEmptySelection
	}
	if _, err := s.complexes.FindByID(ctx, complexID); err != nil {
		return Result{}, err
	}
	url, err := s.plans.Upload(ctx, planKey(complexID, img), img.ContentType, img.Reader(), img.Size())
	if err != nil {
		return Result{}, err
	}
	res, err := s.applyBulk(ctx, complexID, sel, Mutation{PlanURL: &url})
	if err != nil || res.Succeeded == 0 {
		s.dropPlan(ctx, url)
	}
	return res, err
}

func (s *Service) applyBulk(ctx context.Context, complexID uint, sel *Selection, m Mutation) (Result, error) {
	if err := m.Validate(); err != nil {
		return Result{}, err
	}
	if sel.Len() == 0 {
		return Result{}, ErrEmptySelection
	}
	c, err := s.complexes.FindByID(ctx, complexID)
	if err != nil {
		return Result{}, err
	}
	if m.IsAuto() && c.CommissionPolicy.Type == "" {
		return Result{}, ErrNoCommissionPolicy
	}
	// A literal amount is the same for every item; reject a bad one up front.
	var literal string
	if m.Commission != nil && !m.IsAuto() {
		if literal, err = FormatCommission(*m.Commission); err != nil {
			return Result{}, err
		}
	}

	log := logging.FromContext(ctx)
	var replaced []string
	res := ApplyEach(ctx, sel, func(ctx context.Context, id string) error {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p.ComplexID != complexID {
			return ErrNotInComplex
		}
		fields := map[string]interface{}{}
		switch {
		case m.PlanURL != nil:
			fields["plan_url"] = *m.PlanURL
		case m.IsAuto():
			v, err := commissionFor(m, c, p)
			if err != nil {
				return err
			}
			fields["commission"] = v
		default:
			fields["commission"] = literal
		}
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return err
		}
		if m.PlanURL != nil && p.PlanURL != nil && *p.PlanURL != *m.PlanURL {
			replaced = append(replaced, *p.PlanURL)
		}
		return nil
	})
	for _, item := range res.Failed {
		log.Warn("bulk item failed", "complex_id", complexID, "property_id", item.ID, "err", item.Err)
	}
	// Images shared by several items are only deleted once nothing points at them.
	for _, url := range replaced {
		s.dropPlan(ctx, url)
	}
	s.recompute(ctx, complexID)
	return res, nil
}

// ReplaceComplexProperties swaps the whole property set of a complex, as a
// spreadsheet import does, and sets its column schema.
func (s *Service) ReplaceComplexProperties(ctx context.Context, complexID uint, props []Property, cols []complex.Column) error {
	if _, err := s.complexes.FindByID(ctx, complexID); err != nil {
		return err
	}
	for i := range props {
		props[i].ComplexID = complexID
	}
	if err := s.repo.ReplaceAll(ctx, complexID, props, cols); err != nil {
		return err
	}
	s.recompute(ctx, complexID)
	return nil
}

// RecomputeCounters refreshes the derived counters of a complex from its
// current properties.
func (s *Service) RecomputeCounters(ctx context.Context, complexID uint) error {
	props, err := s.repo.ListByComplex(ctx, complexID)
	if err != nil {
		return err
	}
	return s.complexes.UpdateCounters(ctx, complexID, Count(props))
}

// Count derives the complex counters from a property set.
func Count(props []Property) complex.Counters {
	c := complex.Counters{Total: len(props)}
	for i := range props {
		switch EffectiveStatus(&props[i]) {
		case StatusAvailable:
			c.Available++
		case StatusReserved:
			c.Reserved++
		case StatusSold:
			c.Sold++
			c.SoldCommission += CommissionValue(&props[i])
		}
	}
	return c
}

// recompute runs after a mutation has been stored. A failure leaves the
// counters stale and is only logged.
func (s *Service) recompute(ctx context.Context, complexID uint) {
	if err := s.RecomputeCounters(ctx, complexID); err != nil {
		logging.FromContext(ctx).Warn("recompute counters", "complex_id", complexID, "err", err)
	}
}

func (s *Service) updateAndReload(ctx context.Context, id string, fields map[string]interface{}) (*Property, error) {
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, p.ComplexID)
	return p, nil
}

func (s *Service) checkClient(ctx context.Context, id uint) error {
	names, err := s.clients.Names(ctx, []uint{id})
	if err != nil {
		return err
	}
	if _, ok := names[id]; !ok {
		return ErrUnknownClient
	}
	return nil
}

// dropPlan deletes an image no property points at any more. Bulk uploads
// share one image between many properties.
func (s *Service) dropPlan(ctx context.Context, url string) {
	if s.plans == nil {
		return
	}
	refs, err := s.repo.CountByPlanURL(ctx, url)
	if err != nil {
		logging.FromContext(ctx).Warn("count plan references", "url", url, "err", err)
		return
	}
	if refs > 0 {
		return
	}
	if err := s.plans.Delete(ctx, url); err != nil && !storage.IsForeign(err) {
		logging.FromContext(ctx).Warn("delete plan image", "url", url, "err", err)
	}
}

func planKey(complexID uint, img *storage.Image) string {
	return fmt.Sprintf("plans/%d/%s%s", complexID, uuid.NewString(), img.Ext)
}
