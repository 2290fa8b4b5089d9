package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/alsxui/provisioning-gateway/internal/client"
	"github.com/alsxui/provisioning-gateway/internal/config"
	"github.com/alsxui/provisioning-gateway/internal/errs"
	"github.com/alsxui/provisioning-gateway/internal/models"
)

const bytesPerGB = int64(1024 * 1024 * 1024)

// PanelAPI is the slice of the panel client the service needs. Tests swap in
// a call-counting fake. Each invocation opens exactly one session, so every
// panel call it makes rides on the same login.
type PanelAPI interface {
	Ping(ctx context.Context) error
	NewSession(ctx context.Context) (client.PanelSession, error)
}

// ProvisionService orchestrates the gateway's three actions against the
// panel. It holds no state of its own; every call is request-scoped.
type ProvisionService struct {
	cfg   *config.Config
	panel PanelAPI
}

// NewProvisionService creates a new provisioning service.
func NewProvisionService(cfg *config.Config, panel PanelAPI) *ProvisionService {
	return &ProvisionService{
		cfg:   cfg,
		panel: panel,
	}
}

// Add provisions one new client record on the target inbound.
func (s *ProvisionService) Add(ctx context.Context, req *models.AddRequest) (*models.AddResponse, error) {
	if req.LimitIP < 0 || req.TotalGB < 0 || req.ExpiryMs < 0 {
		return nil, fmt.Errorf("limit_ip, total_gb and expiry_ms must not be negative: %w", errs.ErrBadRequest)
	}

	id := req.UUID
	if id == "" {
		id = uuid.New().String()
	}
	subID := req.SubID
	if subID == "" {
		subID = newSubID(models.SubIDLength)
	}
	inboundID := s.inboundID(req.InboundID)

	// Public unit is gigabytes; the panel wants bytes. Both quota fields
	// start identical: a fresh, unconsumed quota.
	quota := req.TotalGB * bytesPerGB

	record := client.PanelClientRecord{
		ID:         id,
		Flow:       "",
		Email:      req.Email,
		LimitIP:    req.LimitIP,
		TotalGB:    quota,
		Total:      quota,
		ExpiryTime: req.ExpiryMs,
		Enable:     true,
		TgID:       "",
		SubID:      subID,
	}

	sess, err := s.panel.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	created, err := sess.AddClient(ctx, inboundID, record)
	if err != nil {
		return nil, err
	}

	log.Printf("[ProvisionService] client provisioned: inbound=%d uuid=%s", inboundID, id)

	return &models.AddResponse{
		OK:      true,
		UUID:    id,
		SubID:   subID,
		SubLink: models.BuildSubLink(s.cfg.Gateway.SubLinkPattern, id, subID),
		Created: created,
	}, nil
}

// Details resolves a client record by identifier, alternate identifier, or
// email, backfilling a subscription id when the record lacks one. The
// backfill is best effort: an update failure is swallowed and the response
// carries an empty subId instead.
func (s *ProvisionService) Details(ctx context.Context, req *models.DetailsRequest) (*models.DetailsResponse, error) {
	if req.UUID == "" {
		return nil, fmt.Errorf("uuid required: %w", errs.ErrBadRequest)
	}
	inboundID := s.inboundID(req.InboundID)

	// One session serves the whole lookup, including the backfill update.
	sess, err := s.panel.NewSession(ctx)
	if err != nil {
		return nil, err
	}

	inbound, err := sess.GetInbound(ctx, inboundID)
	if err != nil {
		return nil, err
	}

	record := findClient(inbound.Clients(), req.UUID)
	if record == nil {
		return nil, errs.ErrNotFound
	}

	if record.SubID != "" {
		// Never reassign an existing subscription id.
		return s.detailsResponse(record.SubID, record), nil
	}

	merged := record.WithSubID(newSubID(models.SubIDLength))
	if err := sess.UpdateClient(ctx, inboundID, merged); err != nil {
		log.Printf("[ProvisionService] subId backfill failed on inbound %d: %v", inboundID, err)
		return s.detailsResponse("", record), nil
	}

	log.Printf("[ProvisionService] subId backfilled: inbound=%d uuid=%s", inboundID, merged.ID)
	return s.detailsResponse(merged.SubID, &merged), nil
}

// Ping reports panel health. Healthy means the login round trip returned
// 2xx; an unreachable or rejecting panel surfaces as a gateway failure.
func (s *ProvisionService) Ping(ctx context.Context) (*models.PingResponse, error) {
	if err := s.panel.Ping(ctx); err != nil {
		return nil, err
	}
	return &models.PingResponse{OK: true, Panel: "healthy"}, nil
}

func (s *ProvisionService) detailsResponse(subID string, record *client.PanelClientRecord) *models.DetailsResponse {
	return &models.DetailsResponse{
		OK:      true,
		SubID:   subID,
		SubLink: models.BuildSubLink(s.cfg.Gateway.SubLinkPattern, record.ID, subID),
		Client:  record,
	}
}

// inboundID applies the configured default when the request omits the
// inbound or sends a non-positive value.
func (s *ProvisionService) inboundID(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.cfg.Gateway.DefaultInboundID
}

// findClient returns the first record addressable by key, or nil.
func findClient(records []client.PanelClientRecord, key string) *client.PanelClientRecord {
	for i := range records {
		if records[i].Matches(key) {
			return &records[i]
		}
	}
	return nil
}
