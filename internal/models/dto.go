package models

import (
	"encoding/json"

	"github.com/alsxui/provisioning-gateway/internal/client"
)

// Gateway actions, selected by the X-Alsxui-Action header.
const (
	ActionAdd     = "add"
	ActionDetails = "details"
	ActionPing    = "ping"
)

// SubIDLength is the length of generated subscription-id tokens.
const SubIDLength = 16

// AddRequest provisions one new client record on an inbound.
type AddRequest struct {
	UUID      string `json:"uuid"`      // generated when absent
	Email     string `json:"email"`
	LimitIP   int    `json:"limit_ip"`  // connection cap, 0 = unlimited
	TotalGB   int64  `json:"total_gb"`  // quota in gigabytes, 0 = unlimited
	ExpiryMs  int64  `json:"expiry_ms"` // absolute epoch ms, 0 = never
	InboundID int    `json:"inbound_id"`
	SubID     string `json:"subId"` // optional caller-supplied subscription id
}

// DetailsRequest looks up a client record and backfills its subscription id.
type DetailsRequest struct {
	UUID      string `json:"uuid"`
	InboundID int    `json:"inbound_id"`
}

// AddResponse reports a successful provisioning call.
type AddResponse struct {
	OK      bool            `json:"ok"`
	UUID    string          `json:"uuid"`
	SubID   string          `json:"subId"`
	SubLink string          `json:"subLink,omitempty"`
	Created json.RawMessage `json:"created,omitempty"` // raw panel creation response
}

// DetailsResponse reports a resolved client record. SubID may be empty when
// the best-effort backfill failed; callers treat that as "try again later".
type DetailsResponse struct {
	OK      bool                      `json:"ok"`
	SubID   string                    `json:"subId"`
	SubLink string                    `json:"subLink,omitempty"`
	Client  *client.PanelClientRecord `json:"client"`
}

// PingResponse reports panel health: a login round trip returned 2xx.
type PingResponse struct {
	OK    bool   `json:"ok"`
	Panel string `json:"panel"`
}
