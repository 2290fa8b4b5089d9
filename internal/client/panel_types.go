package client

import (
	"encoding/json"
)

// PanelClientRecord is one provisioned account inside an inbound's client
// list. Field names are fixed by the 3x-ui panel API. TotalGB and Total both
// carry the traffic quota in bytes and are set identically on creation.
type PanelClientRecord struct {
	ID         string `json:"id"`
	Flow       string `json:"flow"`
	Email      string `json:"email"`
	LimitIP    int    `json:"limitIp"`
	TotalGB    int64  `json:"totalGB"`
	Total      int64  `json:"total"`
	ExpiryTime int64  `json:"expiryTime"` // epoch ms, 0 = never
	Enable     bool   `json:"enable"`
	TgID       string `json:"tgId"`
	SubID      string `json:"subId"`
	// Some panel builds expose the identifier under "uuid" as well.
	UUID string `json:"uuid,omitempty"`
}

// WithSubID returns a copy of the record with the subscription id set,
// leaving every other field untouched. The original record is not mutated,
// so a failed update never observes partial state.
func (r PanelClientRecord) WithSubID(subID string) PanelClientRecord {
	r.SubID = subID
	return r
}

// Matches reports whether the record is addressable by the given key:
// identifier, alternate identifier, or email.
func (r *PanelClientRecord) Matches(key string) bool {
	return r.ID == key || r.UUID == key || r.Email == key
}

// InboundSettings is the decoded form of an inbound's settings blob.
type InboundSettings struct {
	Clients []PanelClientRecord `json:"clients"`
}

// Inbound is a panel listener configuration. Settings is a JSON-encoded
// string holding an InboundSettings value.
type Inbound struct {
	ID       int    `json:"id"`
	Remark   string `json:"remark"`
	Enable   bool   `json:"enable"`
	Protocol string `json:"protocol"`
	Settings string `json:"settings"`
}

// Clients decodes the inbound's embedded client list. A missing or
// malformed settings blob yields an empty list, not an error.
func (i *Inbound) Clients() []PanelClientRecord {
	var settings InboundSettings
	if err := json.Unmarshal([]byte(i.Settings), &settings); err != nil {
		return nil
	}
	return settings.Clients
}

// LoginRequest is the panel login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// clientPayload is the body of addClient/updateClient calls: the single
// client record travels as a JSON-encoded settings string, matching the
// panel's own wire format.
type clientPayload struct {
	ID       int    `json:"id"`
	Settings string `json:"settings"`
}

func newClientPayload(inboundID int, record PanelClientRecord) (clientPayload, error) {
	settings, err := json.Marshal(InboundSettings{Clients: []PanelClientRecord{record}})
	if err != nil {
		return clientPayload{}, err
	}
	return clientPayload{ID: inboundID, Settings: string(settings)}, nil
}
