package models

import "strings"

// Case variants kept for patterns written by hand in the storefront
// settings UI.
var subLinkPlaceholders = map[string][]string{
	"uuid":  {"{uuid}", "{UUID}"},
	"subId": {"{subId}", "{SUBID}", "{subid}"},
}

// BuildSubLink expands a subscription-link pattern with the client's uuid
// and subscription id. A pattern that references {subId} while the id is
// still empty yields no link: handing out a dead link is worse than none.
func BuildSubLink(pattern, uuid, subID string) string {
	if pattern == "" {
		return ""
	}
	if subID == "" {
		for _, ph := range subLinkPlaceholders["subId"] {
			if strings.Contains(pattern, ph) {
				return ""
			}
		}
	}
	link := pattern
	for _, ph := range subLinkPlaceholders["uuid"] {
		link = strings.ReplaceAll(link, ph, uuid)
	}
	for _, ph := range subLinkPlaceholders["subId"] {
		link = strings.ReplaceAll(link, ph, subID)
	}
	return link
}
