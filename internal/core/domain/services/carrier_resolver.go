package services

import (
	"net/url"
	"sort"
	"strings"

	"orderengine/internal/core/domain/model/order"
)

// CarrierOther is the catch-all carrier whose tracking URL is supplied by the caller.
const CarrierOther = "other"

const trackingPlaceholder = "{tracking_number}"

var _ order.TrackingResolver = CarrierResolver{}

// Carrier is a row of the static carrier table.
type Carrier struct {
	ID          string
	DisplayName string
	URLTemplate string
}

func getCarriers() map[string]Carrier {
	return map[string]Carrier{
		"auspost": {
			ID: "auspost", DisplayName: "Australia Post",
			URLTemplate: "https://auspost.com.au/mypost/track/details/{tracking_number}",
		},
		"startrack": {
			ID: "startrack", DisplayName: "StarTrack",
			URLTemplate: "https://startrack.com.au/track/details/{tracking_number}",
		},
		"sendle": {
			ID: "sendle", DisplayName: "Sendle",
			URLTemplate: "https://track.sendle.com/tracking?ref={tracking_number}",
		},
		"dhl": {
			ID: "dhl", DisplayName: "DHL Express",
			URLTemplate: "https://www.dhl.com/global-en/home/tracking/tracking-express.html?submit=1&tracking-id={tracking_number}",
		},
		"fedex": {
			ID: "fedex", DisplayName: "FedEx",
			URLTemplate: "https://www.fedex.com/fedextrack/?trknbr={tracking_number}",
		},
		"ups": {
			ID: "ups", DisplayName: "UPS",
			URLTemplate: "https://www.ups.com/track?tracknum={tracking_number}",
		},
		"usps": {
			ID: "usps", DisplayName: "USPS",
			URLTemplate: "https://tools.usps.com/go/TrackConfirmAction?tLabels={tracking_number}",
		},
		"royalmail": {
			ID: "royalmail", DisplayName: "Royal Mail",
			URLTemplate: "https://www.royalmail.com/track-your-item#/tracking-results/{tracking_number}",
		},
		"canadapost": {
			ID: "canadapost", DisplayName: "Canada Post",
			URLTemplate: "https://www.canadapost-postescanada.ca/track-reperage/en#/search?searchFor={tracking_number}",
		},
		CarrierOther: {ID: CarrierOther, DisplayName: "Other"},
	}
}

// CarrierResolver turns carrier references into tracking URLs. It is stateless
// and deterministic: the same input always yields the same URL.
//
// Example:
//
//	r := services.NewCarrierResolver()
//	r.Resolve("auspost", "ABC123", "") // "https://auspost.com.au/mypost/track/details/ABC123"
//	r.Resolve("other", "X1", "https://carrier.example/X1") // "https://carrier.example/X1"
type CarrierResolver struct{}

// NewCarrierResolver returns the resolver over the built-in carrier table.
func NewCarrierResolver() CarrierResolver {
	return CarrierResolver{}
}

// Resolve returns the tracking URL for carrierID with the escaped tracking
// number substituted. For CarrierOther and unknown IDs it returns customURL,
// which may be empty.
func (CarrierResolver) Resolve(carrierID, trackingNumber, customURL string) string {
	c, ok := getCarriers()[normalizeCarrierID(carrierID)]
	if !ok || c.URLTemplate == "" {
		return customURL
	}
	return strings.ReplaceAll(c.URLTemplate, trackingPlaceholder, escapeTrackingNumber(c.URLTemplate, trackingNumber))
}

// escapeTrackingNumber escapes for the URL part the placeholder sits in:
// query escaping after a '?', path escaping otherwise, so a space becomes
// "+" only where "+" means space.
func escapeTrackingNumber(template, trackingNumber string) string {
	trackingNumber = strings.TrimSpace(trackingNumber)
	q := strings.Index(template, "?")
	if q >= 0 && q < strings.Index(template, trackingPlaceholder) {
		return url.QueryEscape(trackingNumber)
	}
	return url.PathEscape(trackingNumber)
}

// DisplayName returns the human name of a carrier, or the raw ID when unknown.
func (CarrierResolver) DisplayName(carrierID string) string {
	if c, ok := getCarriers()[normalizeCarrierID(carrierID)]; ok {
		return c.DisplayName
	}
	return carrierID
}

// IsKnown reports whether carrierID is in the table.
func (CarrierResolver) IsKnown(carrierID string) bool {
	_, ok := getCarriers()[normalizeCarrierID(carrierID)]
	return ok
}

// Carriers lists the table sorted by ID, with CarrierOther last.
func (CarrierResolver) Carriers() []Carrier {
	carriers := getCarriers()
	out := make([]Carrier, 0, len(carriers))
	for _, c := range carriers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID == CarrierOther || out[j].ID == CarrierOther {
			return out[j].ID == CarrierOther && out[i].ID != CarrierOther
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func normalizeCarrierID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
