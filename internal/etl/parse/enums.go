// internal/etl/parse/enums.go
package parse

import "strings"

// Fixed lookup-table mappings from export spellings to the destination
// schema enumerations. All are total: unknown input takes the default.

// MapAppointmentType maps a free-text appointment type, default "showing".
func MapAppointmentType(appointmentType string) string {
	mapping := map[string]string{
		"Initial showing":   "showing",
		"Second visit":      "showing",
		"Third viewing":     "showing",
		"Final walkthrough": "inspection",
	}
	if mapped, ok := mapping[appointmentType]; ok {
		return mapped
	}
	return "showing"
}

// MapDocumentType maps a document name to document_type_enum, default "other".
func MapDocumentType(name string) string {
	mapping := map[string]string{
		"Survey":       "other",
		"Title Report": "title_report",
		"Appraisal":    "appraisal",
		"Disclosure":   "disclosure",
		"Contract":     "contract",
		"Inspection":   "inspection_report",
		"Insurance":    "insurance",
	}
	if mapped, ok := mapping[name]; ok {
		return mapped
	}
	return "other"
}

// MapLeadSource maps a lead source to lead_source_enum, default "other".
func MapLeadSource(leadSource string) string {
	if leadSource == "" {
		return "other"
	}
	mapping := map[string]string{
		"Website":          "website",
		"Social Media":     "social_media",
		"Referral":         "referral",
		"Walk-in":          "walk_in",
		"Open House":       "walk_in",
		"Direct Marketing": "advertisement",
		"Direct Mail":      "advertisement",
	}
	if mapped, ok := mapping[leadSource]; ok {
		return mapped
	}
	return "other"
}

// MapPayoutStatus maps a payout status, default "pending".
func MapPayoutStatus(payoutStatus string) string {
	if payoutStatus == "" {
		return "pending"
	}
	mapping := map[string]string{
		"Pending":  "pending",
		"PAID":     "paid",
		"Approved": "approved",
	}
	if mapped, ok := mapping[payoutStatus]; ok {
		return mapped
	}
	return "pending"
}

// MapPropertyType expands the export's property type abbreviations.
func MapPropertyType(propType string) string {
	mapping := map[string]string{
		"Co-op": "Cooperative",
		"TH":    "Townhouse",
		"Condo": "Condominium",
		"SFH":   "Single Family Home",
	}
	if mapped, ok := mapping[propType]; ok {
		return mapped
	}
	return propType
}

// MapPropertyStatus maps a transaction status to property_status_enum,
// default "active".
func MapPropertyStatus(status string) string {
	mapping := map[string]string{
		"SOLD":    "sold",
		"RENTED":  "rented",
		"ACTIVE":  "active",
		"PENDING": "pending",
	}
	if mapped, ok := mapping[status]; ok {
		return mapped
	}
	return "active"
}

// MapTransactionStatus maps a transaction status to
// transaction_status_enum, default "pending".
func MapTransactionStatus(status string) string {
	mapping := map[string]string{
		"SOLD":    "completed",
		"RENTED":  "completed",
		"ACTIVE":  "pending",
		"PENDING": "in_escrow",
	}
	if mapped, ok := mapping[status]; ok {
		return mapped
	}
	return "pending"
}

// MapCampaignType maps a marketing campaign type to campaign_type_enum,
// default "online".
func MapCampaignType(campaignType string) string {
	if campaignType == "" {
		return "online"
	}

	cleanType := strings.ReplaceAll(strings.ToLower(campaignType), " ", "_")

	mapping := map[string]string{
		"online_marketing":      "online",
		"social_media":          "social_media",
		"social_media_campaign": "social_media",
		"print_advertising":     "print",
		"email_campaign":        "email",
		"direct_mail":           "direct_mail",
		"community_event":       "open_house",
		"open_house":            "open_house",
		"online":                "online",
		"print":                 "print",
		"email":                 "email",
	}
	if mapped, ok := mapping[cleanType]; ok {
		return mapped
	}
	return "online"
}
