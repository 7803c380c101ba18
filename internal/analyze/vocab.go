package analyze

// entityLabels maps Cloak's entity-category tags to human-readable labels
// for the preview panel.
var entityLabels = map[string]string{
	"PERSON":      "Person names",
	"ORG":         "Organizations",
	"LOC":         "Locations",
	"EMAIL":       "Email addresses",
	"PHONE":       "Phone numbers",
	"SSN":         "Social security numbers",
	"CREDIT_CARD": "Credit card numbers",
	"ACCOUNT":     "Account numbers",
	"IP":          "IP addresses",
	"SECRET":      "Secrets and credentials",
	"DATE":        "Dates",
}

// Label returns a display label for an entity-category tag, falling back to
// the raw tag for categories this client does not know about.
func Label(tag string) string {
	if label, ok := entityLabels[tag]; ok {
		return label
	}
	return tag
}
