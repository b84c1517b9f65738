package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind of a structured vehicle restriction.
type RestrictionKind string

const (
	// The vehicle must never carry orders for a matching customer.
	RestrictCustomer RestrictionKind = "customer"
	// The vehicle must never carry drums.
	RestrictNoDrums RestrictionKind = "no_drums"
	// Drums are allowed but the vehicle should be a last resort for them.
	RestrictSoftNoDrums RestrictionKind = "soft_no_drums"
	// The vehicle carries at most Limit 210 L drums.
	RestrictMaxDrums RestrictionKind = "max_drums"
)

// A single structured restriction attached to a vehicle. Restrictions are
// parsed from free text once, when vehicles are loaded, so that assignment
// never pattern-matches strings.
type Restriction struct {
	Kind  RestrictionKind
	Token string
	Limit int
}

var maxDrumsRe = regexp.MustCompile(`max\s*(\d+)\s*x?\s*210\s*l`)

// ParseRestrictions converts a vehicle's free-text restriction rules into
// structured restrictions. Rules are separated by commas, semicolons or
// newlines. Recognized forms:
//
//	"no drums"              -> RestrictNoDrums
//	"ideally no drums"      -> RestrictSoftNoDrums
//	"max 4x 210L drums"     -> RestrictMaxDrums{Limit: 4}
//	"no <customer>"         -> RestrictCustomer{Token: "<customer>"}
//
// Unrecognized clauses are ignored.
func ParseRestrictions(text string) []Restriction {
	var out []Restriction

	for _, clause := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	}) {
		clause = strings.ToLower(strings.TrimSpace(clause))
		if clause == "" {
			continue
		}

		if m := maxDrumsRe.FindStringSubmatch(clause); m != nil {
			limit, err := strconv.Atoi(m[1])
			if err == nil && limit >= 0 {
				out = append(out, Restriction{Kind: RestrictMaxDrums, Limit: limit})
			}
			continue
		}

		if strings.Contains(clause, "drum") {
			if strings.Contains(clause, "ideally") {
				out = append(out, Restriction{Kind: RestrictSoftNoDrums})
			} else if strings.Contains(clause, "no ") || strings.HasPrefix(clause, "no") {
				out = append(out, Restriction{Kind: RestrictNoDrums})
			}
			continue
		}

		if token, ok := strings.CutPrefix(clause, "no "); ok {
			token = strings.TrimSpace(token)
			if token != "" {
				out = append(out, Restriction{Kind: RestrictCustomer, Token: token})
			}
		}
	}

	return out
}
