package planner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteProfile is returned when a required profile answer is missing.
var ErrIncompleteProfile = errors.New("planner: incomplete profile")

// EntityType is how the user earns income.
type EntityType string

const (
	EntityW2            EntityType = "w2_earner"
	EntityBusinessOwner EntityType = "business_owner"
	EntityMixed         EntityType = "mixed"
)

// IncomeRange is the user's annual income bracket.
type IncomeRange string

const (
	Income50To100K  IncomeRange = "50k_100k"
	Income100To200K IncomeRange = "100k_200k"
	Income200To500K IncomeRange = "200k_500k"
	Income500KTo1M  IncomeRange = "500k_1m"
	IncomeOver1M    IncomeRange = "1m_plus"
)

// RealEstate is the user's real estate involvement.
type RealEstate string

const (
	RealEstateNone    RealEstate = "none"
	RealEstateRentals RealEstate = "rentals"
	RealEstateREPS    RealEstate = "reps"
)

// AssetProtection is the user's current protection setup.
type AssetProtection string

const (
	ProtectionNone       AssetProtection = "none"
	ProtectionInterested AssetProtection = "interested"
	ProtectionExisting   AssetProtection = "existing"
)

// EstatePlanning is how soon the user needs estate planning.
type EstatePlanning string

const (
	EstateNotYet EstatePlanning = "not_yet"
	EstateSoon   EstatePlanning = "soon"
	EstateActive EstatePlanning = "active"
)

// Profile is the questionnaire answered before generating a playbook.
type Profile struct {
	EntityType      EntityType      `json:"entity_type"`
	IncomeRange     IncomeRange     `json:"income_range"`
	RealEstate      RealEstate      `json:"real_estate"`
	AssetProtection AssetProtection `json:"asset_protection"`
	EstatePlanning  EstatePlanning  `json:"estate_planning"`
	Goals           string          `json:"goals,omitempty"`
}

// labels maps the questionnaire's display answers onto profile values so
// clients may send either form.
var labels = map[string]string{
	"w-2 earner":                             string(EntityW2),
	"business owner":                         string(EntityBusinessOwner),
	"mixed (e.g., k-1 + salary)":             string(EntityMixed),
	"$50k–$100k":                             string(Income50To100K),
	"$100k–$200k":                            string(Income100To200K),
	"$200k–$500k":                            string(Income200To500K),
	"$500k–$1m":                              string(Income500KTo1M),
	"$1m+":                                   string(IncomeOver1M),
	"no real estate investing":               string(RealEstateNone),
	"own rentals (ltr or str)":               string(RealEstateRentals),
	"active investor with reps":              string(RealEstateREPS),
	"basic (personal accounts only)":         string(ProtectionNone),
	"interested in mso/trust setup":          string(ProtectionInterested),
	"already have some trusts or structures": string(ProtectionExisting),
	"not thinking about it yet":              string(EstateNotYet),
	"need help soon (1–3 yrs)":               string(EstateSoon),
	"already thinking about legacy/gifting":  string(EstateActive),
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if c, ok := labels[strings.ToLower(v)]; ok {
		return c
	}
	return v
}

// Normalize converts display labels to profile values and validates the
// result. Missing answers return ErrIncompleteProfile.
func (p Profile) Normalize() (Profile, error) {
	p.EntityType = EntityType(canonical(string(p.EntityType)))
	p.IncomeRange = IncomeRange(canonical(string(p.IncomeRange)))
	p.RealEstate = RealEstate(canonical(string(p.RealEstate)))
	p.AssetProtection = AssetProtection(canonical(string(p.AssetProtection)))
	p.EstatePlanning = EstatePlanning(canonical(string(p.EstatePlanning)))

	var missing []string
	if p.EntityType == "" {
		missing = append(missing, "entity_type")
	}
	if p.IncomeRange == "" {
		missing = append(missing, "income_range")
	}
	if p.RealEstate == "" {
		missing = append(missing, "real_estate")
	}
	if p.AssetProtection == "" {
		missing = append(missing, "asset_protection")
	}
	if p.EstatePlanning == "" {
		missing = append(missing, "estate_planning")
	}
	if len(missing) > 0 {
		return p, fmt.Errorf("%w: missing %s", ErrIncompleteProfile, strings.Join(missing, ", "))
	}

	switch p.EntityType {
	case EntityW2, EntityBusinessOwner, EntityMixed:
	default:
		return p, fmt.Errorf("unknown entity_type %q", p.EntityType)
	}
	switch p.IncomeRange {
	case Income50To100K, Income100To200K, Income200To500K, Income500KTo1M, IncomeOver1M:
	default:
		return p, fmt.Errorf("unknown income_range %q", p.IncomeRange)
	}
	switch p.RealEstate {
	case RealEstateNone, RealEstateRentals, RealEstateREPS:
	default:
		return p, fmt.Errorf("unknown real_estate %q", p.RealEstate)
	}
	switch p.AssetProtection {
	case ProtectionNone, ProtectionInterested, ProtectionExisting:
	default:
		return p, fmt.Errorf("unknown asset_protection %q", p.AssetProtection)
	}
	switch p.EstatePlanning {
	case EstateNotYet, EstateSoon, EstateActive:
	default:
		return p, fmt.Errorf("unknown estate_planning %q", p.EstatePlanning)
	}
	return p, nil
}

func (p Profile) ownsBusiness() bool {
	return p.EntityType == EntityBusinessOwner || p.EntityType == EntityMixed
}

func (p Profile) highIncome() bool {
	return p.IncomeRange == Income500KTo1M || p.IncomeRange == IncomeOver1M
}
