package enrichment

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationStatus grades a listing's compliance outcome. The numeric order
// is a total severity order: approved < review_required < rejected.
type ValidationStatus int

const (
	StatusApproved ValidationStatus = iota
	StatusReviewRequired
	StatusRejected
)

var statusNames = map[ValidationStatus]string{
	StatusApproved:       "approved",
	StatusReviewRequired: "review_required",
	StatusRejected:       "rejected",
}

// String returns the wire name of the status.
func (s ValidationStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ValidationStatus(%d)", int(s))
}

// Escalate returns the more severe of two statuses. It is commutative and
// associative, so merge order never changes the outcome.
func (s ValidationStatus) Escalate(other ValidationStatus) ValidationStatus {
	if other > s {
		return other
	}
	return s
}

// MarshalJSON encodes the status by its wire name.
func (s ValidationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status from its wire name.
func (s *ValidationStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseValidationStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseValidationStatus parses a wire name into a status.
func ParseValidationStatus(name string) (ValidationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "approved", "approve", "ok", "safe":
		return StatusApproved, nil
	case "review_required", "review", "needs_review":
		return StatusReviewRequired, nil
	case "rejected", "reject":
		return StatusRejected, nil
	}
	return StatusApproved, fmt.Errorf("unknown validation status %q", name)
}

// ValidationResult is the outcome of scanning a listing for compliance
// problems.
type ValidationResult struct {
	Status      ValidationStatus `json:"status"`
	Passed      bool             `json:"passed"`
	Flags       []string         `json:"flags"`
	ReviewNotes string           `json:"reviewNotes,omitempty"`
	RiskScore   int              `json:"riskScore"`
}

// CanPublish reports whether the listing may go live without human review.
func (v ValidationResult) CanPublish() bool {
	return v.Status == StatusApproved
}

// NeedsReview reports whether a human must look at the listing.
func (v ValidationResult) NeedsReview() bool {
	return v.Status == StatusReviewRequired
}

// IsProhibited reports whether the listing hit a hard block.
func (v ValidationResult) IsProhibited() bool {
	return v.Status == StatusRejected
}

// contentRule flags listings containing any of its keywords.
type contentRule struct {
	Flag     string
	Keywords []string
}

// prohibitedRules hard-block a listing. Entry order is severity priority:
// the first entry with any keyword hit wins and scanning stops.
var prohibitedRules = []contentRule{
	{Flag: "weapon", Keywords: []string{
		"ナイフ", "刀", "剣", "銃", "拳銃", "エアガン", "knife", "sword", "gun", "firearm", "airsoft",
	}},
	{Flag: "adult_content", Keywords: []string{
		"アダルト", "18禁", "r18", "成人向け", "adult only", "erotic",
	}},
	{Flag: "cites_material", Keywords: []string{
		"象牙", "べっ甲", "剥製", "ivory", "tortoiseshell", "taxidermy", "rhino horn",
	}},
	{Flag: "lithium_battery", Keywords: []string{
		"リチウムイオン電池", "リチウム電池", "モバイルバッテリー", "lithium battery", "li-ion", "lipo",
	}},
	{Flag: "hazardous_material", Keywords: []string{
		"スプレー缶", "可燃性", "引火性", "花火", "flammable", "aerosol",
	}},
	{Flag: "narcotics", Keywords: []string{
		"大麻", "麻薬", "cannabis", "marijuana",
	}},
}

// reviewRules queue a listing for human review. Every matching entry adds
// its flag; scanning never stops early.
var reviewRules = []contentRule{
	{Flag: "trademark_risk", Keywords: []string{
		"レプリカ", "コピー品", "模倣品", "replica", "counterfeit",
	}},
	{Flag: "pharmaceutical", Keywords: []string{
		"医薬品", "サプリメント", "サプリ", "medicine", "supplement",
	}},
	{Flag: "food_product", Keywords: []string{
		"食品", "飲料", "賞味期限", "food", "beverage",
	}},
	{Flag: "cosmetics", Keywords: []string{
		"化粧品", "コスメ", "cosmetic", "skincare",
	}},
	{Flag: "plant_material", Keywords: []string{
		"種子", "苗", "seeds", "live plant",
	}},
}

// ManualRejectionFlag marks a listing rejected by an operator rather than
// the keyword scan.
const ManualRejectionFlag = "manual_rejection"

// flagDescriptions is the catalog shown to reviewers, in flag order.
var flagDescriptions = []struct {
	Flag        string
	Description string
}{
	{"weapon", "Weapons and weapon parts cannot be exported"},
	{"adult_content", "Adult-only content is not listable on the target marketplace"},
	{"cites_material", "Material restricted under CITES (ivory, tortoiseshell, taxidermy)"},
	{"lithium_battery", "Standalone lithium batteries cannot be shipped internationally"},
	{"hazardous_material", "Flammable or pressurized goods are barred from air freight"},
	{"narcotics", "Controlled substances are strictly prohibited"},
	{"trademark_risk", "Possible replica or counterfeit wording, verify authenticity"},
	{"pharmaceutical", "Medicines and supplements need import clearance per destination"},
	{"food_product", "Food items face customs restrictions and shelf-life checks"},
	{"cosmetics", "Cosmetics may require ingredient disclosure for import"},
	{"plant_material", "Seeds and live plants need phytosanitary certificates"},
	{ManualRejectionFlag, "Rejected manually by an operator"},
}

// FlagDescription returns the reviewer-facing description for a flag.
func FlagDescription(flag string) (string, bool) {
	for _, d := range flagDescriptions {
		if d.Flag == flag {
			return d.Description, true
		}
	}
	return "", false
}

// AllFlags returns every known flag with its description, in catalog order.
func AllFlags() map[string]string {
	out := make(map[string]string, len(flagDescriptions))
	for _, d := range flagDescriptions {
		out[d.Flag] = d.Description
	}
	return out
}

// ValidateContent scans the lowercased concatenation of title, description
// and category against the prohibited and review keyword tables. A
// prohibited hit is terminal: status rejected, risk 100, a single flag.
// Review hits accumulate flags and raise the risk to 50.
func ValidateContent(title, description, category string) ValidationResult {
	text := normalizeText(title + " " + description + " " + category)

	for _, rule := range prohibitedRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, normalizeText(kw)) {
				return ValidationResult{
					Status:      StatusRejected,
					Passed:      false,
					Flags:       []string{rule.Flag},
					ReviewNotes: reviewNotesFor([]string{rule.Flag}),
					RiskScore:   100,
				}
			}
		}
	}

	result := ValidationResult{Status: StatusApproved, Passed: true, Flags: []string{}}
	for _, rule := range reviewRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, normalizeText(kw)) {
				result.Status = result.Status.Escalate(StatusReviewRequired)
				result.Passed = false
				result.Flags = appendFlag(result.Flags, rule.Flag)
				if result.RiskScore < 50 {
					result.RiskScore = 50
				}
				break
			}
		}
	}
	result.ReviewNotes = reviewNotesFor(result.Flags)
	return result
}

// MergeValidation combines the rule verdict with the classifier's. Status
// escalates to the worse of the two, flags union keeping rule order first,
// risk takes the max, and notes join with a blank line. A rejected rule
// verdict can never be downgraded.
func MergeValidation(ai *ListingValidation, rule ValidationResult) ValidationResult {
	if ai == nil {
		return rule
	}
	merged := rule
	merged.Status = rule.Status.Escalate(ai.Status)
	for _, flag := range ai.Flags {
		merged.Flags = appendFlag(merged.Flags, flag)
	}
	if ai.RiskScore > merged.RiskScore {
		merged.RiskScore = ai.RiskScore
	}
	merged.Passed = merged.Status == StatusApproved
	switch {
	case rule.ReviewNotes == "":
		merged.ReviewNotes = ai.ReviewNotes
	case ai.ReviewNotes != "":
		merged.ReviewNotes = rule.ReviewNotes + "\n\n" + ai.ReviewNotes
	}
	return merged
}

// reviewNotesFor joins flag descriptions with newlines, in flag order.
func reviewNotesFor(flags []string) string {
	notes := make([]string, 0, len(flags))
	for _, flag := range flags {
		if desc, ok := FlagDescription(flag); ok {
			notes = append(notes, desc)
		}
	}
	return strings.Join(notes, "\n")
}

func appendFlag(flags []string, flag string) []string {
	for _, f := range flags {
		if f == flag {
			return flags
		}
	}
	return append(flags, flag)
}
