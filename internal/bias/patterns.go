package bias

// Category groups detected phrases by the kind of bias they carry.
type Category string

const (
	CategoryGender        Category = "gender"
	CategoryAge           Category = "age"
	CategoryRace          Category = "race"
	CategoryDisability    Category = "disability"
	CategoryReligion      Category = "religion"
	CategoryMaritalStatus Category = "marital_status"
	CategorySocioeconomic Category = "socioeconomic"
	CategoryOther         Category = "other"
)

type pattern struct {
	Suggestion string
	Reason     string
	Confidence float64
}

// RemoveMarker is the suggestion value meaning the phrase should be deleted
// rather than replaced.
const RemoveMarker = "[remove]"

// categoryWeights determine how heavily each category counts toward the score.
var categoryWeights = map[Category]float64{
	CategoryGender:        3.0,
	CategoryAge:           2.5,
	CategoryRace:          3.5,
	CategoryDisability:    3.0,
	CategoryReligion:      3.5,
	CategoryMaritalStatus: 4.0,
	CategorySocioeconomic: 2.5,
	CategoryOther:         2.0,
}

var biasPatterns = map[Category]map[string]pattern{
	CategoryGender: {
		"he/she":          {"they", "Use gender-neutral pronouns", 0.9},
		"his/her":         {"their", "Use gender-neutral pronouns", 0.9},
		"him/her":         {"them", "Use gender-neutral pronouns", 0.9},
		"himself/herself": {"themselves", "Use gender-neutral pronouns", 0.9},
		"salesman":        {"salesperson", "Use gender-neutral job titles", 1.0},
		"saleswoman":      {"salesperson", "Use gender-neutral job titles", 1.0},
		"chairman":        {"chairperson", "Use gender-neutral job titles", 1.0},
		"chairwoman":      {"chairperson", "Use gender-neutral job titles", 1.0},
		"businessman":     {"businessperson", "Use gender-neutral job titles", 1.0},
		"businesswoman":   {"businessperson", "Use gender-neutral job titles", 1.0},
		"manpower":        {"workforce", "Use gender-neutral terms", 0.95},
		"man-hours":       {"work hours", "Use gender-neutral terms", 0.95},
		"guys":            {"team", "Use gender-neutral terms for groups", 0.8},
		"waitress":        {"server", "Use gender-neutral job titles", 1.0},
		"waiter":          {"server", "Use gender-neutral job titles", 1.0},
		"stewardess":      {"flight attendant", "Use gender-neutral job titles", 1.0},
		"policeman":       {"police officer", "Use gender-neutral job titles", 1.0},
		"policewoman":     {"police officer", "Use gender-neutral job titles", 1.0},
		"fireman":         {"firefighter", "Use gender-neutral job titles", 1.0},
	},
	CategoryAge: {
		"young":           {"energetic", "Avoid age references", 0.7},
		"youthful":        {"dynamic", "Avoid age references", 0.8},
		"mature":          {"experienced", "Avoid age references", 0.7},
		"senior":          {"experienced", "Avoid age references unless referring to job level", 0.6},
		"junior":          {"entry-level", "Use level-based terms", 0.6},
		"recent graduate": {"new professional", "Focus on skills, not graduation timing", 0.8},
		"digital native":  {"tech-savvy", "Avoid generational stereotypes", 0.9},
		"millennial":      {"professional", "Avoid generational labels", 0.9},
		"gen z":           {"professional", "Avoid generational labels", 0.9},
		"baby boomer":     {"experienced professional", "Avoid generational labels", 0.9},
		"old":             {"experienced", "Avoid age references", 0.95},
		"elderly":         {"experienced", "Avoid age references", 0.95},
	},
	CategoryRace: {
		"native english speaker": {"fluent in English", "Focus on proficiency, not origin", 0.9},
		"native speaker":         {"fluent", "Focus on proficiency, not origin", 0.85},
		"articulate":             {"clear communicator", "Can carry racial undertones", 0.6},
		"urban":                  {"city", "Can carry racial undertones in some contexts", 0.5},
		"diverse":                {"varied", "Be specific about what varies", 0.6},
		"minority":               {"underrepresented", "Use more specific terms", 0.7},
		"exotic":                 {"unique", "Can carry racial undertones", 0.8},
	},
	CategoryDisability: {
		"crazy":            {"intense", "Avoid ableist language", 0.8},
		"insane":           {"remarkable", "Avoid ableist language", 0.8},
		"blind to":         {"unaware of", "Avoid ableist language", 0.9},
		"deaf to":          {"ignored", "Avoid ableist language", 0.9},
		"lame":             {"weak", "Avoid ableist language", 0.9},
		"dumb":             {"ineffective", "Avoid ableist language", 0.9},
		"crippled":         {"limited", "Avoid ableist language", 1.0},
		"handicapped":      {"person with disability", "Use person-first language", 0.9},
		"wheelchair-bound": {"wheelchair user", "Use person-first language", 0.95},
		"suffers from":     {"has", "Avoid victimizing language", 0.85},
	},
	CategoryReligion: {
		"christian values": {"ethical values", "Use secular terms", 0.9},
		"god-fearing":      {"principled", "Use secular terms", 0.95},
		"blessed":          {"fortunate", "Use secular terms", 0.7},
	},
	CategoryMaritalStatus: {
		"married":  {RemoveMarker, "Marital status is not relevant", 0.95},
		"single":   {RemoveMarker, "Marital status is not relevant", 0.95},
		"divorced": {RemoveMarker, "Marital status is not relevant", 0.95},
	},
	CategorySocioeconomic: {
		"privileged":      {"advantaged", "Can imply class bias", 0.6},
		"underprivileged": {"underserved", "Can imply class bias", 0.7},
		"ghetto":          {"neighborhood", "Avoid classist language", 0.95},
		"trailer park":    {"community", "Avoid classist language", 0.9},
	},
	CategoryOther: {
		"aggressive": {"assertive", "Can be perceived differently by gender", 0.6},
		"bossy":      {"leadership-oriented", "Often used negatively for women", 0.85},
		"emotional":  {"passionate", "Can be perceived differently by gender", 0.6},
		"shrill":     {"emphatic", "Often used negatively for women", 0.9},
		"feisty":     {"spirited", "Can be condescending", 0.8},
		"bubbly":     {"enthusiastic", "Can be diminishing", 0.75},
	},
}
