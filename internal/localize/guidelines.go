package localize

// Region is a supported target market for resume localization.
type Region string

const (
	RegionUS   Region = "US"
	RegionUK   Region = "UK"
	RegionEU   Region = "EU"
	RegionAPAC Region = "APAC"
)

// Regions lists every supported region in display order.
func Regions() []Region {
	return []Region{RegionUS, RegionUK, RegionEU, RegionAPAC}
}

// Guidelines describes how resumes are expected to look in a region.
type Guidelines struct {
	Format        []string
	Terminology   []TermPair
	Sections      []string
	DateFormat    string
	CulturalNotes []string
}

// TermPair maps a term to its regional equivalent. Order matters: pairs are
// checked and applied in the order listed.
type TermPair struct {
	From string
	To   string
}

var regionGuidelines = map[Region]Guidelines{
	RegionUS: {
		Format: []string{
			"Do NOT include photo, age, marital status, or nationality",
			"Use month/day/year date format (e.g., 12/25/2023) or 'Month YYYY'",
			"Keep resume to 1-2 pages maximum (1 page preferred for <10 years experience)",
			"Use 'Resume' as document title, not 'CV'",
			"Include GPA if above 3.5 and recent graduate (within 2 years)",
			"List education after experience (unless recent graduate)",
			"Use letter-size paper (8.5\" x 11\")",
			"Avoid headers and footers (ATS compatibility)",
			"Use standard fonts: Arial, Calibri, Times New Roman",
		},
		Terminology: []TermPair{
			{"CV", "Resume"},
			{"Mobile", "Cell phone"},
			{"Post", "Position"},
			{"Holiday", "Vacation"},
			{"Redundancy", "Layoff"},
			{"Whilst", "While"},
			{"Amongst", "Among"},
			{"Programme", "Program"},
			{"Organised", "Organized"},
			{"Specialised", "Specialized"},
		},
		Sections: []string{
			"Contact Information",
			"Professional Summary (optional)",
			"Work Experience",
			"Education",
			"Skills",
			"Certifications (if applicable)",
		},
		DateFormat: "MM/DD/YYYY or Month YYYY",
		CulturalNotes: []string{
			"Emphasize quantifiable achievements and metrics",
			"Use action verbs to start bullet points",
			"Focus on individual contributions and results",
			"Keep tone professional but confident",
		},
	},
	RegionUK: {
		Format: []string{
			"Photo optional (not common, but acceptable)",
			"Use day/month/year date format (e.g., 25/12/2023) or 'Month YYYY'",
			"Can be 2-3 pages (2 pages is standard)",
			"Use 'CV' (Curriculum Vitae) as document title",
			"Include nationality if relevant for work authorization",
			"Education typically listed before experience",
			"Use A4 paper size",
			"Include postcode in address",
			"References section expected (can say 'available upon request')",
		},
		Terminology: []TermPair{
			{"Resume", "CV"},
			{"Cell phone", "Mobile"},
			{"Position", "Post"},
			{"Vacation", "Holiday"},
			{"Layoff", "Redundancy"},
			{"While", "Whilst"},
			{"Among", "Amongst"},
			{"Program", "Programme"},
			{"Organized", "Organised"},
			{"Specialized", "Specialised"},
			{"Analyze", "Analyse"},
			{"License", "Licence"},
		},
		Sections: []string{
			"Personal Details",
			"Personal Profile",
			"Education",
			"Work Experience / Employment History",
			"Skills",
			"References",
		},
		DateFormat: "DD/MM/YYYY or Month YYYY",
		CulturalNotes: []string{
			"Use British English spelling throughout",
			"Tone should be modest and factual",
			"Emphasize team contributions alongside individual achievements",
			"Include professional memberships if relevant",
		},
	},
	RegionEU: {
		Format: []string{
			"Photo often expected (professional headshot, country-dependent)",
			"Use day/month/year date format (e.g., 25.12.2023 or 25/12/2023)",
			"Can be 2-3 pages",
			"Consider Europass CV format for standardization",
			"Include date of birth, nationality, place of birth (often expected)",
			"Language skills section is critical - use CEFR levels (A1-C2)",
			"Use A4 paper size",
			"Include full address with country",
			"Marital status may be included (country-dependent)",
		},
		Terminology: []TermPair{
			{"Resume", "CV, Lebenslauf (DE), Curriculum Vitae"},
			{"Skills", "Competencies / Kompetenzen (DE)"},
			{"Work Experience", "Professional Experience / Berufserfahrung (DE)"},
			{"Education", "Education / Ausbildung (DE)"},
		},
		Sections: []string{
			"Personal Information",
			"Professional Summary / Objective",
			"Education",
			"Work Experience",
			"Language Skills (with CEFR levels)",
			"Technical Skills / Competencies",
			"Additional Information",
			"References",
		},
		DateFormat: "DD.MM.YYYY or DD/MM/YYYY",
		CulturalNotes: []string{
			"Emphasize formal qualifications and certifications",
			"List language proficiency using CEFR framework (A1-C2)",
			"Include all relevant training and professional development",
			"Chronological order is strongly preferred",
			"Be thorough and detailed - comprehensiveness is valued",
		},
	},
	RegionAPAC: {
		Format: []string{
			"Photo typically required (professional headshot, business attire)",
			"Use day/month/year date format (e.g., 25/12/2023)",
			"Can be 2-3 pages",
			"Include date of birth, nationality, marital status, gender",
			"Education listed first (especially in China, Japan, Korea, Singapore)",
			"References may be expected on CV (especially in Singapore, Australia)",
			"Use A4 paper size",
			"Include full address",
			"May include race/ethnicity in some countries (Malaysia, Singapore)",
		},
		Terminology: []TermPair{
			{"Resume", "CV or Resume (both accepted)"},
			{"Cell phone", "Mobile / Handphone (Singapore)"},
			{"Vacation", "Leave / Annual Leave"},
		},
		Sections: []string{
			"Personal Particulars / Personal Information",
			"Career Objective (common in East Asia)",
			"Education / Academic Qualifications",
			"Work Experience / Employment History",
			"Skills & Competencies",
			"Languages",
			"Co-curricular Activities (for recent graduates)",
			"References",
		},
		DateFormat: "DD/MM/YYYY",
		CulturalNotes: []string{
			"Emphasize educational credentials and institution prestige",
			"Include all relevant certifications and training",
			"Respect for hierarchy - mention reporting relationships",
			"Team harmony and collaboration are valued",
			"Include career objective for junior to mid-level positions",
			"List references with full contact details (if requested)",
		},
	},
}

// GuidelinesFor returns the guidelines for region, or false for unknown regions.
func GuidelinesFor(region Region) (Guidelines, bool) {
	g, ok := regionGuidelines[region]
	return g, ok
}
