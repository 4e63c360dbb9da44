package pipeline

import (
	"regexp"
	"strings"
)

// NormalizedPosting is a posting in canonical vocabulary, ready for
// duplicate detection, plus the attributes derived from it.
type NormalizedPosting struct {
	Title       string
	Company     string
	Location    string
	Description string

	IsRemote       bool
	SeniorityLevel string
	JobType        string
}

type replacement struct {
	re   *regexp.Regexp
	with string
}

// titleReplacements expand common abbreviations. Order matters: dotted
// forms must be tried before their bare counterparts.
var titleReplacements = []replacement{
	{regexp.MustCompile(`\bsr\.`), "senior"},
	{regexp.MustCompile(`\bsr\b`), "senior"},
	{regexp.MustCompile(`\bjr\.`), "junior"},
	{regexp.MustCompile(`\bjr\b`), "junior"},
	{regexp.MustCompile(`\bdev\b`), "developer"},
	{regexp.MustCompile(`\beng\b`), "engineer"},
	{regexp.MustCompile(`\bmgr\b`), "manager"},
	{regexp.MustCompile(`\badmin\b`), "administrator"},
	{regexp.MustCompile(`\bsys\b`), "system"},
	{regexp.MustCompile(`\bdb\b`), "database"},
	{regexp.MustCompile(`\bqa\b`), "quality assurance"},
}

// acronyms get re-uppercased after title casing mangles them.
var acronyms = []string{"Api", "Ui", "Ux", "Ml", "Ai", "Sql", "Aws"}

var legalSuffixes = map[string]struct{}{
	"inc":          {},
	"incorporated": {},
	"llc":          {},
	"llp":          {},
	"corp":         {},
	"corporation":  {},
	"co":           {},
	"ltd":          {},
	"limited":      {},
	"plc":          {},
	"gmbh":         {},
}

var remoteIndicators = []string{
	"remote",
	"work from home",
	"wfh",
	"telecommute",
	"distributed",
	"anywhere",
	"virtual",
}

var zipRe = regexp.MustCompile(`\s*\d{5}(-\d{4})?\s*`)

// cityAbbreviations expand informal city names to "city, state" pairs.
// "nyc" maps to plain "New York" so it lands on the same spelling as a
// scraped "New York, NY".
var cityAbbreviations = map[string][2]string{
	"nyc":    {"New York", "NY"},
	"sf":     {"San Francisco", "CA"},
	"la":     {"Los Angeles", "CA"},
	"dc":     {"Washington", "DC"},
	"philly": {"Philadelphia", "PA"},
}

var stateCodes = map[string]string{
	"alabama":        "AL",
	"arizona":        "AZ",
	"california":     "CA",
	"colorado":       "CO",
	"florida":        "FL",
	"georgia":        "GA",
	"illinois":       "IL",
	"maryland":       "MD",
	"massachusetts":  "MA",
	"michigan":       "MI",
	"minnesota":      "MN",
	"new jersey":     "NJ",
	"new york":       "NY",
	"north carolina": "NC",
	"ohio":           "OH",
	"oregon":         "OR",
	"pennsylvania":   "PA",
	"tennessee":      "TN",
	"texas":          "TX",
	"utah":           "UT",
	"virginia":       "VA",
	"washington":     "WA",
	"wisconsin":      "WI",
}

type keywordMapping struct {
	keyword string
	value   string
}

// seniorityLevels are checked in order; the first keyword found in the
// normalized title wins.
var seniorityLevels = []keywordMapping{
	{"intern", "Intern"},
	{"junior", "Junior"},
	{"associate", "Associate"},
	{"senior", "Senior"},
	{"lead", "Lead"},
	{"principal", "Principal"},
	{"staff", "Staff"},
	{"director", "Director"},
	{"vice president", "VP"},
	{"vp", "VP"},
	{"head of", "Head"},
	{"chief", "C-Level"},
}

var jobTypes = []keywordMapping{
	{"engineer", "Engineering"},
	{"developer", "Engineering"},
	{"programmer", "Engineering"},
	{"architect", "Engineering"},
	{"scientist", "Data Science"},
	{"analyst", "Analytics"},
	{"manager", "Management"},
	{"director", "Management"},
	{"product", "Product"},
	{"design", "Design"},
	{"marketing", "Marketing"},
	{"sales", "Sales"},
	{"recruiter", "HR"},
	{"consultant", "Consulting"},
	{"researcher", "Research"},
}

// Normalizer maps cleaned postings onto a shared vocabulary so the same
// job posted with different spellings compares equal.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(c *CleanedPosting) *NormalizedPosting {
	title := normalizeTitle(c.Title)
	location := normalizeLocation(c.Location)

	return &NormalizedPosting{
		Title:          title,
		Company:        normalizeCompany(c.Company),
		Location:       location,
		Description:    c.Description,
		IsRemote:       detectRemote(title, location),
		SeniorityLevel: detectSeniority(title),
		JobType:        detectJobType(title),
	}
}

func normalizeTitle(s string) string {
	lowered := strings.ToLower(s)
	for _, r := range titleReplacements {
		lowered = r.re.ReplaceAllString(lowered, r.with)
	}
	out := titleCase(lowered)
	for _, acr := range acronyms {
		out = replaceWord(out, acr, strings.ToUpper(acr))
	}
	return out
}

// replaceWord swaps whole-word occurrences only, so "Uipath" keeps its
// spelling while "Ui Designer" becomes "UI Designer".
func replaceWord(s, word, with string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if f == word {
			fields[i] = with
		}
	}
	return strings.Join(fields, " ")
}

// normalizeCompany strips trailing legal suffixes ("Acme Corp." and
// "Acme, Inc." both become "Acme") and title-cases the remainder so
// differently-cased scrapes of the same employer compare equal. Up to two
// suffix tokens are removed.
func normalizeCompany(s string) string {
	if s == "" {
		return ""
	}
	for range 2 {
		trimmed := strings.TrimRight(strings.TrimSpace(s), ".,")
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			break
		}
		last := strings.ToLower(strings.Trim(fields[len(fields)-1], ".,"))
		if _, ok := legalSuffixes[last]; !ok {
			break
		}
		s = strings.TrimRight(strings.Join(fields[:len(fields)-1], " "), ".,")
	}
	return titleCase(strings.TrimSpace(s))
}

func normalizeLocation(s string) string {
	if s == "" {
		return ""
	}

	lowered := strings.ToLower(s)
	for _, ind := range remoteIndicators {
		if strings.Contains(lowered, ind) {
			return "Remote"
		}
	}

	s = strings.TrimSpace(zipRe.ReplaceAllString(s, " "))
	s = strings.Trim(s, ",")

	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		if pair, ok := cityAbbreviations[strings.ToLower(parts[0])]; ok {
			return pair[0] + ", " + pair[1]
		}
		return titleCase(parts[0])
	case 2:
		city := titleCase(parts[0])
		if pair, ok := cityAbbreviations[strings.ToLower(parts[0])]; ok {
			city = pair[0]
		}
		return city + ", " + normalizeState(parts[1])
	default:
		return titleCase(parts[0]) + ", " + titleCase(parts[1])
	}
}

func normalizeState(s string) string {
	lowered := strings.ToLower(strings.TrimSpace(s))
	if code, ok := stateCodes[lowered]; ok {
		return code
	}
	if len(lowered) == 2 {
		return strings.ToUpper(lowered)
	}
	return titleCase(s)
}

func detectRemote(title, location string) bool {
	haystack := strings.ToLower(title + " " + location)
	for _, ind := range remoteIndicators {
		if strings.Contains(haystack, ind) {
			return true
		}
	}
	return false
}

func detectSeniority(title string) string {
	lowered := strings.ToLower(title)
	for _, m := range seniorityLevels {
		if strings.Contains(lowered, m.keyword) {
			return m.value
		}
	}
	return "Mid-Level"
}

func detectJobType(title string) string {
	lowered := strings.ToLower(title)
	for _, m := range jobTypes {
		if strings.Contains(lowered, m.keyword) {
			return m.value
		}
	}
	return "Other"
}
