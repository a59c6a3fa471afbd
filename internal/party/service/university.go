package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// universities maps known .edu domains to display names.
var universities = map[string]string{
	"carleton.edu":     "Carleton College",
	"umn.edu":          "University of Minnesota",
	"mit.edu":          "Massachusetts Institute of Technology",
	"berkeley.edu":     "University of California, Berkeley",
	"dartmouth.edu":    "Dartmouth College",
	"notredame.edu":    "University of Notre Dame",
	"bu.edu":           "Boston University",
	"bc.edu":           "Boston College",
	"harvard.edu":      "Harvard University",
	"stanford.edu":     "Stanford University",
	"yale.edu":         "Yale University",
	"princeton.edu":    "Princeton University",
	"columbia.edu":     "Columbia University",
	"cornell.edu":      "Cornell University",
	"upenn.edu":        "University of Pennsylvania",
	"brown.edu":        "Brown University",
	"nyu.edu":          "New York University",
	"ucla.edu":         "University of California, Los Angeles",
	"uchicago.edu":     "University of Chicago",
	"duke.edu":         "Duke University",
	"northwestern.edu": "Northwestern University",
	"jhu.edu":          "Johns Hopkins University",
	"rice.edu":         "Rice University",
	"vanderbilt.edu":   "Vanderbilt University",
	"emory.edu":        "Emory University",
	"georgetown.edu":   "Georgetown University",
	"cmu.edu":          "Carnegie Mellon University",
	"tufts.edu":        "Tufts University",
	"usc.edu":          "University of Southern California",
	"umich.edu":        "University of Michigan",
	"wisc.edu":         "University of Wisconsin-Madison",
	"illinois.edu":     "University of Illinois Urbana-Champaign",
	"gatech.edu":       "Georgia Institute of Technology",
	"purdue.edu":       "Purdue University",
	"utexas.edu":       "University of Texas at Austin",
	"osu.edu":          "The Ohio State University",
	"psu.edu":          "Pennsylvania State University",
	"ufl.edu":          "University of Florida",
	"ucdavis.edu":      "University of California, Davis",
	"uci.edu":          "University of California, Irvine",
	"ucsd.edu":         "University of California, San Diego",
	"ucsb.edu":         "University of California, Santa Barbara",
	"uw.edu":           "University of Washington",
	"virginia.edu":     "University of Virginia",
	"unc.edu":          "University of North Carolina at Chapel Hill",
	"umd.edu":          "University of Maryland",
	"rutgers.edu":      "Rutgers University",
	"pitt.edu":         "University of Pittsburgh",
	"wustl.edu":        "Washington University in St. Louis",
	"uiowa.edu":        "University of Iowa",
	"asu.edu":          "Arizona State University",
	"ua.edu":           "University of Alabama",
	"colostate.edu":    "Colorado State University",
	"colorado.edu":     "University of Colorado Boulder",
}

// IsEduEmail reports whether email has a local part and an .edu domain.
func IsEduEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.HasSuffix(domain, ".edu") && len(domain) > len(".edu")
}

// UniversityFromEmail derives the display university for an email address.
// Unknown domains become "<Label> University" from the first domain label,
// so student@unmapped-school.edu is "Unmapped-school University".
func UniversityFromEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	domain := email
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		domain = email[at+1:]
	}

	if name, ok := universities[domain]; ok {
		return name
	}

	label, _, _ := strings.Cut(domain, ".")
	if label == "" {
		return "Unknown University"
	}
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:] + " University"
}
