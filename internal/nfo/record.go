package nfo

import "regexp"

var (
	imdbIDPattern = regexp.MustCompile(`^(?:ev\d{7,8}/\d{4}(?:-\d)?|(?:ch|co|ev|nm|tt)\d{7,8})$`)
	tmdbIDPattern = regexp.MustCompile(`^[1-9]\d{1,10}$`)
	yearPattern   = regexp.MustCompile(`^\d{4}$`)
)

// Record is the movie identity extracted from one sidecar file.
type Record struct {
	Title  string
	Year   string
	IMDBID string
	TMDBID string
}

// Complete reports whether the record can drive a catalog lookup: either id,
// or a title paired with a year.
func (r Record) Complete() bool {
	if r.IMDBID != "" || r.TMDBID != "" {
		return true
	}
	return r.Title != "" && r.Year != ""
}

// fields holds the raw values collected during the document walk. The Record
// accessors below apply the priority chains and validation.
type fields struct {
	title          string
	originalTitle  string
	localTitle     string
	premiered      string
	releaseDate    string
	year           string
	productionYear string
	uniqueIMDB     string
	uniqueTMDB     string
	imdbTag        string
	tmdbTag        string
	rawID          string
}

func (f fields) record() Record {
	return Record{
		Title:  firstNonEmpty(f.originalTitle, f.title, f.localTitle),
		Year:   firstMatching(yearPattern, f.premiered, f.releaseDate, f.year, f.productionYear),
		IMDBID: firstMatching(imdbIDPattern, f.uniqueIMDB, f.imdbTag, f.rawID),
		TMDBID: firstMatching(tmdbIDPattern, f.uniqueTMDB, f.tmdbTag, f.rawID),
	}
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func firstMatching(pattern *regexp.Regexp, candidates ...string) string {
	for _, candidate := range candidates {
		if candidate != "" && pattern.MatchString(candidate) {
			return candidate
		}
	}
	return ""
}
