package nfo

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/encoding/ianaindex"
)

// classifiedIDTags are the id tag spellings whose value is classified by
// shape: a tt prefix reads as an IMDb id, an all-digit value as a TMDB id.
// The bare id tag is retained separately as a last-resort candidate for both
// chains.
var classifiedIDTags = map[string]struct{}{
	"imdb":    {},
	"tmdb":    {},
	"imdbid":  {},
	"tmdbid":  {},
	"tmdb_id": {},
	"imdb_id": {},
}

// Parse reads the sidecar at path. Missing or malformed files yield an empty
// Record.
func Parse(path string) Record {
	file, err := os.Open(path)
	if err != nil {
		return Record{}
	}
	defer file.Close()
	return ParseReader(file)
}

// ParseReader extracts a Record from sidecar XML. Tag names match
// case-insensitively and only the direct text of top-level elements is
// considered, so nested structures like <set> or <actor> never bleed into
// the record. Repeated tags overwrite earlier values.
func ParseReader(r io.Reader) Record {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	var f fields
	var tag string
	var uniqueType string
	var text strings.Builder
	depth := 0
	sawChild := false

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) && depth == 0 {
				break
			}
			return Record{}
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				tag = strings.ToLower(t.Name.Local)
				uniqueType = ""
				text.Reset()
				sawChild = false
				if tag == "uniqueid" {
					for _, attr := range t.Attr {
						if strings.EqualFold(attr.Name.Local, "type") {
							uniqueType = strings.ToLower(attr.Value)
							break
						}
					}
				}
			} else if depth > 2 {
				sawChild = true
			}
		case xml.CharData:
			if depth == 2 && !sawChild {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				f.assign(tag, uniqueType, strings.TrimSpace(text.String()))
			}
			depth--
		}
	}
	return f.record()
}

func (f *fields) assign(tag, uniqueType, text string) {
	if text == "" {
		return
	}
	switch tag {
	case "uniqueid":
		switch uniqueType {
		case "tmdb":
			f.uniqueTMDB = text
		case "imdb":
			f.uniqueIMDB = text
		}
	case "id":
		f.rawID = text
	case "premiered":
		f.premiered = parseReleaseDate(text)
	case "release_date":
		f.releaseDate = parseReleaseDate(text)
	case "year":
		f.year = text
	case "productionyear":
		f.productionYear = text
	case "title":
		f.title = text
	case "originaltitle":
		f.originalTitle = text
	case "localtitle":
		f.localTitle = text
	default:
		if _, ok := classifiedIDTags[tag]; ok {
			f.classifyID(text)
		}
	}
}

func (f *fields) classifyID(value string) {
	switch {
	case strings.HasPrefix(strings.ToLower(value), "tt"):
		f.imdbTag = value
	case isDigits(value):
		f.tmdbTag = value
	}
}

// parseReleaseDate normalizes a premiered/release_date value to a four-digit
// year. Bare years pass through; full dates must be YYYY-MM-DD.
func parseReleaseDate(value string) string {
	if len(value) == 4 && isDigits(value) {
		return value
	}
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed.Format("2006")
	}
	return ""
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// charsetReader maps XML encoding declarations onto x/text decoders so
// non-UTF-8 sidecars (commonly ISO-8859-1) still parse.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return input, nil
	}
	return enc.NewDecoder().Reader(input), nil
}
