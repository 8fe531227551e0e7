package build

import (
	"fmt"
	"strings"

	"github.com/provide-io/songbook/go/songbook/pkg/songbook/category"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/fragment"
	"github.com/provide-io/songbook/go/songbook/pkg/songbook/palette"
)

// SongSeparator is written between two songs in the master document.
const SongSeparator = "\n\n%%%%%%%%\n\n"

// LogoFillOperator is the PostScript fill colour in the logo template that
// gets replaced by the logo colour.
const LogoFillOperator = "1 0 1 rg"

// Template placeholders.
const (
	PlaceholderBody        = "{{BODY}}"
	PlaceholderTitleColor  = "{{TITLECOLOR}}"
	PlaceholderCoverColor  = "{{COVERCOLOR}}"
	PlaceholderBackColor   = "{{BACKCOLOR}}"
	PlaceholderLogoColor   = "{{LOGOCOLOR}}"
	PlaceholderAuthors     = "{{AUTHORS}}"
	PlaceholderSongOptions = "{{SONGOPTIONS}}"
	PlaceholderCategories  = "{{CATEGORIES}}"
)

// Document is everything that gets substituted into the master template.
type Document struct {
	Songs      []*fragment.Fragment
	Categories *category.Index
	Palette    palette.Palette
	Authors    string
	Chorded    bool
}

// SongBody concatenates the songs in order.
func SongBody(songs []*fragment.Fragment) string {
	bodies := make([]string, len(songs))
	for i, s := range songs {
		bodies[i] = s.Body
	}
	return strings.Join(bodies, SongSeparator)
}

// FormatAuthors renders a comma separated author list for the cover:
// "A", "A \& B", "A, B \& C". An empty list gives fallback.
func FormatAuthors(list, fallback string) string {
	var authors []string
	for _, a := range strings.Split(list, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	switch len(authors) {
	case 0:
		return fallback
	case 1:
		return authors[0]
	default:
		last := len(authors) - 1
		return fmt.Sprintf("%s \\& %s", strings.Join(authors[:last], ", "), authors[last])
	}
}

// CategoryListing renders the category index as unnumbered sections listing
// each song with its number in the book.
func CategoryListing(idx *category.Index, songs []*fragment.Fragment) string {
	if idx == nil || idx.Len() == 0 {
		return ""
	}
	number := make(map[*fragment.Fragment]int, len(songs))
	for i, s := range songs {
		number[s] = i + 1
	}

	var b strings.Builder
	for _, tag := range idx.Tags() {
		fmt.Fprintf(&b, "\\section*{%s}\n\\begin{itemize}\n", tag)
		for _, s := range idx.Get(tag) {
			fmt.Fprintf(&b, "  \\item %s \\dotfill %d\n", s.Title, number[s])
		}
		b.WriteString("\\end{itemize}\n")
	}
	return b.String()
}

// Render substitutes doc into the master template.
func Render(template string, doc Document) string {
	songOptions := "lyric"
	if doc.Chorded {
		songOptions = "chorded"
	}
	r := strings.NewReplacer(
		PlaceholderBody, SongBody(doc.Songs),
		PlaceholderTitleColor, doc.Palette.Title.String(),
		PlaceholderCoverColor, doc.Palette.Cover.String(),
		PlaceholderBackColor, doc.Palette.Back.String(),
		PlaceholderLogoColor, doc.Palette.Logo.String(),
		PlaceholderAuthors, doc.Authors,
		PlaceholderSongOptions, songOptions,
		PlaceholderCategories, CategoryListing(doc.Categories, doc.Songs),
	)
	return r.Replace(template)
}

// RecolorLogo replaces the fill colour of the EPS logo template.
func RecolorLogo(eps string, c palette.RGB) string {
	op := fmt.Sprintf("%.8f %.8f %.8f rg", float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
	return strings.ReplaceAll(eps, LogoFillOperator, op)
}
