package resolver

import (
	"strings"

	"github.com/spencermiles/gpt-track-id/internal/track"
)

// The fixed taxonomy offered to the model. Values outside these lists may
// still come back; they are applied as-is.
var (
	genreTaxonomy = []string{
		"House", "Lo-fi House", "Leftfield House", "Deep House", "Tech House",
		"Minimal", "Techno", "Dub Techno", "Acid House", "Acid Techno", "Dub",
		"Hip Hop", "Rap", "R&B", "Dubstep", "UK Bass", "Bass", "UK Garage",
		"Disco", "Ambient", "Experimental", "Hypnotic", "Electro", "Trance",
		"Italo", "Edits", "Drum & Bass", "Jungle", "Breaks", "Happy Hardcore",
		"IDM", "Footwork", "Reggae", "Pop",
	}
	regionTaxonomy = []string{
		"Detroit", "Chicago", "NYC", "US", "UK", "Europe", "Berlin", "Japan",
		"Italy", "Canada", "Australia", "Latin America", "Africa",
	}
	eraTaxonomy = []string{"60s", "70s", "80s", "90s", "2000s", "2010s", "2020s"}
)

// BuildPrompt renders the full instruction for one batch: the DJ framing, the
// allowed taxonomy, the required JSON output shape keyed by "Artist - Track",
// and one "Artist: X | Track: Y | Album: Z" line per track.
func BuildPrompt(b track.Batch) string {
	lines := make([]string, 0, len(b.Tracks))
	for _, t := range b.Tracks {
		lines = append(lines, "Artist: "+t.ArtistOrUnknown()+" | Track: "+t.TitleOrUnknown()+" | Album: "+t.AlbumOrUnknown())
	}

	var sb strings.Builder
	sb.WriteString("<TASK>\n")
	sb.WriteString("You're a DJ, categorizing your digital collection into various tags for efficient recall during sets. For the following tracks, please return the following fields:\n")
	sb.WriteString("- genres (>=1, " + strings.Join(genreTaxonomy, ", ") + ")\n")
	sb.WriteString("- region (>=1, " + strings.Join(regionTaxonomy, ", ") + ")\n")
	sb.WriteString("- era (" + strings.Join(eraTaxonomy, ", ") + ")\n")
	sb.WriteString("</TASK>\n\n")
	sb.WriteString("<CONSTRAINTS>\n")
	sb.WriteString("- Only include the results when you have high certainty.\n")
	sb.WriteString("- If unsure, omit the field.\n")
	sb.WriteString("- Region can have multiple values. If a city is present, it should also include the parent region, i.e. [\"Chicago\", \"US\"]\n")
	sb.WriteString("</CONSTRAINTS>\n\n")
	sb.WriteString("<OUTPUT_FORMAT>\n")
	sb.WriteString("Return the results as JSON in this format:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"Artist - Track\": {\n")
	sb.WriteString("    \"genres\": [\"genre1\", \"genre2\"],\n")
	sb.WriteString("    \"region\": [\"region1\", \"region2\"],\n")
	sb.WriteString("    \"era\": \"era\"\n")
	sb.WriteString("  }\n")
	sb.WriteString("}\n")
	sb.WriteString("</OUTPUT_FORMAT>\n\n")
	sb.WriteString("<tracks>\n")
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n</tracks>")
	return sb.String()
}
