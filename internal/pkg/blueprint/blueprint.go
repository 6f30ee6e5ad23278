// Package blueprint compiles wizard selections into the canonical plain-text
// blueprint document stored as a project's description, and extracts the
// prompt output format back out of it.
package blueprint

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// AIChoice is the sentinel palette label meaning "let the model pick".
// It is rendered as a readable label in the document, never raw.
const AIChoice = "AI_CHOICE"

const aiChoiceLabel = "AI Choice"

const (
	FormatText = "Text"
	FormatXML  = "XML"
	FormatJSON = "JSON"
)

var (
	Frontends = []string{"React + Vite", "Next.js", "Angular", "Vue.js", "HTML/CSS/JS", "Flutter", "React Native"}
	Backends  = []string{"Supabase", "Firebase", "Node.js", "Python", "Django", "None"}
	Formats   = []string{FormatText, FormatXML, FormatJSON}
	Palettes  = []string{"Modern Dark", "Light Clean", "Cyberpunk", "Corporate"}
)

var (
	ErrNameRequired        = errors.New("blueprint: project name is required")
	ErrDescriptionRequired = errors.New("blueprint: project description is required")
	ErrPaletteSize         = errors.New("blueprint: palette must have between 1 and 4 entries")
)

type Input struct {
	Name        string
	Description string
	Frontend    string
	Backend     string
	Format      string
	Palette     []string
}

// Compile renders the blueprint document. It is a pure transformation:
// identical inputs produce byte-identical output.
func Compile(in Input) (string, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if name == "" {
		return "", ErrNameRequired
	}
	if desc == "" {
		return "", ErrDescriptionRequired
	}
	if len(in.Palette) < 1 || len(in.Palette) > 4 {
		return "", ErrPaletteSize
	}

	labels := make([]string, 0, len(in.Palette))
	for _, p := range in.Palette {
		if p == AIChoice {
			labels = append(labels, aiChoiceLabel)
			continue
		}
		labels = append(labels, p)
	}

	return fmt.Sprintf(`APP BLUEPRINT: %s
=============================================

1. PROJECT DESCRIPTION
----------------------
%s

2. TECHNOLOGY STACK
-------------------
• Frontend:  %s
• Backend:   %s

3. PROMPT CONFIGURATION
-----------------------
• Format:    %s

4. DESIGN & THEMING
-------------------
• Palette:   %s
`, strings.ToUpper(name), desc, in.Frontend, in.Backend, in.Format, strings.Join(labels, ", ")), nil
}

var formatRe = regexp.MustCompile(`(?i)Format:\s*(JSON|XML)`)

// ExtractFormat pulls the prompt output format out of a blueprint document.
// The match is case-insensitive and defaults to JSON when the Format line is
// absent or unrecognized. Consumers depend on exactly this loose coupling.
func ExtractFormat(description string) string {
	m := formatRe.FindStringSubmatch(description)
	if m == nil {
		return FormatJSON
	}
	return strings.ToUpper(m[1])
}

// WantsAutoPalette reports whether the blueprint asked the model to choose the
// color palette.
func WantsAutoPalette(description string) bool {
	return strings.Contains(description, aiChoiceLabel)
}
