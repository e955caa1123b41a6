package robbie

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	Assistant int // Assistant name prefix
	Prompt    int // Input cue
	Error     int // Error messages
	Muted     int // Model list, spinner label
	CodeBg    int // Code block background
	Accent    int // Headings, links, spinner
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Assistant: 2,
		Prompt:    4,
		Error:     1,
		Muted:     8,
		CodeBg:    0,
		Accent:    5,
	}
}
