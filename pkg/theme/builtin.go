package theme

// Theme names. The portfolio has exactly these two.
const (
	Light = "light"
	Dark  = "dark"
)

// registerBuiltins registers both built-in themes in the registry.
func registerBuiltins() {
	for _, t := range []Theme{lightTheme(), darkTheme()} {
		register(t)
	}
}

// lightTheme returns the default warm paper-white theme.
func lightTheme() Theme {
	return Theme{
		Name:       Light,
		Background: "#fdfdfd",
		Foreground: "#2d2d2d",
		Dim:        "#8a8a8a",
		Accent:     "#0969da",

		Border: "#d8d8d8",
		Title:  "#1f1f1f",

		HeroName: "#0969da",
		HeroText: "#2d2d2d",
		Caret:    "#0969da",

		NavActive: "#0969da",
		NavBg:     "#f2f2f2",

		Link:  "#0a58ca",
		Tag:   "#6f42c1",
		Error: "#cf222e",
	}
}

// darkTheme returns the muted slate dark theme.
func darkTheme() Theme {
	return Theme{
		Name:       Dark,
		Background: "#16181d",
		Foreground: "#d7dae0",
		Dim:        "#6b7280",
		Accent:     "#4f9cf9",

		Border: "#30343c",
		Title:  "#e5e7eb",

		HeroName: "#4f9cf9",
		HeroText: "#d7dae0",
		Caret:    "#4f9cf9",

		NavActive: "#4f9cf9",
		NavBg:     "#1f232b",

		Link:  "#6cb2ff",
		Tag:   "#b392f0",
		Error: "#f47067",
	}
}
