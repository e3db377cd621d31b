package theme

// DefaultThemeName names the built-in reference theme
const DefaultThemeName = "default"

// DefaultTheme returns the built-in reference theme. It is used whenever a
// request neither carries a theme nor selects one from the project.
func DefaultTheme() *Theme {
	return &Theme{
		Name: DefaultThemeName,
		Palette: Branch(map[string]*Node{
			"primary": Branch(map[string]*Node{
				"main":         Leaf("#1976d2"),
				"light":        Leaf("#42a5f5"),
				"dark":         Leaf("#1565c0"),
				"contrastText": Leaf("#ffffff"),
			}),
			"secondary": Branch(map[string]*Node{
				"main":         Leaf("#9c27b0"),
				"light":        Leaf("#ba68c8"),
				"dark":         Leaf("#7b1fa2"),
				"contrastText": Leaf("#ffffff"),
			}),
			"text": Branch(map[string]*Node{
				"primary":   Leaf("#212121"),
				"secondary": Leaf("#757575"),
			}),
			"background": Branch(map[string]*Node{
				"default": Leaf("#ffffff"),
				"paper":   Leaf("#ffffff"),
			}),
		}),
	}
}
