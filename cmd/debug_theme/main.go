package main

import (
	"fmt"
	"os"

	"github.com/docforge/textpanel/internal/theme"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/debug_theme/main.go <theme_file_path> [reference...]")
		os.Exit(1)
	}

	filePath := os.Args[1]
	fmt.Printf("Analyzing theme file: %s\n\n", filePath)

	t, err := theme.LoadThemeFile(filePath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Name:     %s\n", t.Name)
	fmt.Printf("Palette:  line %d\n", t.Line)
	fmt.Printf("Revision: %s\n\n", t.Revision)

	refs := t.References()
	if len(os.Args) > 2 {
		refs = refs[:0]
		for _, arg := range os.Args[2:] {
			refs = append(refs, theme.Reference(arg))
		}
	}

	for _, ref := range refs {
		lookup := theme.Walk(t.Palette, ref.Keys())
		value := theme.Resolve(ref, t, "<fallback>")
		if v, ok := value.Get(); ok {
			fmt.Printf("%-32s %-10s %s\n", ref, lookup.Kind, v)
		} else {
			fmt.Printf("%-32s %-10s <undefined>\n", ref, lookup.Kind)
		}
	}
}
