package main

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-mdextra/internal/assets"
	"github.com/alnah/go-mdextra/internal/pipeline"
)

// stylesPerLine wraps the highlight style list.
const stylesPerLine = 6

// runStyles lists the embedded document styles and the highlight styles.
func runStyles(env *Environment) {
	fmt.Fprintln(env.Stdout, "Document styles (--style):")
	for _, name := range assets.NewEmbeddedLoader().StyleNames() {
		marker := ""
		if name == assets.DefaultStyleName {
			marker = " (default)"
		}
		fmt.Fprintf(env.Stdout, "  %s%s\n", name, marker)
	}

	fmt.Fprintln(env.Stdout)
	fmt.Fprintf(env.Stdout, "Highlight styles (--highlight-style, default %s):\n", pipeline.DefaultHighlightStyle)
	names := styles.Names()
	for i := 0; i < len(names); i += stylesPerLine {
		end := min(i+stylesPerLine, len(names))
		fmt.Fprintf(env.Stdout, "  %s\n", strings.Join(names[i:end], ", "))
	}
}
