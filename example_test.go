package mdextra_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-mdextra"
)

// Example renders a small page with a table of contents.
func Example() {
	f, err := mdextra.NewFormatter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := f.ToHTML(context.Background(), mdextra.Input{
		Markdown: "# Title\n\n{toc h2..h2}\n\n## First\n\n## Second\n",
	})
	for _, line := range strings.Split(html, "\n") {
		if strings.Contains(line, "<li") {
			fmt.Println(strings.TrimPrefix(line, `<ul class="toc">`))
		}
	}
	// Output:
	// <li class="heading2"><a href="#first">First</a></li>
	// <li class="heading2"><a href="#second">Second</a></li>
}

// Example_macros shows a resolver, an escaped token and an unknown macro.
func Example_macros() {
	f, err := mdextra.NewFormatter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	resolver := mdextra.MacroResolverFunc(func(name string, args []string) (string, error) {
		if name == "hello" {
			return "Hello, " + strings.Join(args, " & ") + "!", nil
		}
		return "", nil
	})

	html := f.ToHTML(context.Background(), mdextra.Input{
		Markdown: "{{Hello(Ann, Bob)}} !{{hello(x)}} {{other}}",
		Macros:   resolver,
	})
	fmt.Print(html)
	// Output: <p>Hello, Ann & Bob! {{hello(x)}} {{other}}</p>
}

// Example_warnings shows the soft diagnostics returned by Format.
func Example_warnings() {
	f, err := mdextra.NewFormatter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := f.Format(context.Background(), mdextra.Input{
		Markdown: "See [the docs][docs] and note[^1].",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, w := range result.Warnings {
		fmt.Println(w)
	}
	// Output:
	// link-id not found - docs
	// undefined footnote id - 1
}

// Example_fallback shows the document returned when formatting fails.
func Example_fallback() {
	f, err := mdextra.NewFormatter(mdextra.WithHighlighter(failingHighlighter{}))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := f.ToHTML(context.Background(), mdextra.Input{Markdown: "```sh\nls\n```"})
	fmt.Println(mdextra.IsFallback(html))
	fmt.Println(strings.SplitN(html, "\n", 2)[0])
	fmt.Println(strings.HasSuffix(html, "```sh\nls\n```</pre>"))
	// Output:
	// true
	// <pre>problem parsing wiki text: highlighting code: engine offline
	// true
}

type failingHighlighter struct{}

func (failingHighlighter) Highlight(string, string) (string, error) {
	return "", errors.New("engine offline")
}
