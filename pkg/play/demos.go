package play

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vango-dev/nanohtml/pkg/html"
	"github.com/vango-dev/nanohtml/pkg/nano"
)

// Demo is one playground example: a nano structure, the transformer options
// it is rendered with, and a check for the produced markup.
type Demo struct {
	Name        string
	Title       string
	Description string

	// Data is the nano structure to render.
	Data any

	// Options configure the transformer.
	Options []html.Option

	// SourceLines and OutputLines limit how much Run prints. Zero prints
	// everything.
	SourceLines int
	OutputLines int

	// Validate checks the rendered markup. Nil accepts anything.
	Validate func(markup string) error
}

var demos = []*Demo{
	transformationDemo(),
	attributesDemo(),
	listsDemo(),
	bootstrapDemo(),
}

func transformationDemo() *Demo {
	return &Demo{
		Name:        "transformation",
		Title:       "Basic HTML Transformation Demo",
		Description: "Nested objects become nested elements.",
		Data: nano.Obj("div", nano.Obj(
			"h1", "Hello Universe",
			"p", "This is a simple paragraph using nano to HTML transformation",
		)),
		Options: []html.Option{html.WithEOL("\n"), html.WithIndent("\t")},
		Validate: expectExact("<div>\n" +
			"\t<h1>Hello Universe</h1>\n" +
			"\t<p>This is a simple paragraph using nano to HTML transformation</p>\n" +
			"</div>"),
	}
}

func attributesDemo() *Demo {
	return &Demo{
		Name:        "attributes",
		Title:       "HTML Attributes & Classes Demo",
		Description: "Shortcuts in element keys and $ keys both produce attributes.",
		Data: []any{
			nano.Obj("div.d-flex.flex-column#container", []any{
				nano.Obj("span.text-bold", "Bold text"),
				nano.Obj("a.btn.btn-primary#link", nano.Obj(
					"$href", "#",
					"$target", "_blank",
					"span", "Primary Button",
				)),
				nano.Obj("img#logo", nano.Obj(
					"$src", "logo.png",
					"$alt", "Logo",
					"$width", 100,
					"$height", 100,
				)),
			}),
		},
		Options: []html.Option{html.WithMinify()},
		Validate: expectContains(
			`class="d-flex flex-column"`,
			`id="container"`,
			`href="#"`,
			`target="_blank"`,
			`src="logo.png"`,
		),
	}
}

func listsDemo() *Demo {
	return &Demo{
		Name:        "lists",
		Title:       "List Rendering (ul/ol) Demo",
		Description: "Items of ul and ol are wrapped in li unless they already are one.",
		Data: []any{
			nano.Obj("ul", []any{
				"First item",
				"Second item",
				nano.Obj("li", []any{"Nested item", nano.Obj("strong", "with bold text")}),
				"Fourth item",
			}),
			nano.Obj("ol", []any{
				"First step",
				"Second step",
				nano.Obj("li", []any{"Sub-step", nano.Obj("em", "with emphasis")}),
				"Final step",
			}),
		},
		Options: []html.Option{html.WithMinify()},
		Validate: expectContains(
			"<ul><li>First item</li><li>Second item</li><li>Nested item<strong>with bold text</strong></li><li>Fourth item</li></ul>",
			"<ol><li>First step</li><li>Second step</li><li>Sub-step<em>with emphasis</em></li><li>Final step</li></ol>",
		),
	}
}

func bootstrapDemo() *Demo {
	card := func(title, text, class, label string) any {
		return nano.Obj("$class", "col-md-6 mb-4", "div", []any{
			nano.Obj("$class", "card", "div", []any{
				nano.Obj("$class", "card-body", "div", []any{
					nano.Obj("h5", nano.Obj("$class", "card-title", "span", title)),
					nano.Obj("p.card-text", text),
					nano.Obj("a", nano.Obj("$class", class, "$href", "#", "span", label)),
				}),
			}),
		})
	}

	page := []any{
		nano.Obj("!DOCTYPE", true, "$html", true),
		nano.Obj("$lang", "en", "html", []any{
			nano.Obj("head", []any{
				nano.Obj("meta", true, "$charset", "UTF-8"),
				nano.Obj("meta", true, "$name", "viewport", "$content", "width=device-width, initial-scale=1.0"),
				nano.Obj("title", "Bootstrap Demo with nanohtml"),
				nano.Obj(
					"$href", "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css",
					"$rel", "stylesheet",
					"link", true,
				),
				nano.Obj("style", ".card { transition: transform 0.2s; } .card:hover { transform: translateY(-2px); }"),
			}),
			nano.Obj("body", []any{
				nano.Obj("$class", "container py-5", "div", []any{
					nano.Obj("h1", "Welcome to Bootstrap Demo"),
					nano.Obj("$class", "row", "div", []any{
						card("Feature 1", "This demonstrates how nano structures become Bootstrap-compatible markup.", "btn btn-primary", "Learn More"),
						card("Feature 2", "The transformation preserves all necessary classes and structure.", "btn btn-success", "Get Started"),
					}),
					nano.Obj("$class", "text-center mt-4", "div", []any{
						nano.Obj("a", nano.Obj(
							"$class", "btn btn-outline-secondary",
							"$href", "https://github.com/vango-dev/nanohtml",
							"span", "View Source on GitHub",
						)),
					}),
				}),
				nano.Obj("$class", "border-top mt-5 pt-4", "footer", []any{
					nano.Obj("$class", "text-muted text-center", "p", "© 2024 nanohtml"),
				}),
				nano.Obj("#Bootstrap JS", "5.3.3"),
				nano.Obj("script", true, "$src", "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"),
			}),
		}),
	}

	return &Demo{
		Name:        "bootstrap",
		Title:       "Bootstrap Layout Demo",
		Description: "A full page with a Bootstrap grid.",
		Data:        page,
		SourceLines: 20,
		OutputLines: 30,
		Validate: expectPatterns(
			`<meta[^>]+viewport[^>]+width=device-width`,
			`bootstrap\.min\.css`,
			`class="container`,
			`class="row`,
			`class="col-md-6`,
			`class="card`,
			`class="btn btn-primary`,
			`class="btn btn-success`,
			`class="text-center`,
			`class="border-top`,
			`class="text-muted`,
			`bootstrap\.bundle\.min\.js`,
		),
	}
}

func expectExact(want string) func(string) error {
	return func(got string) error {
		if got != want {
			return fmt.Errorf("rendered markup differs:\n%s\nwant:\n%s", got, want)
		}
		return nil
	}
}

func expectContains(parts ...string) func(string) error {
	return func(got string) error {
		for _, part := range parts {
			if !strings.Contains(got, part) {
				return fmt.Errorf("missing %s", part)
			}
		}
		return nil
	}
}

func expectPatterns(patterns ...string) func(string) error {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return func(got string) error {
		for _, re := range res {
			if !re.MatchString(got) {
				return fmt.Errorf("missing pattern %s", re)
			}
		}
		return nil
	}
}
