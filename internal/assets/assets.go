package assets

// Built-in asset names.
const (
	DefaultStyleName     = "default"
	DocumentTemplateName = "document"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded CSS style by name (no .css extension).
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an embedded HTML template by name (no .html extension).
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}
