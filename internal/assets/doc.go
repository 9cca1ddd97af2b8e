// Package assets provides the stylesheets and the document template used
// to build standalone HTML pages.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles and templates (go:embed)
//	    ├── FilesystemLoader  - a directory of custom assets on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css      # e.g. wiki.css
//	└── templates/
//	    └── {name}.html     # e.g. document.html
//
// # Security
//
// Asset names are validated before they reach the filesystem, and
// FilesystemLoader resolves symlinks and refuses paths outside basePath.
package assets
