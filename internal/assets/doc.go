// Package assets provides the letter style sheets and markup template.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - assets compiled into the binary
//	    ├── FilesystemLoader  - assets from a custom directory on disk
//	    └── AssetResolver     - custom first, embedded on not-found
//
// AssetResolver is the loader used by the exporter. A custom directory may
// override any single file while the rest comes from the embedded set.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── base.css             # typography, palette, layout structure
//	│   └── themes/
//	│       └── {theme}.css      # theme-scoped rules
//	└── templates/
//	    └── letter.html          # letter markup template
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
