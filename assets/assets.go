package assets

import "embed"

// DefaultConfigPath is the embedded fallback configuration document.
const DefaultConfigPath = "default_config.json"

//go:embed default_config.json
var DefaultConfigFS embed.FS
