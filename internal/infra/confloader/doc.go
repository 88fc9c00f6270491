// Package confloader loads layered configuration with koanf.
//
// Sources are applied in order, later ones overriding earlier ones:
//
//  1. Values already present in the target struct (defaults)
//  2. A YAML configuration file
//  3. Environment variables
//
// Environment variables carry a prefix (LINKDROP_ by default) and use a
// double underscore to separate sections, so LINKDROP_STORAGE__TOKENS_FILE
// sets storage.tokens_file. A single underscore stays part of the key.
//
// Watcher reports writes to a configuration file so long running
// processes can pick up changes such as a new log level.
package confloader
