// Package config holds linkdrop-cli preferences.
//
// The file lives at ~/.linkdrop/cli.yaml and records defaults that would
// otherwise be repeated on every invocation:
//
//	server: http://localhost:5000        # target of "health"
//	base_url: https://files.example.com  # prefix for issued links
//	output: table
//	server_config: /etc/linkdrop/linkdrop.yaml
//
// Environment variables (LINKDROP_CLI_*) override the file, and flags
// override both.
package config
