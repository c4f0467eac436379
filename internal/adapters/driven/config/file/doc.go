// Package file keeps configuration and AI prompts on disk.
//
// ConfigStore reads config.toml and lets SERCHA_* environment variables
// override any key. PromptStore serves the editable prompt templates, and
// Watcher reloads the config when the file changes. The Load*Settings
// helpers turn keys into typed settings.
package file
