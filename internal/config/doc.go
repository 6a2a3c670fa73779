// Package config loads and merges vigil configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (VIGIL_ORG_URL, VIGIL_PROJECT, VIGIL_REPO, etc.)
//  3. Config file ($XDG_CONFIG_HOME/vigil/config.json)
//  4. Built-in defaults
//
// Credentials are never read from the config file: the Azure DevOps personal
// access token comes from AZURE_DEVOPS_PAT and the webhook shared secret from
// VIGIL_WEBHOOK_SECRET.
//
// Use [Load] to obtain a merged [Config] and [SetField] to update a single
// key for the config-set command.
package config
