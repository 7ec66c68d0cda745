// Package secret keeps credentials out of configuration files.
//
// The gateway configuration carries the remote service's API key as a
// reference rather than a literal value. Two mechanisms cover it:
//
//   - ExpandEnvStrict replaces ${VAR} occurrences with environment
//     values and fails on unset variables.
//   - Resolver replaces "secretref:<scheme>:<ref>" occurrences with the
//     credential a Provider returns for that ref.
//
// References work as a full value or inline:
//
//	api_key: secretref:env:SEARCHGATE_API_KEY
//	api_key: Bearer secretref:env:SEARCHGATE_API_KEY
package secret
