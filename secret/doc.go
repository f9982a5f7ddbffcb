// Package secret resolves credential values that point at a secret store
// instead of holding the secret itself.
//
// A value of the form
//
//	secretref:<provider>:<ref>
//
// is replaced by what the named provider returns for ref. Two providers are
// built in: "env" reads another environment variable and "file" reads a file
// (for mounted secrets). Plain values pass through after strict ${VAR}
// expansion, so DD_API_KEY=${VAULT_DD_KEY} also works.
package secret
