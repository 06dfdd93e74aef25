// Package securestore provides durable key-value storage for small secrets,
// primarily the persisted session projection of the NutriHealth client.
//
// The Store interface is deliberately tiny (Get, Set, Remove) so the
// session layer never depends on a concrete backend. Three implementations
// are provided:
//
//   - Keyring: the operating system credential manager, via
//     github.com/zalando/go-keyring. Default on developer machines.
//   - EncryptedFile: AES-256-GCM encrypted files under a directory, for
//     headless hosts without a keyring. The encryption key is derived from a
//     caller-supplied 32-byte master key using HKDF-SHA256.
//   - Memory: in-process map for tests.
//
// All implementations return errors rather than panicking; a failed Get is
// treated by callers as "nothing stored".
package securestore
