package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/keychain_service_mock.go -package=mock

// KeyChainService owns the key material primitives of the configuration
// store. It knows nothing about the document layout; [KeyManager] combines it
// with a [SecretsDocument].
//
// Key hierarchy:
//
//	PassKey   = DerivePassphraseKey(passphrase)       never persisted
//	ConfigKey = GenerateConfigKey()                   stored sealed under PassKey
//	DocKey    = DeriveDocumentKey(ConfigKey)          seals every other private field
//	MasterKey = GenerateMasterKey()                   stored sealed under DocKey
type KeyChainService interface {
	// DerivePassphraseKey stretches a passphrase with scrypt and a fixed
	// domain-separation salt. The same passphrase always yields the same key.
	DerivePassphraseKey(passphrase string) ([]byte, error)

	// DeriveDocumentKey expands a high-entropy secret into an AES-256 key
	// with HKDF-SHA256.
	DeriveDocumentKey(secret string) []byte

	// GenerateConfigKey returns a fresh, version-tagged config key.
	GenerateConfigKey() (string, error)

	// GenerateMasterKey returns a fresh master key secret.
	GenerateMasterKey() (string, error)
}

// SecretsDocument is the raw token view of the configuration document that
// the key manager needs. Values are tokens exactly as stored; no policy or
// codec is applied. The store's transaction implements it.
type SecretsDocument interface {
	Sections() []string
	Options(section string) []string
	Raw(section, option string) (string, bool)
	PutRaw(section, option, token string) error
	DeleteRaw(section, option string) error
}
