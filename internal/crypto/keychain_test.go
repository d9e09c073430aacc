package crypto

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

var testParams = Params{ScryptN: 16, ScryptR: 1, ScryptP: 1}

func TestDerivePassphraseKey_Deterministic(t *testing.T) {
	svc := NewKeyChainService(testParams)

	k1, err := svc.DerivePassphraseKey("correct horse battery staple")
	if err != nil {
		t.Fatalf("DerivePassphraseKey error: %v", err)
	}
	k2, err := svc.DerivePassphraseKey("correct horse battery staple")
	if err != nil {
		t.Fatalf("DerivePassphraseKey error: %v", err)
	}

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to match for the same passphrase")
	}
}

func TestDerivePassphraseKey_DifferentPassphrases(t *testing.T) {
	svc := NewKeyChainService(testParams)

	k1, _ := svc.DerivePassphraseKey("one")
	k2, _ := svc.DerivePassphraseKey("two")

	if bytes.Equal(k1, k2) {
		t.Fatalf("expected different passphrases to produce different keys")
	}
}

func TestDerivePassphraseKey_InvalidParams(t *testing.T) {
	svc := NewKeyChainService(Params{ScryptN: 3, ScryptR: 1, ScryptP: 1})

	if _, err := svc.DerivePassphraseKey("x"); err == nil {
		t.Fatalf("expected error for N that is not a power of two")
	}
}

func TestNewKeyChainService_Defaults(t *testing.T) {
	svc := NewKeyChainService(Params{}).(*keyChainService)

	if svc.params != DefaultParams() {
		t.Fatalf("params = %+v, want %+v", svc.params, DefaultParams())
	}
}

func TestDeriveDocumentKey_DeterministicAndDistinct(t *testing.T) {
	svc := NewKeyChainService(testParams)

	a1 := svc.DeriveDocumentKey("CONF_KEY:AAAA")
	a2 := svc.DeriveDocumentKey("CONF_KEY:AAAA")
	b := svc.DeriveDocumentKey("CONF_KEY:BBBB")

	if len(a1) != 32 {
		t.Fatalf("key length = %d, want 32", len(a1))
	}
	if !bytes.Equal(a1, a2) {
		t.Fatalf("expected the same secret to derive the same key")
	}
	if bytes.Equal(a1, b) {
		t.Fatalf("expected different secrets to derive different keys")
	}
}

func TestDeriveSubkey_PurposeSeparation(t *testing.T) {
	secret := []byte("master")

	if bytes.Equal(DeriveSubkey(secret, "mail"), DeriveSubkey(secret, "search")) {
		t.Fatalf("expected different purposes to derive different keys")
	}
}

func TestGenerateConfigKey_TaggedAndRandom(t *testing.T) {
	svc := NewKeyChainService(testParams)

	c1, err := svc.GenerateConfigKey()
	if err != nil {
		t.Fatalf("GenerateConfigKey error: %v", err)
	}
	c2, err := svc.GenerateConfigKey()
	if err != nil {
		t.Fatalf("GenerateConfigKey error: %v", err)
	}

	if !strings.HasPrefix(c1, ConfigKeyTag) {
		t.Fatalf("config key %q lacks tag %q", c1, ConfigKeyTag)
	}
	if len(c1) != len(ConfigKeyTag)+32 {
		t.Fatalf("config key length = %d, want %d", len(c1), len(ConfigKeyTag)+32)
	}
	if c1 == c2 {
		t.Fatalf("expected config keys to differ")
	}
}

func TestGenerateMasterKey_Random(t *testing.T) {
	svc := NewKeyChainService(testParams)

	m1, _ := svc.GenerateMasterKey()
	m2, _ := svc.GenerateMasterKey()

	if m1 == "" || m1 == m2 {
		t.Fatalf("expected two distinct non-empty master keys, got %q and %q", m1, m2)
	}
}

func TestNonceSource_Unique(t *testing.T) {
	src, err := NewNonceSource(time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("NewNonceSource error: %v", err)
	}

	seen := make(map[Nonce]bool)
	for i := 0; i < 1000; i++ {
		n, err := src.Next()
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		if seen[n] {
			t.Fatalf("nonce %v repeated", n)
		}
		seen[n] = true
		if n[2] != 1700000000 {
			t.Fatalf("time word = %d, want 1700000000", n[2])
		}
	}
}

func TestNonce_BytesLittleEndian(t *testing.T) {
	n := Nonce{1, 2, 3, 0x01020304}
	want := []byte{
		1, 0, 0, 0,
		2, 0, 0, 0,
		3, 0, 0, 0,
		4, 3, 2, 1,
	}

	if got := n.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = %v, want %v", got, want)
	}
}
