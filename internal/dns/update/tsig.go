package update

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/miekg/dns"
)

// TSIGKey is a shared secret for signing updates.
type TSIGKey struct {
	Name      string // fully-qualified, lowercase
	Algorithm string // e.g. dns.HmacSHA256
	Secret    string // base64
}

// bindAlgorithms maps BIND key algorithm numbers to TSIG algorithm names.
var bindAlgorithms = map[string]string{
	"157": dns.HmacMD5,
	"161": dns.HmacSHA1,
	"162": dns.HmacSHA224,
	"163": dns.HmacSHA256,
	"164": dns.HmacSHA384,
	"165": dns.HmacSHA512,
}

// ParseBINDKey reads a key pair in dnssec-keygen format. The name comes from
// the .key file ("pickaxe. IN KEY 512 3 157 <base64>"), the algorithm and
// secret from the .private file ("Algorithm: 157 (HMAC_MD5)", "Key: ...").
func ParseBINDKey(keyFile, privateFile string) (TSIGKey, error) {
	var key TSIGKey

	fields := strings.Fields(keyFile)
	if len(fields) == 0 {
		return key, fmt.Errorf("tsig: empty key file")
	}
	key.Name = strings.ToLower(dns.Fqdn(fields[0]))

	for _, line := range strings.Split(privateFile, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(name) {
		case "Algorithm":
			num, _, _ := strings.Cut(value, " ")
			alg, known := bindAlgorithms[num]
			if !known {
				return key, fmt.Errorf("tsig: unsupported algorithm %q", value)
			}
			key.Algorithm = alg
		case "Key":
			key.Secret = value
		}
	}

	if key.Algorithm == "" || key.Secret == "" {
		return key, fmt.Errorf("tsig: private key file is missing Algorithm or Key")
	}
	if _, err := base64.StdEncoding.DecodeString(key.Secret); err != nil {
		return key, fmt.Errorf("tsig: key is not base64: %w", err)
	}
	return key, nil
}

// hmacProvider implements dns.TsigProvider for a single key, including
// hmac-md5, which the library no longer signs with itself.
type hmacProvider struct {
	key TSIGKey
}

func (p hmacProvider) Generate(msg []byte, t *dns.TSIG) ([]byte, error) {
	if !strings.EqualFold(t.Hdr.Name, p.key.Name) {
		return nil, dns.ErrSecret
	}
	secret, err := base64.StdEncoding.DecodeString(p.key.Secret)
	if err != nil {
		return nil, err
	}

	var h func() hash.Hash
	switch dns.CanonicalName(t.Algorithm) {
	case dns.HmacMD5:
		h = md5.New
	case dns.HmacSHA1:
		h = sha1.New
	case dns.HmacSHA224:
		h = sha256.New224
	case dns.HmacSHA256:
		h = sha256.New
	case dns.HmacSHA384:
		h = sha512.New384
	case dns.HmacSHA512:
		h = sha512.New
	default:
		return nil, dns.ErrKeyAlg
	}

	mac := hmac.New(h, secret)
	mac.Write(msg)
	return mac.Sum(nil), nil
}

func (p hmacProvider) Verify(msg []byte, t *dns.TSIG) error {
	b, err := p.Generate(msg, t)
	if err != nil {
		return err
	}
	mac, err := hex.DecodeString(t.MAC)
	if err != nil {
		return err
	}
	if !hmac.Equal(b, mac) {
		return dns.ErrSig
	}
	return nil
}
