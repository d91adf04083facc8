package update

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miekg/dns"
)

const (
	testSecret     = "c2VjcmV0LXNlY3JldC0xMg=="
	testKeyFile    = "pickaxe. IN KEY 512 3 157 " + testSecret + "\n"
	testPrivateMD5 = "Private-key-format: v1.3\nAlgorithm: 157 (HMAC_MD5)\nKey: " + testSecret + "\nBits: AAA=\n"
)

func TestParseBINDKey(t *testing.T) {
	got, err := ParseBINDKey(testKeyFile, testPrivateMD5)
	if err != nil {
		t.Fatalf("ParseBINDKey() error = %v", err)
	}
	want := TSIGKey{Name: "pickaxe.", Algorithm: dns.HmacMD5, Secret: testSecret}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseBINDKey() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBINDKey_Errors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		private string
	}{
		{"empty key file", "", testPrivateMD5},
		{"missing secret", testKeyFile, "Algorithm: 157 (HMAC_MD5)\n"},
		{"unknown algorithm", testKeyFile, "Algorithm: 8 (RSASHA256)\nKey: " + testSecret + "\n"},
		{"bad base64", testKeyFile, "Algorithm: 157 (HMAC_MD5)\nKey: !!!\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBINDKey(tt.key, tt.private); err == nil {
				t.Error("ParseBINDKey() expected error")
			}
		})
	}
}

func TestHMACProvider_RoundTrip(t *testing.T) {
	for _, alg := range []string{dns.HmacMD5, dns.HmacSHA1, dns.HmacSHA256, dns.HmacSHA512} {
		t.Run(alg, func(t *testing.T) {
			p := hmacProvider{key: TSIGKey{Name: "pickaxe.", Algorithm: alg, Secret: testSecret}}
			tsig := &dns.TSIG{Hdr: dns.RR_Header{Name: "pickaxe."}, Algorithm: alg}

			mac, err := p.Generate([]byte("message"), tsig)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			tsig.MAC = encodeHex(mac)
			if err := p.Verify([]byte("message"), tsig); err != nil {
				t.Errorf("Verify() error = %v", err)
			}
			if err := p.Verify([]byte("tampered"), tsig); err != dns.ErrSig {
				t.Errorf("Verify(tampered) error = %v, want ErrSig", err)
			}
		})
	}
}

func TestHMACProvider_WrongKeyName(t *testing.T) {
	p := hmacProvider{key: TSIGKey{Name: "pickaxe.", Algorithm: dns.HmacMD5, Secret: testSecret}}
	_, err := p.Generate([]byte("m"), &dns.TSIG{Hdr: dns.RR_Header{Name: "other."}, Algorithm: dns.HmacMD5})
	if err != dns.ErrSecret {
		t.Errorf("Generate() error = %v, want ErrSecret", err)
	}
}

func TestKeyFiles(t *testing.T) {
	private, key := KeyFiles("/keys", "pickaxe.club")
	if private != "/keys/Kpickaxe.+157+50170.private" {
		t.Errorf("private = %q", private)
	}
	if key != "/keys/Kpickaxe.+157+50170.key" {
		t.Errorf("key = %q", key)
	}
}
