package update

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/miekg/dns"
	"github.com/rs/zerolog"
)

const (
	defaultRecordTTL = 300
	tsigFudge        = 300
)

// NSUpdater sends an RFC 2136 dynamic update, signed with the zone's TSIG
// key, straight to the authoritative server. It replaces every A record of
// the name with the new address.
type NSUpdater struct {
	server  string
	zone    string
	keyDir  string
	ttl     uint32
	timeout time.Duration
	logger  zerolog.Logger
}

// NewNSUpdater returns an updater for zone on server (host or host:port).
// The TSIG key is read from the key files in keyDir on every update.
func NewNSUpdater(server, zone, keyDir string, logger zerolog.Logger) *NSUpdater {
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}
	return &NSUpdater{
		server:  server,
		zone:    dns.Fqdn(zone),
		keyDir:  keyDir,
		ttl:     defaultRecordTTL,
		timeout: 10 * time.Second,
		logger:  logger,
	}
}

func (u *NSUpdater) Update(ctx context.Context, fqdn, address string) error {
	key, err := u.loadKey()
	if err != nil {
		return err
	}

	ip := net.ParseIP(address).To4()
	if ip == nil {
		return fmt.Errorf("nsupdate: %q is not an IPv4 address", address)
	}
	name := dns.Fqdn(fqdn)

	m := new(dns.Msg)
	m.SetUpdate(u.zone)
	m.RemoveRRset([]dns.RR{&dns.A{Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeA}}})
	m.Insert([]dns.RR{&dns.A{
		Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: u.ttl},
		A:   ip,
	}})
	m.SetTsig(key.Name, key.Algorithm, tsigFudge, time.Now().Unix())

	client := &dns.Client{
		Net:          "tcp",
		Timeout:      u.timeout,
		TsigProvider: hmacProvider{key: key},
	}
	resp, rtt, err := client.ExchangeContext(ctx, m, u.server)
	if err != nil {
		return fmt.Errorf("nsupdate: exchange with %s: %w", u.server, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("nsupdate: server answered %s", dns.RcodeToString[resp.Rcode])
	}

	u.logger.Info().Str("name", name).Str("address", address).Dur("rtt", rtt).Msg("dns update applied")
	return nil
}

func (u *NSUpdater) loadKey() (TSIGKey, error) {
	privatePath, keyPath := KeyFiles(u.keyDir, u.zone)
	private, err := os.ReadFile(privatePath)
	if err != nil {
		return TSIGKey{}, fmt.Errorf("nsupdate: %w", err)
	}
	public, err := os.ReadFile(keyPath)
	if err != nil {
		return TSIGKey{}, fmt.Errorf("nsupdate: %w", err)
	}
	return ParseBINDKey(string(public), string(private))
}
