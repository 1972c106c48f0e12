// Package sslcert wraps openssl for certificate inspection, expiry
// checks, fingerprints, and self-signed certificate generation.
package sslcert

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/funnyzak/dk/internal/execx"
)

// ErrOpenSSLNotFound indicates openssl is not installed or not in PATH.
var ErrOpenSSLNotFound = fmt.Errorf("openssl not found: please install openssl")

// Check verifies that openssl is available in PATH.
func Check() error {
	if _, err := exec.LookPath("openssl"); err != nil {
		return ErrOpenSSLNotFound
	}
	return nil
}

// Target is a certificate source: a PEM file on disk or a remote
// host:port to probe with s_client.
type Target struct {
	Path string // set for local files
	Host string // set for remote targets, always host:port
}

// ResolveTarget decides whether arg names a local file or a remote host.
// Remote hosts without a port get :443.
func ResolveTarget(arg string) Target {
	if _, err := os.Stat(arg); err == nil {
		return Target{Path: arg}
	}
	return Target{Host: NormalizeHost(arg)}
}

// NormalizeHost appends the default TLS port when missing. Bare IPv6
// literals are bracketed so s_client gets a valid -connect value.
func NormalizeHost(host string) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		return host + ":443"
	}
	if strings.Contains(host, ":") {
		return "[" + host + "]:443"
	}
	return host + ":443"
}

// pem returns the PEM certificate bytes for the target.
func (t Target) pem(ctx context.Context) ([]byte, error) {
	if t.Path != "" {
		return os.ReadFile(t.Path)
	}
	server, _, err := net.SplitHostPort(t.Host)
	if err != nil {
		server = t.Host
	}
	// s_client wants stdin closed or it waits for input.
	return execx.OutputInputContext(ctx, nil, "openssl",
		"s_client", "-connect", t.Host, "-servername", server, "-showcerts")
}

func (t Target) x509(ctx context.Context, args ...string) (string, error) {
	pem, err := t.pem(ctx)
	if err != nil {
		return "", fmt.Errorf("read certificate from %s: %w", t.describe(), err)
	}
	out, err := execx.OutputInputContext(ctx, pem, "openssl", append([]string{"x509", "-noout"}, args...)...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (t Target) describe() string {
	if t.Path != "" {
		return t.Path
	}
	return t.Host
}

// Inspect returns the full text dump of the certificate.
func (t Target) Inspect(ctx context.Context) (string, error) {
	return t.x509(ctx, "-text")
}

// Subject returns the certificate subject line.
func (t Target) Subject(ctx context.Context) (string, error) {
	out, err := t.x509(ctx, "-subject")
	return strings.TrimSpace(out), err
}

// NotAfter returns the certificate expiry time.
func (t Target) NotAfter(ctx context.Context) (time.Time, error) {
	out, err := t.x509(ctx, "-enddate")
	if err != nil {
		return time.Time{}, err
	}
	return ParseNotAfter(out)
}

// Fingerprint returns the certificate fingerprint for the given digest
// (sha256, sha1, md5).
func (t Target) Fingerprint(ctx context.Context, digest string) (string, error) {
	switch digest {
	case "sha256", "sha1", "md5":
	default:
		return "", fmt.Errorf("unsupported digest %q: use sha256, sha1, or md5", digest)
	}
	out, err := t.x509(ctx, "-fingerprint", "-"+digest)
	if err != nil {
		return "", err
	}
	return ParseFingerprint(out)
}

// notAfterLayout matches openssl's enddate output, e.g.
// "notAfter=Jun  1 12:00:00 2027 GMT".
const notAfterLayout = "Jan 2 15:04:05 2006 MST"

// ParseNotAfter extracts the expiry time from `x509 -enddate` output.
func ParseNotAfter(out string) (time.Time, error) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "notAfter=") {
			continue
		}
		value := strings.TrimPrefix(line, "notAfter=")
		// openssl pads single-digit days with a double space.
		value = strings.Join(strings.Fields(value), " ")
		t, err := time.Parse(notAfterLayout, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse expiry %q: %w", value, err)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("no notAfter line in openssl output")
}

// ParseFingerprint extracts the hex digest from `x509 -fingerprint` output,
// e.g. "sha256 Fingerprint=AB:CD:...".
func ParseFingerprint(out string) (string, error) {
	for _, line := range strings.Split(out, "\n") {
		if idx := strings.Index(line, "Fingerprint="); idx >= 0 {
			return strings.TrimSpace(line[idx+len("Fingerprint="):]), nil
		}
	}
	return "", fmt.Errorf("no fingerprint line in openssl output")
}

// SelfSignedParams describes a certificate to generate.
type SelfSignedParams struct {
	CommonName string
	Days       int
	KeyBits    int
	KeyOut     string
	CertOut    string
	Force      bool
}

// OutputNames returns the effective key and certificate paths,
// deriving <common-name>.key / <common-name>.crt when unset.
func (p SelfSignedParams) OutputNames() (keyOut, certOut string) {
	keyOut, certOut = p.KeyOut, p.CertOut
	if keyOut == "" {
		keyOut = p.CommonName + ".key"
	}
	if certOut == "" {
		certOut = p.CommonName + ".crt"
	}
	return keyOut, certOut
}

// SelfSigned generates a key pair and self-signed certificate.
func SelfSigned(ctx context.Context, p SelfSignedParams) error {
	if p.CommonName == "" {
		return fmt.Errorf("common name required")
	}
	if p.Days <= 0 {
		p.Days = 365
	}
	if p.KeyBits == 0 {
		p.KeyBits = 2048
	}
	p.KeyOut, p.CertOut = p.OutputNames()
	if !p.Force {
		for _, path := range []string{p.KeyOut, p.CertOut} {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("output already exists: %s (use --force)", path)
			}
		}
	}

	return execx.RunContext(ctx, "", "openssl",
		"req", "-x509", "-nodes",
		"-newkey", fmt.Sprintf("rsa:%d", p.KeyBits),
		"-keyout", p.KeyOut,
		"-out", p.CertOut,
		"-days", fmt.Sprintf("%d", p.Days),
		"-subj", "/CN="+p.CommonName,
	)
}
