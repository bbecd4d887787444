// Package certs loads server certificates from an ACME store as written
// by traefik (acme.json).
package certs

import (
	"crypto/tls"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

var ErrDomainNotFound = errors.New("domain not found in acme store")

// FromACMEStore reads the acme store file and returns the key pair of domain
func FromACMEStore(file, domain string) (tls.Certificate, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return tls.Certificate{}, err
	}
	return ParseACMEStore(data, domain)
}

// ParseACMEStore returns the key pair of domain. The store contains base64
// encoded PEM data per resolver and domain.
func ParseACMEStore(data []byte, domain string) (tls.Certificate, error) {
	certData, keyData, err := lookup(data, domain)
	if err != nil {
		return tls.Certificate{}, err
	}
	certPEM, err := base64.StdEncoding.DecodeString(certData)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("certificate: %w", err)
	}
	keyPEM, err := base64.StdEncoding.DecodeString(keyData)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("key: %w", err)
	}
	return tls.X509KeyPair(certPEM, keyPEM)
}

// lookup searches all resolvers, the first match wins
func lookup(data []byte, domain string) (cert, key string, err error) {
	obj, err := oj.Parse(data)
	if err != nil {
		return "", "", err
	}
	path, err := jp.ParseString(
		fmt.Sprintf(`$..Certificates[?(@.domain.main == %q)]`, domain))
	if err != nil {
		return "", "", err
	}
	for _, entry := range path.Get(obj) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		cert, _ = m["certificate"].(string)
		key, _ = m["key"].(string)
		return cert, key, nil
	}
	return "", "", fmt.Errorf("%w: %s", ErrDomainNotFound, domain)
}
