package api

import (
	"crypto/tls"
	"fmt"
	"sync"
)

// CertificateStore holds the serving certificate and swaps it on Reload.
// Connections already established keep the certificate they negotiated.
type CertificateStore struct {
	certPath string
	keyPath  string

	mu   sync.RWMutex
	cert *tls.Certificate
}

// LoadCertificates reads a PEM certificate/key pair
func LoadCertificates(certPath, keyPath string) (*CertificateStore, error) {
	s := &CertificateStore{certPath: certPath, keyPath: keyPath}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the pair from disk. On failure the current certificate stays.
func (s *CertificateStore) Reload() error {
	cert, err := tls.LoadX509KeyPair(s.certPath, s.keyPath)
	if err != nil {
		return fmt.Errorf("failed to load certificate %s: %w", s.certPath, err)
	}

	s.mu.Lock()
	s.cert = &cert
	s.mu.Unlock()
	return nil
}

// GetCertificate is a tls.Config.GetCertificate callback
func (s *CertificateStore) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cert, nil
}

// TLSConfig returns a server configuration backed by the store
func (s *CertificateStore) TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: s.GetCertificate,
	}
}
