// Package tls provides the TLS configs and test certificates of the connector.
package tls

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/http2"
)

// Config returns the default client TLS config: system roots, TLS 1.2 or
// later, and ALPN offering h2 ahead of http/1.1.
//
// Certificate verification can be disabled for development by setting
// MICRO_TLS_INSECURE=true. Never do this in production.
func Config() *tls.Config {
	config := SecureConfig()
	if os.Getenv("MICRO_TLS_INSECURE") == "true" {
		config.InsecureSkipVerify = true
	}
	return config
}

// SecureConfig returns a client TLS config with certificate verification
// enabled regardless of the environment.
func SecureConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: false,
		MinVersion:         tls.VersionTLS12,
		NextProtos:         NextProtos(),
	}
}

// InsecureConfig returns a client TLS config with certificate verification disabled.
// WARNING: Only use for development/testing.
func InsecureConfig() *tls.Config {
	config := SecureConfig()
	config.InsecureSkipVerify = true
	return config
}

// NextProtos is the ALPN offer of the client configs.
func NextProtos() []string {
	return []string{http2.NextProtoTLS, "http/1.1"}
}

// ServerConfig returns a server config presenting cert and negotiating protos.
func ServerConfig(cert tls.Certificate, protos ...string) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   protos,
	}
}

// CertPool returns a pool trusting the leaf of cert, for clients talking to
// a server using a certificate from Certificate.
func CertPool(cert tls.Certificate) (*x509.CertPool, error) {
	if len(cert.Certificate) == 0 {
		return nil, errors.New("tls: certificate is empty")
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, errors.Wrap(err, "tls: parse certificate")
	}

	pool := x509.NewCertPool()
	pool.AddCert(leaf)

	return pool, nil
}

// Certificate generates a self-signed certificate for the given hosts.
// Note: These certs are for development only. For production, use proper
// CA-signed certificates or a service mesh.
func Certificate(host ...string) (tls.Certificate, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}

	notBefore := time.Now()
	notAfter := notBefore.Add(time.Hour * 24 * 365)

	serialNumberLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{"Micro Connect"},
		},
		NotBefore: notBefore,
		NotAfter:  notAfter,

		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}

	for _, h := range host {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	template.IsCA = true
	template.KeyUsage |= x509.KeyUsageCertSign

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	// create public key
	certOut := bytes.NewBuffer(nil)
	pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: derBytes})

	// create private key
	keyOut := bytes.NewBuffer(nil)
	b, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return tls.Certificate{}, err
	}
	pem.Encode(keyOut, &pem.Block{Type: "EC PRIVATE KEY", Bytes: b})

	return tls.X509KeyPair(certOut.Bytes(), keyOut.Bytes())
}
