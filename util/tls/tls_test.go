package tls

import (
	"crypto/tls"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		wantInsecure bool
	}{
		{
			name:         "secure_by_default",
			envValue:     "",
			wantInsecure: false,
		},
		{
			name:         "insecure_mode_enabled",
			envValue:     "true",
			wantInsecure: true,
		},
		{
			name:         "insecure_mode_disabled",
			envValue:     "false",
			wantInsecure: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv("MICRO_TLS_INSECURE")
			if tt.envValue != "" {
				t.Setenv("MICRO_TLS_INSECURE", tt.envValue)
			}

			config := Config()
			require.NotNil(t, config)
			assert.Equal(t, tt.wantInsecure, config.InsecureSkipVerify)
			assert.Equal(t, uint16(tls.VersionTLS12), config.MinVersion)
			assert.Equal(t, []string{"h2", "http/1.1"}, config.NextProtos)
		})
	}
}

func TestInsecureConfig(t *testing.T) {
	config := InsecureConfig()
	assert.True(t, config.InsecureSkipVerify)
	assert.NotZero(t, config.MinVersion)
	assert.False(t, SecureConfig().InsecureSkipVerify)
}

func TestCertificate(t *testing.T) {
	cert, err := Certificate("localhost", "127.0.0.1")
	require.NoError(t, err)

	pool, err := CertPool(cert)
	require.NoError(t, err)
	assert.NotNil(t, pool)

	server := ServerConfig(cert, "h2")
	assert.Len(t, server.Certificates, 1)
	assert.Equal(t, []string{"h2"}, server.NextProtos)

	_, err = CertPool(tls.Certificate{})
	assert.Error(t, err)
}
