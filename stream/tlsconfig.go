/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package stream

import (
	"crypto/tls"
)

// TLSConfig is the minimal certificate-loading surface a listening
// endpoint needs to become TLS-capable (spec.md §6.4's acceptor_config
// SSL flag). It carries mapstructure/json/yaml/toml/validate tags like
// every other configuration struct in this module (SPEC_FULL §3).
type TLSConfig struct {
	CertFile   string `mapstructure:"cert_file" json:"cert_file" yaml:"cert_file" toml:"cert_file" validate:"required,file"`
	KeyFile    string `mapstructure:"key_file" json:"key_file" yaml:"key_file" toml:"key_file" validate:"required,file"`
	ClientCAs  string `mapstructure:"client_cas" json:"client_cas" yaml:"client_cas" toml:"client_cas" validate:"omitempty,file"`
	MinVersion string `mapstructure:"min_version" json:"min_version" yaml:"min_version" toml:"min_version" validate:"omitempty,oneof=1.0 1.1 1.2 1.3"`
}

// Load builds a *tls.Config from c, loading the certificate/key pair and,
// if ClientCAs is set, requiring and verifying client certificates.
func (c TLSConfig) Load() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, ErrorCertificateLoad.Error(err)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   c.minVersion(),
	}

	if c.ClientCAs != "" {
		pool, err := loadCAPool(c.ClientCAs)
		if err != nil {
			return nil, ErrorCAPoolLoad.Error(err)
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}

	return cfg, nil
}

func (c TLSConfig) minVersion() uint16 {
	switch c.MinVersion {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
