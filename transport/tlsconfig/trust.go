/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

// Package tlsconfig builds a *tls.Config from the driver's trust material:
// a PEM root-CA bundle (or the platform default trust store when empty),
// a min/max protocol version, a cipher suite allow-list and an elliptic
// curve preference list. The version/cipher/curve vocabularies are the
// parsing wrappers also used elsewhere in the pack for the same purpose.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"

	"github.com/nabbar/bolt/transport/tlsconfig/auth"
	"github.com/nabbar/bolt/transport/tlsconfig/cipher"
	"github.com/nabbar/bolt/transport/tlsconfig/curves"
	"github.com/nabbar/bolt/transport/tlsconfig/tlsversion"

	liberr "github.com/nabbar/bolt/errors"
)

// Trust is the PEM byte buffer + TLS policy the spec's configuration
// surface (§6.3) describes: "Trust material is provided as a PEM byte
// buffer; when empty, the platform's default trust store is used."
type Trust struct {
	ServerName         string
	RootCAPEM          []byte
	VersionMin         tlsversion.Version
	VersionMax         tlsversion.Version
	CipherSuites       []cipher.Cipher
	CurvePreferences   []curves.Curves
	ClientAuth         auth.ClientAuth
	InsecureSkipVerify bool
}

// DefaultTrust mirrors the teacher's conservative default: TLS 1.2 minimum,
// TLS 1.3 maximum, no client auth.
func DefaultTrust() Trust {
	return Trust{
		VersionMin: tlsversion.VersionTLS12,
		VersionMax: tlsversion.VersionTLS13,
		ClientAuth: auth.NoClientCert,
	}
}

// ClientConfig builds the *tls.Config this Trust describes.
func (t Trust) ClientConfig() (*tls.Config, liberr.Error) {
	cfg := &tls.Config{
		ServerName:         t.ServerName,
		InsecureSkipVerify: t.InsecureSkipVerify,
		MinVersion:         uint16(t.VersionMin),
		MaxVersion:         uint16(t.VersionMax),
	}

	if len(t.RootCAPEM) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(t.RootCAPEM) {
			return nil, liberr.New(liberr.CodeTransportTLSError, "no certificate could be parsed from the trust bundle")
		}
		cfg.RootCAs = pool
	}

	if len(t.CipherSuites) > 0 {
		suites := make([]uint16, len(t.CipherSuites))
		for i, c := range t.CipherSuites {
			suites[i] = uint16(c)
		}
		cfg.CipherSuites = suites
	}

	if len(t.CurvePreferences) > 0 {
		curvesIDs := make([]tls.CurveID, len(t.CurvePreferences))
		for i, c := range t.CurvePreferences {
			curvesIDs[i] = tls.CurveID(c)
		}
		cfg.CurvePreferences = curvesIDs
	}

	cfg.ClientAuth = t.ClientAuth.TLS()

	return cfg, nil
}
