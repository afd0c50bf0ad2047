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

// Package config describes the driver's Config surface: scheme, transport,
// trust, pooling limits and the other knobs §6.2/§6.3 assign to it. No
// state is persisted to disk; everything flows through this struct.
package config

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/logger"
	"github.com/nabbar/bolt/transport"
	"github.com/nabbar/bolt/transport/tlsconfig"
	"github.com/nabbar/bolt/value"
)

// Scheme selects whether the connector drives a single endpoint or a
// cluster discovered through a routing table.
type Scheme uint8

const (
	SchemeDirect Scheme = iota
	SchemeRouting
)

// TransportMode selects whether the socket is wrapped in TLS.
type TransportMode uint8

const (
	TransportPlaintext TransportMode = iota
	TransportEncrypted
)

// AddressResolverFunc is the shape of a caller hook that expands a single
// seed address into a list of candidates (e.g. DNS round-robin across
// router VIPs). Config carries it, but neither the Connector nor the pools
// call it: the routing pool is seeded with the configured host:port only.
type AddressResolverFunc func(ctx context.Context, host, port string) ([]string, error)

// Config is the complete configuration surface for a Connector.
type Config struct {
	Scheme        Scheme
	Transport     TransportMode        `validate:"-"`
	Trust         tlsconfig.Trust      `validate:"-"`
	UserAgent     string               `validate:"required"`
	RoutingContext []value.Pair        `validate:"-"`
	AddressResolver AddressResolverFunc `validate:"-"`
	Log           logger.Logger        `validate:"-"`

	MaxPoolSize                int           `validate:"gt=0"`
	MaxConnectionLifeTime      time.Duration `validate:"gte=0"`
	MaxConnectionAcquireTime   time.Duration `validate:"gte=0"`

	ConnectTimeout time.Duration `validate:"gte=0"`
	ReceiveTimeout time.Duration `validate:"gte=0"`
	KeepAlive      time.Duration `validate:"gte=0"`
}

// Default returns a Config with the driver's baseline pooling/timeout
// policy: direct scheme, plaintext transport, up to 100 pooled connections,
// a one-hour connection lifetime cap, a 60s acquisition bound, a 5s connect
// timeout and 30s receive timeout and keep-alive.
func Default() Config {
	return Config{
		Scheme:                   SchemeDirect,
		Transport:                TransportPlaintext,
		Trust:                    tlsconfig.DefaultTrust(),
		UserAgent:                "bolt-go-driver/1.0",
		MaxPoolSize:              100,
		MaxConnectionLifeTime:    time.Hour,
		MaxConnectionAcquireTime: 60 * time.Second,
		ConnectTimeout:           5 * time.Second,
		ReceiveTimeout:           30 * time.Second,
		KeepAlive:                30 * time.Second,
	}
}

// Validate checks struct-tag constraints via go-playground/validator,
// mirroring the teacher's own Config.Validate idiom.
func (c Config) Validate() liberr.Error {
	if err := validator.New().Struct(c); err != nil {
		return liberr.Wrap(liberr.CodeConfigInvalid, "invalid configuration", err)
	}
	return nil
}

// TransportOptions derives the transport.Options this Config implies,
// wiring TLS only when the transport mode is TransportEncrypted.
func (c Config) TransportOptions() (transport.Options, liberr.Error) {
	opt := transport.Options{
		ConnectTimeout: c.ConnectTimeout,
		ReceiveTimeout: c.ReceiveTimeout,
		KeepAlive:      c.KeepAlive,
	}

	if c.Transport != TransportEncrypted {
		return opt, nil
	}

	opt.TLS = &c.Trust
	return opt, nil
}

// Decode populates a Config from a loosely-typed map (e.g. parsed from
// YAML/JSON/env), using mapstructure the way the teacher's own config
// loaders decode dynamic sources into typed structs.
func Decode(raw map[string]any) (Config, liberr.Error) {
	cfg := Default()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return cfg, liberr.Wrap(liberr.CodeConfigInvalid, "unable to build config decoder", err)
	}
	if err = dec.Decode(raw); err != nil {
		return cfg, liberr.Wrap(liberr.CodeConfigInvalid, "unable to decode configuration", err)
	}
	return cfg, nil
}
