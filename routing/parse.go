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

package routing

import (
	"strings"
	"time"

	"github.com/nabbar/bolt/address"
	liberr "github.com/nabbar/bolt/errors"
	"github.com/nabbar/bolt/value"
)

// parseRoutingRecord zips a RECORD's fields against the RUN summary's field
// names, expecting a ttl integer and a servers list of {role, addresses}
// dictionaries, per the discovery procedure's documented response shape.
func parseRoutingRecord(fieldNames []string, fields []*value.Value) (readers, writers, routers *address.Set, ttl time.Duration, err liberr.Error) {
	row := value.New().SetDictionary(nil)
	for i, name := range fieldNames {
		if i >= len(fields) {
			break
		}
		row.SetDictionary(append(row.Dictionary(), value.Pair{Key: name, Val: fields[i]}))
	}

	ttlVal := row.ByKey("ttl")
	if ttlVal == nil || ttlVal.Kind() != value.KindInteger {
		return nil, nil, nil, 0, liberr.New(liberr.CodeRoutingUnexpectedResponse, "routing record missing integer ttl")
	}
	ttl = time.Duration(ttlVal.Integer()) * time.Second

	serversVal := row.ByKey("servers")
	if serversVal == nil || serversVal.Kind() != value.KindList {
		return nil, nil, nil, 0, liberr.New(liberr.CodeRoutingUnexpectedResponse, "routing record missing servers list")
	}

	readers = address.NewSet()
	writers = address.NewSet()
	routers = address.NewSet()

	for _, entry := range serversVal.List() {
		if entry.Kind() != value.KindDictionary {
			return nil, nil, nil, 0, liberr.New(liberr.CodeRoutingUnexpectedResponse, "server entry is not a dictionary")
		}
		roleVal := entry.ByKey("role")
		addrsVal := entry.ByKey("addresses")
		if roleVal == nil || addrsVal == nil || addrsVal.Kind() != value.KindList {
			return nil, nil, nil, 0, liberr.New(liberr.CodeRoutingUnexpectedResponse, "server entry missing role or addresses")
		}

		var target *address.Set
		switch roleVal.RawString() {
		case "READ":
			target = readers
		case "WRITE":
			target = writers
		case "ROUTE":
			target = routers
		default:
			return nil, nil, nil, 0, liberr.New(liberr.CodeRoutingUnexpectedResponse, "server entry has unknown role")
		}

		for _, a := range addrsVal.List() {
			host, port, splitErr := splitHostPort(a.RawString())
			if splitErr != nil {
				return nil, nil, nil, 0, splitErr
			}
			target.Add(address.New(host, port))
		}
	}

	return readers, writers, routers, ttl, nil
}

func splitHostPort(hostport string) (string, string, liberr.Error) {
	idx := strings.LastIndex(hostport, ":")
	if idx < 0 {
		return "", "", liberr.New(liberr.CodeRoutingUnexpectedResponse, "address is not in host:port form")
	}
	return hostport[:idx], hostport[idx+1:], nil
}
