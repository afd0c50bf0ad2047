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

package logger

import (
	"strings"
	"time"

	liberr "github.com/nabbar/bolt/errors"
	"github.com/sirupsen/logrus"
)

const (
	FieldTime    = "time"
	FieldLevel   = "level"
	FieldCaller  = "caller"
	FieldMessage = "message"
	FieldError   = "error"
	FieldData    = "data"
)

// Entry is a single structured log line under construction. FieldAdd and
// FieldMerge replace Fields with the new map Fields.Add / Fields.Merge
// return, so two Entry values derived from the same source fields never
// share backing storage; FieldSet stores the given map as is.
type Entry struct {
	log func() *logrus.Logger

	Time    time.Time `json:"time"`
	Level   Level     `json:"level"`
	Caller  string    `json:"caller"`
	Message string    `json:"message"`
	Error   []error   `json:"error"`
	Data    interface{} `json:"data"`
	Fields  Fields    `json:"fields"`
}

func (e *Entry) FieldAdd(key string, val interface{}) *Entry {
	e.Fields = e.Fields.Add(key, val)
	return e
}

func (e *Entry) FieldMerge(fields Fields) *Entry {
	e.Fields = e.Fields.Merge(fields)
	return e
}

func (e *Entry) FieldSet(fields Fields) *Entry {
	e.Fields = fields
	return e
}

func (e *Entry) DataSet(data interface{}) *Entry {
	e.Data = data
	return e
}

func (e *Entry) ErrorAdd(cleanNil bool, err ...error) *Entry {
	for _, er := range err {
		if cleanNil && er == nil {
			continue
		}
		e.Error = append(e.Error, er)
	}
	return e
}

func (e *Entry) ErrorAddLib(cleanNil bool, err ...liberr.Error) *Entry {
	for _, er := range err {
		if er == nil {
			continue
		}
		e.ErrorAdd(cleanNil, er.GetErrorSlice()...)
	}
	return e
}

// Log emits the entry through the bound logrus.Logger. A NilLevel entry is
// dropped silently.
func (e *Entry) Log() {
	if e.Level == NilLevel || e.log == nil {
		return
	}

	log := e.log()
	if log == nil {
		return
	}

	tag := NewFields().Add(FieldLevel, e.Level.String())

	if !e.Time.IsZero() {
		tag = tag.Add(FieldTime, e.Time.Format(time.RFC3339Nano))
	}
	if e.Caller != "" {
		tag = tag.Add(FieldCaller, e.Caller)
	}
	if e.Message != "" {
		tag = tag.Add(FieldMessage, e.Message)
	}

	if len(e.Error) > 0 {
		msg := make([]string, 0, len(e.Error))
		for _, er := range e.Error {
			if er == nil {
				continue
			}
			msg = append(msg, er.Error())
		}
		if len(msg) > 0 {
			tag = tag.Add(FieldError, strings.Join(msg, ", "))
		}
	}

	if e.Data != nil {
		tag = tag.Add(FieldData, e.Data)
	}

	if len(e.Fields) > 0 {
		tag = tag.Merge(e.Fields)
	}

	log.WithFields(tag.Logrus()).Log(e.Level.Logrus())
}
