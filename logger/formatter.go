/*
MIT License

Copyright (c) 2019 Nicolas JUHEL

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Format selects the rendering of log lines.
type Format uint8

const (
	TextFormat Format = iota
	JSONFormat
)

func (f Format) String() string {
	if f == JSONFormat {
		return "Json"
	}
	return "Text"
}

func (f Format) Logrus() logrus.Formatter {
	if f == JSONFormat {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{
		DisableColors:    true,
		DisableSorting:   true,
		DisableTimestamp: false,
	}
}

func defaultFormatter() logrus.Formatter {
	return TextFormat.Logrus()
}

func sprintf(pattern string, args ...interface{}) string {
	if len(args) == 0 {
		return pattern
	}
	return fmt.Sprintf(pattern, args...)
}
