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

// Package hooksyslog provides a logrus hook that writes log entries to a
// local or remote syslog daemon.
package hooksyslog

import (
	"log/syslog"
	"strings"

	logcfg "github.com/sabouaram/modforge/logger/config"
	loghkw "github.com/sabouaram/modforge/logger/hookwriter"
	loglvl "github.com/sabouaram/modforge/logger/level"
	logtps "github.com/sabouaram/modforge/logger/types"
	"github.com/sirupsen/logrus"
)

// HookSyslog is a logrus hook that writes log entries to syslog.
type HookSyslog interface {
	logtps.Hook
}

func facility(name string) syslog.Priority {
	switch strings.ToUpper(name) {
	case "KERN":
		return syslog.LOG_KERN
	case "USER":
		return syslog.LOG_USER
	case "MAIL":
		return syslog.LOG_MAIL
	case "DAEMON":
		return syslog.LOG_DAEMON
	case "AUTH":
		return syslog.LOG_AUTH
	case "SYSLOG":
		return syslog.LOG_SYSLOG
	case "LPR":
		return syslog.LOG_LPR
	case "NEWS":
		return syslog.LOG_NEWS
	case "UUCP":
		return syslog.LOG_UUCP
	case "CRON":
		return syslog.LOG_CRON
	case "AUTHPRIV":
		return syslog.LOG_AUTHPRIV
	case "FTP":
		return syslog.LOG_FTP
	case "LOCAL0":
		return syslog.LOG_LOCAL0
	case "LOCAL1":
		return syslog.LOG_LOCAL1
	case "LOCAL2":
		return syslog.LOG_LOCAL2
	case "LOCAL3":
		return syslog.LOG_LOCAL3
	case "LOCAL4":
		return syslog.LOG_LOCAL4
	case "LOCAL5":
		return syslog.LOG_LOCAL5
	case "LOCAL6":
		return syslog.LOG_LOCAL6
	case "LOCAL7":
		return syslog.LOG_LOCAL7
	default:
		return syslog.LOG_LOCAL0
	}
}

// New dials (or opens the local) syslog daemon described by opt and returns
// a HookSyslog that writes formatted entries to it.
func New(opt logcfg.OptionsSyslog, f logrus.Formatter) (HookSyslog, error) {
	w, err := syslog.Dial(opt.Network, opt.Host, facility(opt.Facility)|syslog.LOG_INFO, opt.Tag)
	if err != nil {
		return nil, err
	}

	lvls := make([]logrus.Level, 0, len(opt.LogLevel))
	for _, l := range opt.LogLevel {
		lvls = append(lvls, loglvl.Parse(l).Logrus())
	}
	if len(lvls) == 0 {
		lvls = logrus.AllLevels
	}

	std := &logcfg.OptionsStd{
		DisableStack:     opt.DisableStack,
		DisableTimestamp: opt.DisableTimestamp,
		EnableTrace:      opt.EnableTrace,
		DisableColor:     true,
		EnableAccessLog:  opt.EnableAccessLog,
	}

	h, err := loghkw.New(w, std, lvls, f)
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	return h, nil
}
