/*
 *    Copyright 2025 Jeff Galyan
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Command syllabus calls the curriculum and progress service from a terminal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrgalyan/syllabus"
	"github.com/jrgalyan/syllabus/config"
	"github.com/jrgalyan/syllabus/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load(config.Options{})
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "syllabus-cli",
		ServiceVersion: version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.Warn("telemetry disabled", slog.String("error", err.Error()))
		shutdown = func(context.Context) error { return nil }
	}

	code := run(ctx, os.Args[1:], newClient(cfg.Client(), logger), os.Stdout, os.Stderr)

	stop()
	if err := shutdown(context.Background()); err != nil {
		logger.Debug("telemetry shutdown", slog.String("error", err.Error()))
	}
	os.Exit(code)
}

func newClient(cfg syllabus.Config, logger *slog.Logger) *syllabus.Client {
	san := syllabus.DefaultSanitizeConfig()
	return syllabus.New(cfg,
		syllabus.WithLogger(logger),
		syllabus.WithMiddleware(
			syllabus.Recover(logger),
			syllabus.RequestID(),
			syllabus.Tracing(syllabus.TracingConfig{Sanitize: &san}),
			syllabus.Logger(syllabus.LoggerConfig{Logger: logger, Sanitize: &san}),
		),
	)
}
