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

// Command syllabus-mock serves the in-memory fake backend so front ends can be
// developed without the real service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jrgalyan/syllabus/syllabustest"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	origins := flag.String("cors-origins", "*", "comma-separated origins allowed to call the backend")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	cors := syllabustest.DefaultCORSConfig()
	cors.AllowOrigins = strings.Split(*origins, ",")

	b := syllabustest.NewBackend(syllabustest.DefaultFixtures(), syllabustest.Config{Logger: logger, CORS: &cors})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := syllabustest.Serve(ctx, syllabustest.ServerConfig{Addr: *addr}, b, logger); err != nil {
		logger.Error("server error", slog.Any("err", err))
		os.Exit(1)
	}
}
