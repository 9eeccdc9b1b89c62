// Cinerec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package logging provides centralized zerolog-based structured logging for Cinerec.
//
// The package provides:
//   - A global logger configured once at startup with Init
//   - JSON output for production and console output for development
//   - Context helpers that attach correlation, request and training run IDs
//   - An slog adapter so that suture's sutureslog event hook logs through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//
//	logging.Info().Str("backend", "file").Msg("Snapshot store ready")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Precomputed tier failed")
//
// Components receive a zerolog.Logger by value and add their own fields:
//
//	logger := logging.WithComponent("orchestrator")
//
// # Configuration
//
// Environment variables (read by internal/config):
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event is never written.
package logging
