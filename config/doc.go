// Copyright 2026 The Talkoxid Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads client configuration from a YAML file and the
// environment. Values from the environment override the file, and
// command-line flags (applied by the caller) override both.
package config
