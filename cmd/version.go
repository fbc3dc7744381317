// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

// Version is the CLI version, overridden at build time via
// -ldflags "-X queryforge/cli/cmd.Version=x.y.z".
var Version = "0.0.0-dev"
