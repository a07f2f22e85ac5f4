// Copyright 2025 The MarkSpot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/Duke1965/mark-this-spot/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
