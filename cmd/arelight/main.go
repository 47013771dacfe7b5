// Copyright 2025 The ARElight Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command arelight runs the relation-extraction inference pipeline.
//
// Usage:
//
//	arelight infer --input texts.txt    # Extract and label relations
//	arelight version                    # Print the build version
package main

import (
	arelight "github.com/TrellixVulnTeam/ARElight-NFCA"
	"github.com/TrellixVulnTeam/ARElight-NFCA/cmd/arelight/cmd"
)

// version is set by the build via ldflags.
var version = "dev"

func main() {
	arelight.RegisterMetrics()
	cmd.Version = version
	cmd.Execute()
}
