// Copyright 2025 The TaskStream Authors.
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
//
// SPDX-License-Identifier: Apache-2.0

// Package handler bridges task event streams onto HTTP Server-Sent Events.
//
// Each request to the stream endpoint spawns one producer and drains its
// queue until the end-of-stream sentinel arrives, mapping every internal
// event onto a named wire event. A stream always terminates with either the
// end event or the distinguished error event; the drain wait is bounded so
// a producer that dies without sealing its stream cannot hang the client.
package handler
